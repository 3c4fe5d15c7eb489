package sink

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/common/expfmt"

	"github.com/DynamicDevices/utilisation-example/internal/compute"
)

var twoOfThree = compute.Result{Percent: 200.0 / 3, Used: 2, Total: 3, Threshold: 15}

func TestWriter(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		want      string
	}{
		{"default via negative", -1, "66.666667\n"},
		{"six", 6, "66.666667\n"},
		{"two", 2, "66.67\n"},
		{"zero", 0, "67\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (Writer{W: &buf, Precision: tc.precision}).Write(twoOfThree); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if buf.String() != tc.want {
				t.Errorf("output = %q, want %q", buf.String(), tc.want)
			}
		})
	}
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWriter_Error(t *testing.T) {
	if err := (Writer{W: brokenWriter{}}).Write(twoOfThree); err == nil {
		t.Fatal("Write to broken writer: expected error, got nil")
	}
}

func TestTextFile_Replaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	if err := os.WriteFile(path, []byte("stale contents that are longer\n"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := (TextFile{Path: path, Precision: 6}).Write(compute.Result{Percent: 100, Used: 1, Total: 1}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if string(got) != "100.000000\n" {
		t.Errorf("file = %q, want %q", got, "100.000000\n")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only results.txt (temp file leaked?)", len(entries))
	}
}

func TestTextFile_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "results.txt")
	if err := (TextFile{Path: path}).Write(twoOfThree); err == nil {
		t.Fatal("Write into missing dir: expected error, got nil")
	}
}

func TestPromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utilisation.prom")
	if err := (PromFile{Path: path, Source: "data.txt"}).Write(twoOfThree); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open prom file: %v", err)
	}
	defer f.Close()

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(f)
	if err != nil {
		t.Fatalf("parse prom file: %v", err)
	}

	want := map[string]float64{
		MetricPercent:   200.0 / 3,
		MetricReadings:  3,
		MetricActive:    2,
		MetricThreshold: 15,
	}
	for name, v := range want {
		mf, ok := mfs[name]
		if !ok {
			t.Errorf("metric %s missing", name)
			continue
		}
		if len(mf.GetMetric()) != 1 {
			t.Fatalf("%s: got %d series, want 1", name, len(mf.GetMetric()))
		}
		m := mf.GetMetric()[0]
		if got := m.GetGauge().GetValue(); got != v {
			t.Errorf("%s = %v, want %v", name, got, v)
		}
		if len(m.GetLabel()) != 1 || m.GetLabel()[0].GetValue() != "data.txt" {
			t.Errorf("%s labels = %v, want source=data.txt", name, m.GetLabel())
		}
	}
}

func TestPromFile_HelpAndType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utilisation.prom")
	if err := (PromFile{Path: path, Source: "s"}).Write(twoOfThree); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	raw, _ := os.ReadFile(path)
	text := string(raw)
	for _, want := range []string{
		"# TYPE utilisation_percent gauge",
		"# HELP utilisation_readings ",
		`utilisation_readings_active{source="s"} 2`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}
