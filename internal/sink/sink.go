package sink

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DynamicDevices/utilisation-example/internal/compute"
)

// DefaultPrecision matches C's %lf: six digits after the point.
const DefaultPrecision = 6

// Writer prints the percentage to W.
type Writer struct {
	W         io.Writer
	Precision int
}

// Write prints res.Percent followed by a newline.
func (s Writer) Write(res compute.Result) error {
	if _, err := io.WriteString(s.W, format(res, s.Precision)); err != nil {
		return fmt.Errorf("sink: write: %w", err)
	}
	return nil
}

// TextFile replaces the file at Path with the formatted percentage.
type TextFile struct {
	Path      string
	Precision int
}

// Write stores res.Percent as the sole content of Path.
func (s TextFile) Write(res compute.Result) error {
	if err := writeAtomic(s.Path, []byte(format(res, s.Precision))); err != nil {
		return fmt.Errorf("sink: text file %q: %w", s.Path, err)
	}
	return nil
}

func format(res compute.Result, precision int) string {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return fmt.Sprintf("%.*f\n", precision, res.Percent)
}

// writeAtomic writes data to a temp file beside path and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
