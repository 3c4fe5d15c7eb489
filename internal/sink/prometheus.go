package sink

import (
	"bytes"
	"fmt"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/DynamicDevices/utilisation-example/internal/compute"
)

// Metric names written by PromFile.
const (
	MetricPercent   = "utilisation_percent"
	MetricReadings  = "utilisation_readings"
	MetricActive    = "utilisation_readings_active"
	MetricThreshold = "utilisation_threshold"
)

// PromFile writes the result as Prometheus gauges to Path.
// Every series carries a source label set to Source.
type PromFile struct {
	Path   string
	Source string
}

// Write replaces Path with the text exposition of res.
func (s PromFile) Write(res compute.Result) error {
	var buf bytes.Buffer
	for _, mf := range families(res, s.Source) {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("sink: encode %s: %w", mf.GetName(), err)
		}
	}
	if err := writeAtomic(s.Path, buf.Bytes()); err != nil {
		return fmt.Errorf("sink: prometheus file %q: %w", s.Path, err)
	}
	return nil
}

// families builds one gauge family per exported figure.
func families(res compute.Result, source string) []*dto.MetricFamily {
	return []*dto.MetricFamily{
		gauge(MetricPercent, "Percentage of readings at or above the trigger level.", source, res.Percent),
		gauge(MetricReadings, "Number of readings in the last run.", source, float64(res.Total)),
		gauge(MetricActive, "Number of readings at or above the trigger level in the last run.", source, float64(res.Used)),
		gauge(MetricThreshold, "Trigger level readings were compared against.", source, res.Threshold),
	}
}

func gauge(name, help, source string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Label: []*dto.LabelPair{{
				Name:  proto.String("source"),
				Value: proto.String(source),
			}},
			Gauge: &dto.Gauge{Value: proto.Float64(v)},
		}},
	}
}
