package compute

import (
	"errors"
	"iter"

	"github.com/DynamicDevices/utilisation-example/internal/decode"
)

// ErrEmptyInput is returned when there are no readings to aggregate.
var ErrEmptyInput = errors.New("compute: no readings")

// Readings is a read-only view of a run's decoded values.
type Readings interface {
	Len() int
	All() iter.Seq[decode.Reading]
}

// Result is the utilisation figure for one run.
type Result struct {
	// Percent is 100 * Used / Total, in the range 0–100.
	Percent float64

	// Used is the number of readings >= Threshold.
	Used int

	// Total is the number of readings considered.
	Total int

	// Threshold is the trigger level the readings were compared against.
	Threshold float64
}

// Utilisation returns the percentage of readings at or above threshold.
func Utilisation(readings Readings, threshold float64) (Result, error) {
	total := readings.Len()
	if total == 0 {
		return Result{Threshold: threshold}, ErrEmptyInput
	}

	used := 0
	for r := range readings.All() {
		if float64(r) >= threshold {
			used++
		}
	}

	return Result{
		Percent:   100 * float64(used) / float64(total),
		Used:      used,
		Total:     total,
		Threshold: threshold,
	}, nil
}
