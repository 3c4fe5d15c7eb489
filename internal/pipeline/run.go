package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DynamicDevices/utilisation-example/internal/compute"
)

// Sink receives the result of a run.
type Sink interface {
	Write(res compute.Result) error
}

// Report summarises one run.
type Report struct {
	RunID  string
	Result compute.Result
	Stats  Stats
}

// Run ingests src, aggregates and writes the result to every sink.
//
// If ingestion stops early the partial result is still aggregated and
// written, and the ingestion error is returned alongside the Report. When
// nothing was stored, or ctx was cancelled, the sinks are not called.
func Run(ctx context.Context, src TokenSource, opts Options, sinks ...Sink) (Report, error) {
	rep := Report{RunID: uuid.NewString()}

	base := opts.Logger
	if base == nil {
		base = slog.Default()
	}
	log := base.With("run_id", rep.RunID)
	opts.Logger = log

	p := New(opts)
	ingestErr := p.Ingest(ctx, src)
	rep.Stats = p.Stats()
	if ingestErr != nil {
		log.Error("pipeline: ingestion stopped early",
			"err", ingestErr, "stored", rep.Stats.Stored)
	}
	log.Info("pipeline: ingested",
		"tokens", rep.Stats.Tokens, "stored", rep.Stats.Stored, "skipped", rep.Stats.Skipped)

	res, err := p.Aggregate()
	if err != nil {
		return rep, errors.Join(ingestErr, err)
	}
	rep.Result = res

	// An interrupted run keeps the previous outputs in place.
	if errors.Is(ingestErr, context.Canceled) || errors.Is(ingestErr, context.DeadlineExceeded) {
		log.Warn("pipeline: run cancelled, outputs left unchanged")
		return rep, ingestErr
	}

	for _, s := range sinks {
		if err := s.Write(res); err != nil {
			return rep, errors.Join(ingestErr, fmt.Errorf("pipeline: sink: %w", err))
		}
	}

	log.Info("pipeline: utilisation computed",
		"percent", res.Percent,
		"used", res.Used,
		"total", res.Total,
		"threshold", res.Threshold,
	)
	return rep, ingestErr
}
