package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/DynamicDevices/utilisation-example/internal/compute"
	"github.com/DynamicDevices/utilisation-example/internal/decode"
	"github.com/DynamicDevices/utilisation-example/internal/store"
)

// ErrPhase is returned when an operation is called in the wrong phase.
var ErrPhase = errors.New("operation not valid in current phase")

// Phase is the lifecycle stage of a Pipeline.
type Phase int

const (
	// Ingesting accepts tokens; aggregation is not yet valid.
	Ingesting Phase = iota

	// Closed holds the final readings; no further appends.
	Closed

	// Aggregated has a computed result; Aggregate returns it again.
	Aggregated
)

func (p Phase) String() string {
	switch p {
	case Ingesting:
		return "ingesting"
	case Closed:
		return "closed"
	case Aggregated:
		return "aggregated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Policy decides what Ingest does with a token that fails to decode.
type Policy string

const (
	// PolicyAbort stops ingestion at the first undecodable token.
	PolicyAbort Policy = "abort"

	// PolicySkip logs and counts undecodable tokens and carries on.
	PolicySkip Policy = "skip"
)

// TokenSource produces the next token, or io.EOF at the end of input.
type TokenSource interface {
	Next() (string, error)
}

// Options configures a Pipeline.
type Options struct {
	// Threshold is the trigger level; readings >= Threshold count as used.
	Threshold float64

	// Capacity bounds the number of stored readings.
	// Non-positive selects store.DefaultCapacity.
	Capacity int

	// OnDecodeError defaults to PolicyAbort when empty.
	OnDecodeError Policy

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Stats counts what happened during ingestion.
type Stats struct {
	Tokens  int // tokens read from the source
	Stored  int // readings appended to the store
	Skipped int // undecodable tokens dropped under PolicySkip
}

// TokenError ties an ingestion failure to the token that caused it.
type TokenError struct {
	Index int // 0-based position in the input
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("pipeline: token %d %q: %v", e.Index, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Pipeline owns the store for one run.
type Pipeline struct {
	opts   Options
	log    *slog.Logger
	store  *store.Store
	phase  Phase
	stats  Stats
	result compute.Result
}

// New creates a Pipeline in the Ingesting phase.
func New(opts Options) *Pipeline {
	if opts.OnDecodeError == "" {
		opts.OnDecodeError = PolicyAbort
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		opts:  opts,
		log:   log,
		store: store.New(opts.Capacity),
		phase: Ingesting,
	}
}

// Phase returns the current phase.
func (p *Pipeline) Phase() Phase { return p.phase }

// Stats returns the ingestion counters so far.
func (p *Pipeline) Stats() Stats { return p.stats }

// Readings returns a read-only view of the stored readings.
func (p *Pipeline) Readings() compute.Readings { return p.store }

// Ingest reads src to the end and stores every decoded reading.
// The pipeline is Closed when Ingest returns, whatever the outcome.
func (p *Pipeline) Ingest(ctx context.Context, src TokenSource) error {
	if p.phase != Ingesting {
		return fmt.Errorf("pipeline: ingest while %s: %w", p.phase, ErrPhase)
	}
	defer p.close()

	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline: ingest: %w", err)
		}

		tok, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline: read token %d: %w", idx, err)
		}
		p.stats.Tokens++

		r, err := decode.Decode(tok)
		if err != nil {
			if p.opts.OnDecodeError == PolicySkip {
				p.stats.Skipped++
				p.log.Warn("pipeline: skipping undecodable token",
					"index", idx, "token", tok, "err", err)
				continue
			}
			return &TokenError{Index: idx, Token: tok, Err: err}
		}

		if err := p.store.Append(r); err != nil {
			return &TokenError{Index: idx, Token: tok, Err: err}
		}
		p.stats.Stored++
		p.log.Debug("pipeline: reading", "index", idx, "value", float64(r))
	}
}

func (p *Pipeline) close() {
	p.store.Close()
	p.phase = Closed
	p.log.Debug("pipeline: ingestion closed",
		"readings", p.store.Len(), "capacity", p.store.Cap(), "skipped", p.stats.Skipped)
}

// Aggregate computes the utilisation over the stored readings.
// Repeated calls return the first successful result.
func (p *Pipeline) Aggregate() (compute.Result, error) {
	switch p.phase {
	case Ingesting:
		return compute.Result{}, fmt.Errorf("pipeline: aggregate while %s: %w", p.phase, ErrPhase)
	case Aggregated:
		return p.result, nil
	}

	res, err := compute.Utilisation(p.store, p.opts.Threshold)
	if err != nil {
		return res, fmt.Errorf("pipeline: aggregate: %w", err)
	}
	p.result = res
	p.phase = Aggregated
	return res, nil
}
