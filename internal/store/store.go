package store

import (
	"errors"
	"iter"

	"github.com/DynamicDevices/utilisation-example/internal/decode"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 255

var (
	// ErrCapacityExceeded is returned by Append when the store is full.
	ErrCapacityExceeded = errors.New("store: capacity exceeded")

	// ErrClosed is returned by Append after Close.
	ErrClosed = errors.New("store: closed")
)

// Store is a bounded, append-only sequence of readings.
type Store struct {
	readings []decode.Reading
	closed   bool
}

// New creates an empty Store holding at most capacity readings.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{readings: make([]decode.Reading, 0, capacity)}
}

// Append adds r to the end of the store.
// It fails without modifying the store when the store is full or closed.
func (s *Store) Append(r decode.Reading) error {
	if s.closed {
		return ErrClosed
	}
	if len(s.readings) == cap(s.readings) {
		return ErrCapacityExceeded
	}
	s.readings = append(s.readings, r)
	return nil
}

// Len returns the number of readings held.
func (s *Store) Len() int { return len(s.readings) }

// Cap returns the maximum number of readings the store accepts.
func (s *Store) Cap() int { return cap(s.readings) }

// Close ends ingestion. Further Appends return ErrClosed.
func (s *Store) Close() { s.closed = true }

// Closed reports whether Close has been called.
func (s *Store) Closed() bool { return s.closed }

// All returns the readings in insertion order. The sequence is lazy and
// can be ranged over any number of times.
func (s *Store) All() iter.Seq[decode.Reading] {
	return func(yield func(decode.Reading) bool) {
		for _, r := range s.readings {
			if !yield(r) {
				return
			}
		}
	}
}
