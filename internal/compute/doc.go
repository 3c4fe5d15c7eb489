// Package compute derives the utilisation figure from a run's readings.
//
// Utilisation is the share of readings at or above the trigger level,
// expressed as a percentage:
//
//	percent = 100 * used / total
//
// where used counts readings >= threshold (inclusive) and total is the
// number of readings. An empty input returns ErrEmptyInput instead of
// dividing by zero.
//
// Utilisation only reads through the Readings interface, so computing the
// figure never changes the store it was computed from.
package compute
