// Package store holds the decoded readings of one run in a bounded,
// append-only buffer.
//
// The capacity is fixed when the Store is created and the backing array is
// allocated once; Append never grows it. Appending to a full store returns
// ErrCapacityExceeded and leaves the contents untouched. Close marks the end
// of ingestion, after which the store is only read.
//
// A Store has a single owner and is not safe for concurrent use.
package store
