// Package pipeline runs one batch of sensor tokens through decode, store
// and compute.
//
// A Pipeline moves through three phases:
//
//	Ingesting -> Closed -> Aggregated
//
// Ingest pulls tokens from a TokenSource until io.EOF, decoding each one and
// appending it to a bounded store.Store. It stops early on the first
// capacity error, source error or cancelled context, and (with the default
// PolicyAbort) on the first token that fails to decode. However ingestion
// ends, the pipeline is Closed and the readings stored so far are kept.
// Errors tied to a token are *TokenError values carrying its 0-based index.
//
// Aggregate computes the utilisation over the closed store. It may be called
// any number of times and always returns the same result.
//
// Run wires a whole run together: it tags the run with a UUID, ingests,
// aggregates whatever was stored and hands the result to each Sink. A run
// that stopped early still writes its partial result before returning the
// ingestion error.
package pipeline
