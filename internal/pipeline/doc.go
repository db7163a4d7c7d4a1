// Package pipeline drives one ingestion run.
//
// The Orchestrator iterates units (one symbol, or one symbol × source pair)
// in configuration order, fetching and transforming strictly sequentially.
// A fetch failure skips its unit; a transform failure drops its record;
// neither aborts the run. All surviving records accumulate into one batch
// that is loaded exactly once at the end — the load is all-or-nothing and
// is never retried.
package pipeline
