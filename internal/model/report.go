package model

import "github.com/google/uuid"

// UnitOutcome records what happened to one iteration unit
// (one symbol, or one symbol × source pair).
type UnitOutcome struct {
	Symbol  string
	Source  string // Dimension name for news/social units, empty for bars
	Kind    Kind
	Fetched int // Raw records returned by the adapter
	Dropped int // Records dropped by per-record transform failures
	Err     error // Fetch error if the unit was skipped, nil otherwise
}

// Skipped reports whether the unit's fetch failed.
func (u UnitOutcome) Skipped() bool { return u.Err != nil }

// LoadCounts holds per-kind persistence counts from one load call.
type LoadCounts struct {
	Inserts   int64
	Updates   int64 // Market bars only (update-on-conflict)
	Conflicts int64 // Rows that hit a no-op conflict
}

// RunReport is the explicit result of one pipeline run. Per-unit failures are
// collected here rather than aborting the run; the load outcome is single and
// all-or-nothing.
type RunReport struct {
	RunID uuid.UUID
	Units []UnitOutcome

	// Batched is the number of processed records accumulated for the load.
	Batched int

	// Loaded holds per-kind counts when the load committed.
	Loaded map[Kind]LoadCounts

	// LoadErr is the terminal load failure, if any. When set, nothing from
	// this run was persisted.
	LoadErr error
}

// FailedUnits returns the units whose fetch was skipped.
func (r *RunReport) FailedUnits() []UnitOutcome {
	var failed []UnitOutcome
	for _, u := range r.Units {
		if u.Skipped() {
			failed = append(failed, u)
		}
	}
	return failed
}

// TotalFetched sums raw records across all units.
func (r *RunReport) TotalFetched() int {
	var n int
	for _, u := range r.Units {
		n += u.Fetched
	}
	return n
}

// TotalDropped sums transform-dropped records across all units.
func (r *RunReport) TotalDropped() int {
	var n int
	for _, u := range r.Units {
		n += u.Dropped
	}
	return n
}
