package batch

import (
	"github.com/google/uuid"
)

// Outcome is the final state of one conversion job.
type Outcome int

const (
	// OutcomePending marks a job the scanner queued but nothing ran yet.
	OutcomePending Outcome = iota
	OutcomeConverted
	OutcomeConvertedWithWarnings
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeConvertedWithWarnings:
		return "converted-with-warnings"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Job is one (source, destination) pair discovered by the scanner. The
// outcome is set once, by the staleness check (skipped) or by the runner.
type Job struct {
	ID      uuid.UUID
	Source  string
	Dest    string
	Outcome Outcome
	Reason  string // human-readable failure reason
}

// ScanResult aggregates the jobs and counters of one scan/convert run. It is
// built incrementally and read-only once the run returns.
type ScanResult struct {
	Root string
	Jobs []*Job

	Converted int
	Skipped   int
	Failed    int

	// Subtrees the scanner could not read; reported, not fatal.
	SkippedDirs []string
}

// Pending returns the number of jobs still awaiting conversion.
func (r *ScanResult) Pending() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Outcome == OutcomePending {
			n++
		}
	}
	return n
}

// Total returns the number of candidate files the scan discovered.
func (r *ScanResult) Total() int {
	return len(r.Jobs)
}

// finalize records a job's terminal outcome in the counters.
func (r *ScanResult) finalize(j *Job, outcome Outcome, reason string) {
	j.Outcome = outcome
	j.Reason = reason
	switch outcome {
	case OutcomeConverted, OutcomeConvertedWithWarnings:
		r.Converted++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}
