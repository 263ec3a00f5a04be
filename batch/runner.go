package batch

import (
	"context"

	"darkpdf/converter"
)

// ProgressFunc is invoked after each job with the job just finished and the
// running counters. Jobs are delivered in scan order.
type ProgressFunc func(job *Job, result *ScanResult)

// Runner processes a scan's jobs sequentially: one background worker, jobs
// in discovery order, cancellation honored between files (the file being
// converted is always allowed to finish).
type Runner struct {
	Options  converter.Options
	Progress ProgressFunc

	scanner *Scanner
	convert func(src, dst string, opts converter.Options) converter.Result
}

// NewRunner creates a runner with the given conversion options
func NewRunner(opts converter.Options) *Runner {
	return &Runner{
		Options: opts,
		scanner: NewScanner(),
		convert: converter.Convert,
	}
}

// Run scans root and converts every stale PDF beneath it. With dryRun set it
// performs the staleness decisions and path mapping only and writes nothing.
// On cancellation the result still carries complete counters for everything
// attempted; unprocessed jobs remain pending.
func (r *Runner) Run(ctx context.Context, root string, dryRun bool) (*ScanResult, error) {
	result, err := r.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	for _, job := range result.Jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if job.Outcome == OutcomeSkipped {
			r.report(job, result)
			continue
		}

		if dryRun {
			r.report(job, result)
			continue
		}

		res := r.convert(job.Source, job.Dest, r.Options)
		switch res.Status {
		case converter.StatusConverted:
			result.finalize(job, OutcomeConverted, "")
		case converter.StatusConvertedWithWarnings:
			result.finalize(job, OutcomeConvertedWithWarnings, joinWarnings(res.Warnings))
		default:
			result.finalize(job, OutcomeFailed, res.Reason)
		}
		r.report(job, result)
	}

	return result, nil
}

func (r *Runner) report(job *Job, result *ScanResult) {
	if r.Progress != nil {
		r.Progress(job, result)
	}
}

func joinWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	s := warnings[0]
	for _, w := range warnings[1:] {
		s += "; " + w
	}
	return s
}
