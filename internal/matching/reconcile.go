package matching

import (
	"fmt"

	"github.com/wkelton/jellytrek/internal/catalog"
	"github.com/wkelton/jellytrek/internal/manifest"
)

// Report is the outcome of reconciling a whole manifest.
//
// IDs and Names list the matched catalog items in manifest order. Entries assumed merged are
// counted and diagnosed but add no id: their file is already the previous id in the list.
type Report struct {
	Total       int
	Matched     int
	Unmatched   int
	Merged      int
	IDs         []string
	Names       []string
	Results     []Result
	Diagnostics []Diagnostic
}

// Reconcile resolves every entry in order. Unmatched entries are reported and skipped; they never stop the walk.
func Reconcile(entries []manifest.Entry, idx *catalog.Index) *Report {
	matcher := NewMatcher(idx)
	report := &Report{
		Total:   len(entries),
		Results: make([]Result, 0, len(entries)),
	}

	var prev *Result
	for _, entry := range entries {
		res := matcher.Resolve(entry, prev)
		report.record(res)
		prev = &res
	}

	return report
}

func (r *Report) record(res Result) {
	r.Results = append(r.Results, res)

	switch res.Outcome {
	case Matched:
		r.Matched++
		r.IDs = append(r.IDs, res.ID)
		r.Names = append(r.Names, res.Title)
	case AssumedMerged:
		r.Merged++
	default:
		r.Unmatched++
	}

	if d, ok := diagnose(res); ok {
		r.Diagnostics = append(r.Diagnostics, d)
	}
}

// Filter returns the results with the given outcome, in manifest order.
func (r *Report) Filter(outcome Outcome) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == outcome {
			out = append(out, res)
		}
	}
	return out
}

// Summary is the one-line count summary printed after a run.
func (r *Report) Summary() string {
	return fmt.Sprintf("Videos in list: %d\tMatched in Jellyfin: %d\tUnmatched: %d\tAssumed merged: %d",
		r.Total, r.Matched, r.Unmatched, r.Merged)
}
