package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/wkelton/jellytrek/internal/matching"
)

var _ list.Item = resultItem{}

// Filter selects which results the list shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterUnmatched
	FilterMerged
)

func (f Filter) String() string {
	switch f {
	case FilterUnmatched:
		return "Unmatched"
	case FilterMerged:
		return "Assumed merged"
	default:
		return "All entries"
	}
}

// next cycles all → unmatched → merged → all.
func (f Filter) next() Filter {
	return (f + 1) % 3
}

func (f Filter) keep(r matching.Result) bool {
	switch f {
	case FilterUnmatched:
		return r.Outcome == matching.Unmatched
	case FilterMerged:
		return r.Outcome == matching.AssumedMerged
	default:
		return true
	}
}

// resultItem wraps [matching.Result] to implement [list.Item].
type resultItem struct {
	result matching.Result
}

func (i resultItem) FilterValue() string { return i.result.Entry.Name }
func (i resultItem) Title() string       { return i.result.Entry.Label() }
func (i resultItem) Description() string {
	r := i.result
	switch r.Outcome {
	case matching.Matched:
		return fmt.Sprintf("line %d • %s (%s)", r.Entry.Line, r.Title, r.Stage)
	case matching.AssumedMerged:
		return fmt.Sprintf("line %d • merged with %s", r.Entry.Line, r.MergedWith)
	default:
		if r.Entry.IsMovie {
			return fmt.Sprintf("line %d • no movie with this title", r.Entry.Line)
		}
		return fmt.Sprintf("line %d • no %s match", r.Entry.Line, r.FailedStep)
	}
}

// filterItems builds list items for the results f keeps, in manifest order.
func filterItems(report *matching.Report, f Filter) []list.Item {
	items := []list.Item{}
	if report == nil {
		return items
	}
	for _, r := range report.Results {
		if f.keep(r) {
			items = append(items, resultItem{result: r})
		}
	}
	return items
}
