package matching

import (
	"fmt"

	"github.com/wkelton/jellytrek/internal/manifest"
)

// Outcome is the resolution of one manifest entry.
type Outcome int

const (
	Unmatched Outcome = iota
	Matched
	AssumedMerged
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case AssumedMerged:
		return "assumed_merged"
	default:
		return "unmatched"
	}
}

// Step is the resolution step an unmatched entry stopped at.
type Step int

const (
	StepNone Step = iota
	StepMovie
	StepSeries
	StepSeason
	StepEpisode
)

func (s Step) String() string {
	switch s {
	case StepMovie:
		return "movie"
	case StepSeries:
		return "series"
	case StepSeason:
		return "season"
	case StepEpisode:
		return "episode"
	default:
		return ""
	}
}

// Result is the resolution of one manifest entry.
//
// For [Matched] ID is the catalog item; for [AssumedMerged] it is the item the previous entry resolved to.
// SeriesID and SeasonID hold the furthest point the lookup reached, which is useful even when unmatched.
type Result struct {
	Entry      manifest.Entry
	Outcome    Outcome
	ID         string
	Title      string
	SeriesID   string
	SeasonID   string
	Stage      Stage
	FailedStep Step
	MergedWith string
}

// Resolved reports whether the entry maps to a catalog item.
func (r Result) Resolved() bool {
	return r.Outcome != Unmatched
}

// Diagnostic describes an entry an operator should look at: unmatched, or assumed merged.
type Diagnostic struct {
	Entry   manifest.Entry
	Outcome Outcome
	Step    Step
	Message string
}

func (d Diagnostic) String() string { return d.Message }

func diagnose(r Result) (Diagnostic, bool) {
	d := Diagnostic{Entry: r.Entry, Outcome: r.Outcome, Step: r.FailedStep}
	switch {
	case r.Outcome == AssumedMerged:
		d.Message = fmt.Sprintf("Assuming %s is combined in the file that has %s (%s)", r.Entry.Name, r.MergedWith, r.Title)
	case r.Outcome == Unmatched && r.Entry.IsMovie:
		d.Message = fmt.Sprintf("%s: no movie with this title", r.Entry.Name)
	case r.Outcome == Unmatched:
		d.Message = fmt.Sprintf("%s: no %s match (series_id=%s season_id=%s)",
			r.Entry.Label(), r.FailedStep, orNone(r.SeriesID), orNone(r.SeasonID))
	default:
		return Diagnostic{}, false
	}
	return d, true
}

func orNone(id string) string {
	if id == "" {
		return "none"
	}
	return id
}
