package matching

import (
	"strings"

	"github.com/wkelton/jellytrek/internal/catalog"
	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/models"
)

// movieAliases maps a manifest movie title to the catalog title it is filed under.
var movieAliases = map[string]string{
	"Star Trek (2009)": "Star Trek",
}

// umbrellaTitle is the catalog title shared by the legacy shows; they are told apart by season count.
const umbrellaTitle = "Star Trek"

var umbrellaSeasonCounts = map[string]int{
	"The Original Series": 3,
	"The Animated Series": 2,
}

// twoPartPairs are the (first, second) title endings that mark a story split across two manifest rows.
var twoPartPairs = [][2]string{
	{"Part 1", "Part 2"},
	{" I", " II"},
}

// MatchMovie finds the first movie whose title equals the entry title, or its alias. Returns the matched stage too.
func MatchMovie(entry manifest.Entry, movies []models.Movie) (models.Movie, Stage, bool) {
	alias, hasAlias := movieAliases[entry.Name]
	for _, movie := range movies {
		if movie.Title == entry.Name {
			return movie, StageExact, true
		}
		if hasAlias && movie.Title == alias {
			return movie, StageAlias, true
		}
	}
	return models.Movie{}, StageNone, false
}

// SeriesMatches reports whether series holds the entry's show.
func SeriesMatches(entry manifest.Entry, series *models.Series) bool {
	if entry.SeriesName == "" {
		return false
	}
	if strings.HasSuffix(series.Title, entry.SeriesName) {
		return true
	}
	count, ok := umbrellaSeasonCounts[entry.SeriesName]
	return ok && series.Title == umbrellaTitle && len(series.Seasons) == count
}

// SeriesCandidates returns every series that matches the entry, in catalog order.
func SeriesCandidates(entry manifest.Entry, all []*models.Series) []*models.Series {
	var out []*models.Series
	for _, series := range all {
		if SeriesMatches(entry, series) {
			out = append(out, series)
		}
	}
	return out
}

// MatchSeries returns the first matching series.
func MatchSeries(entry manifest.Entry, all []*models.Series) (*models.Series, bool) {
	candidates := SeriesCandidates(entry, all)
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[0], true
}

// MatchSeason finds the season whose derived number equals number. Unknown and unnumbered seasons never match.
func MatchSeason(series *models.Series, number *int) (*models.Season, bool) {
	if number == nil {
		return nil, false
	}
	for _, season := range series.Seasons {
		if season.Number != models.UnnumberedSeason && season.Number == *number {
			return season, true
		}
	}
	return nil, false
}

// MatchEpisode runs the title cascade against each episode in catalog order; the first one accepted at any stage wins.
func MatchEpisode(entry manifest.Entry, episodes []models.Episode) (models.Episode, Stage, bool) {
	forms := Cascade(entry.Name)
	for _, ep := range episodes {
		if stage, ok := compareForms(entry.Name, forms, ep.Title, Cascade(ep.Title)); ok {
			return ep, stage, true
		}
	}
	return models.Episode{}, StageNone, false
}

// IsTwoPartPair reports whether current reads as the second half of previous ("… Part 2" after "… Part 1", "… II" after "… I").
func IsTwoPartPair(current, previous string) bool {
	for _, pair := range twoPartPairs {
		if strings.HasSuffix(current, pair[1]) && strings.HasSuffix(previous, pair[0]) {
			return true
		}
	}
	return false
}

// Matcher resolves manifest entries against a frozen catalog index.
type Matcher struct {
	index *catalog.Index
}

// NewMatcher creates a [Matcher] over idx. The index is never modified.
func NewMatcher(idx *catalog.Index) *Matcher {
	if idx == nil {
		idx = &catalog.Index{}
	}
	return &Matcher{index: idx}
}

type seasonRef struct{ seriesID, seasonID string }

// Resolve matches one entry. prev is the result of the manifest entry just before it (nil for the first).
//
// A series entry whose episode cannot be found is resolved as merged into prev when prev resolved in the same
// series and season and the two titles form a two-part pair. An entry that clears any stage is always Matched.
func (m *Matcher) Resolve(entry manifest.Entry, prev *Result) Result {
	if entry.IsMovie {
		return m.resolveMovie(entry)
	}

	res := Result{Entry: entry, FailedStep: StepSeries}
	var reached []seasonRef

	for _, series := range SeriesCandidates(entry, m.index.Series) {
		if res.FailedStep == StepSeries {
			res.FailedStep = StepSeason
			res.SeriesID = series.ID
		}

		season, ok := MatchSeason(series, entry.Season)
		if !ok {
			continue
		}
		if res.FailedStep == StepSeason {
			res.FailedStep = StepEpisode
			res.SeriesID, res.SeasonID = series.ID, season.ID
		}
		reached = append(reached, seasonRef{series.ID, season.ID})

		if ep, stage, ok := MatchEpisode(entry, season.Episodes); ok {
			res.Outcome = Matched
			res.ID, res.Title, res.Stage = ep.ID, ep.Title, stage
			res.SeriesID, res.SeasonID = series.ID, season.ID
			res.FailedStep = StepNone
			break
		}
	}

	if res.Outcome == Unmatched && res.FailedStep == StepEpisode && prev.reachedBy(reached) && IsTwoPartPair(entry.Name, prev.Entry.Name) {
		res.Outcome = AssumedMerged
		res.ID, res.Title = prev.ID, prev.Title
		res.SeriesID, res.SeasonID = prev.SeriesID, prev.SeasonID
		res.MergedWith = prev.Entry.Name
		res.FailedStep = StepNone
	}

	return res
}

func (m *Matcher) resolveMovie(entry manifest.Entry) Result {
	movie, stage, ok := MatchMovie(entry, m.index.Movies)
	if !ok {
		return Result{Entry: entry, FailedStep: StepMovie}
	}
	return Result{Entry: entry, Outcome: Matched, ID: movie.ID, Title: movie.Title, Stage: stage}
}

// resolvedIn reports whether r produced an id inside the given series and season.
func (r *Result) resolvedIn(seriesID, seasonID string) bool {
	return r != nil && r.Resolved() && !r.Entry.IsMovie && r.SeriesID == seriesID && r.SeasonID == seasonID
}

func (r *Result) reachedBy(refs []seasonRef) bool {
	for _, ref := range refs {
		if r.resolvedIn(ref.seriesID, ref.seasonID) {
			return true
		}
	}
	return false
}
