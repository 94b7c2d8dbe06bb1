// Package catalog builds the in-memory library tree the matcher searches.
//
// A [Tree] is built once per library from the provider's flat item list. Series, seasons, episodes
// and top-level items all keep provider order, so every lookup over a frozen snapshot is deterministic.
package catalog

import (
	"github.com/charmbracelet/log"
	"github.com/wkelton/jellytrek/internal/models"
)

// Tree is one library: its series and the playable items not filed under any season.
type Tree struct {
	Library string
	Series  []*models.Series
	Movies  []models.Movie
	Stats   Stats
}

// Stats counts what [Build] did with each raw item.
type Stats struct {
	Series         int
	Seasons        int
	Episodes       int
	TopLevel       int
	DroppedSeasons int
	Ignored        int
}

// Index is the catalog the matcher works against: movies from the movie library and series from the show library.
type Index struct {
	Movies []models.Movie
	Series []*models.Series
}

// NewIndex combines the two library trees. Either may be nil.
//
// Only the movie library's top-level items are matchable movies; stray top-level videos in the show library are not.
func NewIndex(movies, shows *Tree) *Index {
	idx := &Index{}
	if movies != nil {
		idx.Movies = movies.Movies
	}
	if shows != nil {
		idx.Series = shows.Series
	}
	return idx
}

// Build partitions raw items into series, seasons and videos and links them.
//
// Seasons attach to their series by SeriesId, falling back to ParentId; a season with no known parent is dropped.
// Videos attach to the season named by SeasonId (falling back to ParentId) in any series; the rest become top-level items.
// Anything that is neither a series, a season nor a video is ignored.
func Build(library string, items []models.RawItem, logger *log.Logger) *Tree {
	tree := &Tree{Library: library}
	seriesByID := map[string]*models.Series{}
	seasonByID := map[string]*models.Season{}

	var seasons, videos []models.RawItem
	for _, item := range items {
		switch {
		case item.IsFolder && item.Type == models.ItemTypeSeries:
			if _, dup := seriesByID[item.ID]; dup {
				continue
			}
			s := models.NewSeries(item.ID, item.Name)
			seriesByID[item.ID] = s
			tree.Series = append(tree.Series, s)
		case item.IsFolder && item.Type == models.ItemTypeSeason:
			seasons = append(seasons, item)
		case !item.IsFolder && item.MediaType == models.MediaTypeVideo:
			videos = append(videos, item)
		default:
			tree.Stats.Ignored++
		}
	}

	for _, item := range seasons {
		if _, dup := seasonByID[item.ID]; dup {
			continue
		}
		parent := firstNonEmpty(item.SeriesID, item.ParentID)
		series, ok := seriesByID[parent]
		if !ok {
			tree.Stats.DroppedSeasons++
			if logger != nil {
				logger.Warn("dropping season without a known series", "library", library, "season", item.Name, "id", item.ID, "parent", parent)
			}
			continue
		}
		season := models.NewSeason(item.ID, item.Name, item.IndexNumber)
		series.AddSeason(season)
		seasonByID[item.ID] = season
	}

	for _, item := range videos {
		if season, ok := seasonByID[firstNonEmpty(item.SeasonID, item.ParentID)]; ok {
			season.Episodes = append(season.Episodes, models.Episode{ID: item.ID, Title: item.Name, IndexNumber: item.IndexNumber})
			tree.Stats.Episodes++
			continue
		}
		tree.Movies = append(tree.Movies, models.Movie{ID: item.ID, Title: item.Name})
		tree.Stats.TopLevel++
	}

	tree.Stats.Series = len(tree.Series)
	tree.Stats.Seasons = len(seasonByID)

	if logger != nil {
		for _, series := range tree.Series {
			logger.Debug("series indexed", "library", library, "series", series.Title, "id", series.ID,
				"seasons", len(series.Seasons), "episodes", series.EpisodeCount())
		}
		logger.Debug("library indexed", "library", library,
			"series", tree.Stats.Series, "seasons", tree.Stats.Seasons, "episodes", tree.Stats.Episodes,
			"top_level", tree.Stats.TopLevel, "dropped_seasons", tree.Stats.DroppedSeasons, "ignored", tree.Stats.Ignored)
	}
	return tree
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
