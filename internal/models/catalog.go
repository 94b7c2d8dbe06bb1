package models

import (
	"fmt"
	"strconv"
)

// Jellyfin item type and media type values jellytrek cares about.
const (
	ItemTypeSeries = "Series"
	ItemTypeSeason = "Season"
	MediaTypeVideo = "Video"
)

// UnnumberedSeason is the derived number of a season that never matches a manifest season.
const UnnumberedSeason = -1

// RawItem is one item from the Jellyfin items endpoint. Only the fields used to build the catalog are decoded.
type RawItem struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	IsFolder       bool   `json:"IsFolder"`
	Type           string `json:"Type"`
	MediaType      string `json:"MediaType,omitempty"`
	ParentID       string `json:"ParentId,omitempty"`
	SeriesID       string `json:"SeriesId,omitempty"`
	SeasonID       string `json:"SeasonId,omitempty"`
	IndexNumber    *int   `json:"IndexNumber,omitempty"`
	PlaylistItemID string `json:"PlaylistItemId,omitempty"`
}

// Movie is a playable top-level item of a library.
type Movie struct {
	ID    string
	Title string
}

// Episode is a playable item attached to a season.
type Episode struct {
	ID          string
	Title       string
	IndexNumber *int
}

// Season is a season folder with its episodes in provider order.
//
// Number is derived once at build time: the provider index when Name is exactly "Season <index>", otherwise [UnnumberedSeason].
type Season struct {
	ID          string
	Name        string
	IndexNumber *int
	Number      int
	Episodes    []Episode
}

// NewSeason builds a [Season] and derives its Number.
func NewSeason(id, name string, index *int) *Season {
	return &Season{
		ID:          id,
		Name:        name,
		IndexNumber: index,
		Number:      SeasonNumber(name, index),
	}
}

// SeasonNumber returns index when name reads "Season <index>", otherwise [UnnumberedSeason].
//
// Specials, named seasons and seasons whose name disagrees with the provider index never match a numeric season.
func SeasonNumber(name string, index *int) int {
	if index == nil {
		return UnnumberedSeason
	}
	if name != "Season "+strconv.Itoa(*index) {
		return UnnumberedSeason
	}
	return *index
}

// Series is a show with its seasons in provider order.
type Series struct {
	ID      string
	Title   string
	Seasons []*Season
	byID    map[string]*Season
}

// NewSeries creates an empty [Series].
func NewSeries(id, title string) *Series {
	return &Series{ID: id, Title: title, byID: map[string]*Season{}}
}

// AddSeason appends season, keeping provider order. A repeated id is ignored.
func (s *Series) AddSeason(season *Season) {
	if s.byID == nil {
		s.byID = map[string]*Season{}
	}
	if _, ok := s.byID[season.ID]; ok {
		return
	}
	s.byID[season.ID] = season
	s.Seasons = append(s.Seasons, season)
}

// EpisodeCount totals the episodes across all seasons.
func (s *Series) EpisodeCount() int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}

// Library is a top-level user view (Movies, TV Shows, Playlists).
type Library struct {
	ID   string
	Name string
}

// Playlist is an existing playlist with its entries in play order.
type Playlist struct {
	ID      string
	Name    string
	Entries []PlaylistEntry
}

// PlaylistEntry is one slot of a playlist.
//
// ItemID is the catalog item id; EntryID is the playlist-specific id used by move requests.
type PlaylistEntry struct {
	ItemID  string
	EntryID string
	Name    string
}

// ItemIDs returns the catalog ids of the playlist in order.
func (p *Playlist) ItemIDs() []string {
	ids := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		ids[i] = e.ItemID
	}
	return ids
}

// PlaylistDiffPlan lists the ids to append and the index each must be moved to afterwards.
//
// NewIDs and TargetIndices always have the same length.
type PlaylistDiffPlan struct {
	NewIDs        []string
	TargetIndices []int
}

// Len returns the number of planned additions.
func (p *PlaylistDiffPlan) Len() int { return len(p.NewIDs) }

func (p *PlaylistDiffPlan) String() string {
	return fmt.Sprintf("%d new item(s) at %v", len(p.NewIDs), p.TargetIndices)
}
