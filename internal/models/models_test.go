package models

import "testing"

func intPtr(n int) *int { return &n }

func TestSeasonNumber(t *testing.T) {
	tc := []struct {
		name  string
		title string
		index *int
		want  int
	}{
		{name: "numbered season", title: "Season 3", index: intPtr(3), want: 3},
		{name: "season zero named consistently", title: "Season 0", index: intPtr(0), want: 0},
		{name: "specials", title: "Specials", index: intPtr(0), want: UnnumberedSeason},
		{name: "name disagrees with index", title: "Season 2", index: intPtr(3), want: UnnumberedSeason},
		{name: "missing index", title: "Season 1", index: nil, want: UnnumberedSeason},
		{name: "extra text", title: "Season 1 (Remastered)", index: intPtr(1), want: UnnumberedSeason},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SeasonNumber(tt.title, tt.index); got != tt.want {
				t.Errorf("SeasonNumber(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}

func TestSeries(t *testing.T) {
	t.Run("AddSeason keeps order and ignores repeats", func(t *testing.T) {
		series := NewSeries("s1", "Star Trek: Voyager")
		first := NewSeason("a", "Season 1", intPtr(1))
		second := NewSeason("b", "Season 2", intPtr(2))

		series.AddSeason(first)
		series.AddSeason(second)
		series.AddSeason(NewSeason("a", "Season 1 again", intPtr(1)))

		if len(series.Seasons) != 2 {
			t.Fatalf("expected 2 seasons, got %d", len(series.Seasons))
		}
		if series.Seasons[0] != first || series.Seasons[1] != second {
			t.Error("seasons out of provider order")
		}
	})

	t.Run("EpisodeCount", func(t *testing.T) {
		series := NewSeries("s1", "Star Trek")
		season := NewSeason("a", "Season 1", intPtr(1))
		season.Episodes = []Episode{{ID: "e1"}, {ID: "e2"}}
		series.AddSeason(season)

		if series.EpisodeCount() != 2 {
			t.Errorf("expected 2 episodes, got %d", series.EpisodeCount())
		}
	})
}

func TestSessionValidate(t *testing.T) {
	valid := NewSession("http://jf.local/", "u", "kirk", "tok", "dev")
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid session, got %v", err)
	}
	if valid.ServerURL() != "http://jf.local" {
		t.Errorf("expected trailing slash trimmed, got %s", valid.ServerURL())
	}

	missing := NewSession("http://jf.local", "u", "kirk", "", "dev")
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing token")
	}
}

func TestPlaylistItemIDs(t *testing.T) {
	pl := &Playlist{Entries: []PlaylistEntry{{ItemID: "a", EntryID: "1"}, {ItemID: "b", EntryID: "2"}}}
	ids := pl.ItemIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("unexpected ids %v", ids)
	}
}
