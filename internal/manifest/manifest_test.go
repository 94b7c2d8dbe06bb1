package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wkelton/jellytrek/internal/shared"
)

func intPtr(n int) *int { return &n }

func TestLoad(t *testing.T) {
	t.Run("skips header and keeps order", func(t *testing.T) {
		input := "parent|season|episode|name\n" +
			"MOV|||Star Trek (2009)\n" +
			"TOS|1|1|The Man Trap\n" +
			"voy|3|4|Sacred Ground\n"

		entries, err := Load(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(entries))
		}

		movie := entries[0]
		if !movie.IsMovie || movie.ParentCode != MovieCode || movie.Season != nil || movie.Episode != nil {
			t.Errorf("unexpected movie entry %+v", movie)
		}
		if movie.SeriesName != "" {
			t.Errorf("movies have no series name, got %q", movie.SeriesName)
		}

		tos := entries[1]
		if tos.IsMovie || tos.SeriesName != "The Original Series" || *tos.Season != 1 || *tos.Episode != 1 {
			t.Errorf("unexpected series entry %+v", tos)
		}
		if tos.Line != 3 {
			t.Errorf("expected line 3, got %d", tos.Line)
		}

		if entries[2].ParentCode != "VOY" || entries[2].SeriesName != "Voyager" {
			t.Errorf("parent code should be upper-cased, got %+v", entries[2])
		}
	})

	t.Run("empty input yields no entries", func(t *testing.T) {
		entries, err := Load(strings.NewReader("parent|season|episode|name\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries, got %d", len(entries))
		}
	})

	t.Run("errors", func(t *testing.T) {
		tc := []struct {
			name  string
			input string
			want  error
		}{
			{name: "too few fields", input: "h|h|h|h\nTNG|1|1\n", want: shared.ErrMalformedRow},
			{name: "non-numeric season", input: "h|h|h|h\nTNG|one|1|Encounter at Farpoint\n", want: shared.ErrMalformedRow},
			{name: "negative episode", input: "h|h|h|h\nTNG|1|-2|Encounter at Farpoint\n", want: shared.ErrMalformedRow},
			{name: "unknown series", input: "h|h|h|h\nXYZ|1|1|Nope\n", want: shared.ErrUnknownSeries},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				_, err := Load(strings.NewReader(tt.input))
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("error names the line", func(t *testing.T) {
		_, err := Load(strings.NewReader("h|h|h|h\nTNG|1|1|Ok\nTNG|x|1|Bad\n"))
		if err == nil || !strings.Contains(err.Error(), "line 3") {
			t.Errorf("expected error mentioning line 3, got %v", err)
		}
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chrono.csv")
	if err := os.WriteFile(path, []byte("h|h|h|h\nENT|1|1|Broken Bow\n"), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].SeriesName != "Enterprise" {
		t.Errorf("unexpected entries %+v", entries)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewEntry(t *testing.T) {
	t.Run("unknown fields stay nil", func(t *testing.T) {
		e, err := NewEntry("DS9", nil, nil, "Emissary")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Season != nil || e.Episode != nil {
			t.Errorf("expected unknown season/episode, got %v %v", e.Season, e.Episode)
		}
	})

	t.Run("The Cage is retagged", func(t *testing.T) {
		for _, season := range []*int{nil, intPtr(0)} {
			e, err := NewEntry("TOS", season, nil, "The Cage")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Season == nil || *e.Season != 1 || e.Episode == nil || *e.Episode != 0 {
				t.Errorf("expected S1E0, got %s", e.Label())
			}
		}
	})

	t.Run("The Cage in a real season is left alone", func(t *testing.T) {
		e, _ := NewEntry("TOS", intPtr(2), intPtr(5), "The Cage")
		if *e.Season != 2 || *e.Episode != 5 {
			t.Errorf("expected S2E5, got %s", e.Label())
		}
	})

	t.Run("Label", func(t *testing.T) {
		e, _ := NewEntry("LDS", intPtr(2), nil, "Kayshon, His Eyes Open")
		if got := e.Label(); got != "Lower Decks S2E? Kayshon, His Eyes Open" {
			t.Errorf("unexpected label %q", got)
		}
	})
}

func TestFixTitle(t *testing.T) {
	tc := []struct {
		in   string
		want string
	}{
		{in: "Prophesy", want: "Prophecy"},
		{in: "Vox", want: "Võx"},
		{in: "E-Squared", want: "E²"},
		{in: "Menage a Troi", want: "Ménage à Troi"},
		{in: "The Butchers Knife Cares Not for the Lambs Cry", want: "The Butcher's Knife Cares Not for the Lamb's Cry"},
		{in: "Faith of the Heart", want: "Faith of the Heart"},
		{in: "Who Mourns for Adonais?", want: "Who Mourns for Adonais?"},
		{in: "Far Beyond the Stars…", want: "Far Beyond the Stars..."},
		{in: "Q’s Day", want: "Q's Day"},
		{in: "Prophesy Part 2", want: "Prophesy Part 2"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			if got := FixTitle(tt.in); got != tt.want {
				t.Errorf("FixTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeriesName(t *testing.T) {
	if name, ok := SeriesName("snw"); !ok || name != "Strange New Worlds" {
		t.Errorf("expected Strange New Worlds, got %q %v", name, ok)
	}
	if _, ok := SeriesName("MOV"); ok {
		t.Error("MOV is not a series code")
	}
	if codes := SeriesCodes(); len(codes) != 12 || codes[0] != "DIS" || codes[11] != "VOY" {
		t.Errorf("expected 12 sorted series codes, got %v", codes)
	}
}

func TestUnknownSeriesListsKnownCodes(t *testing.T) {
	_, err := NewEntry("XYZ", intPtr(1), intPtr(1), "Nope")
	if !errors.Is(err, shared.ErrUnknownSeries) {
		t.Fatalf("expected ErrUnknownSeries, got %v", err)
	}
	if !strings.Contains(err.Error(), "known codes: DIS, DS9, ENT") || !strings.HasSuffix(err.Error(), "VOY, MOV") {
		t.Errorf("expected known codes in %q", err.Error())
	}
}
