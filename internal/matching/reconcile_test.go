package matching

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wkelton/jellytrek/internal/catalog"
	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/models"
)

func TestReconcile(t *testing.T) {
	t.Run("reboot film and pilot", func(t *testing.T) {
		idx := &catalog.Index{
			Movies: []models.Movie{{ID: "m1", Title: "Star Trek"}},
			Series: []*models.Series{
				newSeries("tos", "Star Trek",
					newSeason("s1", 1, "The Cage"),
					newSeason("s2", 2),
					newSeason("s3", 3),
				),
			},
		}
		entries := []manifest.Entry{
			mustEntry(t, manifest.MovieCode, nil, nil, "Star Trek (2009)"),
			mustEntry(t, "TOS", intPtr(1), intPtr(1), "The Cage"),
		}

		report := Reconcile(entries, idx)
		if want := []string{"m1", "s1-e1"}; !reflect.DeepEqual(report.IDs, want) {
			t.Errorf("expected ids %v, got %v", want, report.IDs)
		}
		if report.Matched != 2 || report.Unmatched != 0 || report.Merged != 0 {
			t.Errorf("unexpected counts %+v", report)
		}
		if len(report.Diagnostics) != 0 {
			t.Errorf("expected no diagnostics, got %v", report.Diagnostics)
		}
	})

	t.Run("alias spelled either way", func(t *testing.T) {
		idx := &catalog.Index{
			Series: []*models.Series{
				newSeries("dis", "Star Trek: Discovery", newSeason("d4", 4, "Võx")),
			},
		}
		raw := manifest.Entry{Name: "Vox", ParentCode: "DIS", Season: intPtr(4), Episode: intPtr(12), SeriesName: "Discovery"}

		report := Reconcile([]manifest.Entry{raw}, idx)
		if report.Matched != 1 || report.Results[0].Stage != StageAlias {
			t.Errorf("expected alias match, got %+v", report.Results[0])
		}
	})

	t.Run("counts and diagnostics", func(t *testing.T) {
		entries := []manifest.Entry{
			mustEntry(t, "DS9", intPtr(3), intPtr(11), "Past Tense Part 1"),
			mustEntry(t, "DS9", intPtr(3), intPtr(12), "Past Tense Part 2"),
			mustEntry(t, "PRO", intPtr(1), intPtr(1), "Lost and Found"),
			mustEntry(t, manifest.MovieCode, nil, nil, "Star Trek Beyond"),
			mustEntry(t, "DS9", intPtr(4), intPtr(2), "The Visitor"),
		}

		report := Reconcile(entries, fixtureIndex())
		if report.Total != 5 || report.Matched != 2 || report.Merged != 1 || report.Unmatched != 2 {
			t.Fatalf("unexpected counts total=%d matched=%d merged=%d unmatched=%d",
				report.Total, report.Matched, report.Merged, report.Unmatched)
		}
		if report.Matched+report.Merged+report.Unmatched != report.Total {
			t.Error("outcome counts should add up to the total")
		}
		if want := []string{"ds9-3-e2", "ds9-4-e1"}; !reflect.DeepEqual(report.IDs, want) {
			t.Errorf("expected ids %v, got %v", want, report.IDs)
		}
		if want := []string{"Past Tense, Part 1", "The Visitor"}; !reflect.DeepEqual(report.Names, want) {
			t.Errorf("expected names %v, got %v", want, report.Names)
		}

		wantMessages := []string{
			"Assuming Past Tense Part 2 is combined in the file that has Past Tense Part 1 (Past Tense, Part 1)",
			"Prodigy S1E1 Lost and Found: no series match (series_id=none season_id=none)",
			"Star Trek Beyond: no movie with this title",
		}
		if len(report.Diagnostics) != len(wantMessages) {
			t.Fatalf("expected %d diagnostics, got %d", len(wantMessages), len(report.Diagnostics))
		}
		for i, want := range wantMessages {
			if got := report.Diagnostics[i].String(); got != want {
				t.Errorf("diagnostic %d: got %q, want %q", i, got, want)
			}
		}
	})

	t.Run("episode diagnostic names the season reached", func(t *testing.T) {
		report := Reconcile([]manifest.Entry{mustEntry(t, "DS9", intPtr(4), intPtr(2), "Indiscretion")}, fixtureIndex())
		msg := report.Diagnostics[0].Message
		if !strings.Contains(msg, "no episode match") || !strings.Contains(msg, "series_id=ds9 season_id=ds9-4") {
			t.Errorf("unexpected diagnostic %q", msg)
		}
	})

	t.Run("entries cleared by the cascade count as matched", func(t *testing.T) {
		orders := [][]string{
			{"Borderland Part 1", "Borderland Part 2"},
			{"Borderland Part 2", "Borderland Part 1"},
		}
		for _, order := range orders {
			entries := []manifest.Entry{
				mustEntry(t, "ENT", intPtr(4), intPtr(4), order[0]),
				mustEntry(t, "ENT", intPtr(4), intPtr(5), order[1]),
				mustEntry(t, "ENT", intPtr(4), intPtr(6), "Cold Station 12"),
			}
			report := Reconcile(entries, fixtureIndex())
			if report.Matched != 3 || report.Merged != 0 || len(report.Diagnostics) != 0 {
				t.Errorf("%v: unexpected counts matched=%d merged=%d diagnostics=%d",
					order, report.Matched, report.Merged, len(report.Diagnostics))
			}
			if want := []string{"ent4-e1", "ent4-e1", "ent4-e2"}; !reflect.DeepEqual(report.IDs, want) {
				t.Errorf("%v: expected ids %v, got %v", order, want, report.IDs)
			}
		}
	})

	t.Run("deterministic over a frozen catalog", func(t *testing.T) {
		entries := []manifest.Entry{
			mustEntry(t, "TOS", intPtr(0), intPtr(0), "The Cage"),
			mustEntry(t, "DS9", intPtr(1), intPtr(1), "Emissary"),
			mustEntry(t, "DS9", intPtr(3), intPtr(11), "Past Tense Part 1"),
			mustEntry(t, "DS9", intPtr(3), intPtr(12), "Past Tense Part 2"),
			mustEntry(t, manifest.MovieCode, nil, nil, "Star Trek (2009)"),
		}
		idx := fixtureIndex()
		first := Reconcile(entries, idx)
		second := Reconcile(entries, idx)
		if !reflect.DeepEqual(first, second) {
			t.Error("two runs over the same catalog should produce identical reports")
		}
	})

	t.Run("empty manifest", func(t *testing.T) {
		report := Reconcile(nil, fixtureIndex())
		if report.Total != 0 || len(report.IDs) != 0 {
			t.Errorf("expected empty report, got %+v", report)
		}
	})
}

func TestReportFilterAndSummary(t *testing.T) {
	entries := []manifest.Entry{
		mustEntry(t, "DS9", intPtr(3), intPtr(11), "Past Tense Part 1"),
		mustEntry(t, "DS9", intPtr(3), intPtr(12), "Past Tense Part 2"),
		mustEntry(t, "DS9", intPtr(4), intPtr(2), "Indiscretion"),
	}
	report := Reconcile(entries, fixtureIndex())

	if got := report.Filter(AssumedMerged); len(got) != 1 || got[0].Entry.Name != "Past Tense Part 2" {
		t.Errorf("unexpected merged results %+v", got)
	}
	if got := report.Filter(Unmatched); len(got) != 1 || got[0].Entry.Name != "Indiscretion" {
		t.Errorf("unexpected unmatched results %+v", got)
	}

	want := "Videos in list: 3\tMatched in Jellyfin: 1\tUnmatched: 1\tAssumed merged: 1"
	if got := report.Summary(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestOutcomeString(t *testing.T) {
	tc := map[Outcome]string{Matched: "matched", Unmatched: "unmatched", AssumedMerged: "assumed_merged"}
	for outcome, want := range tc {
		if got := outcome.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
