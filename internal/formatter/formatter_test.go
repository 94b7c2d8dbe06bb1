package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/shared"
	th "github.com/wkelton/jellytrek/internal/testing"
)

func intPtr(n int) *int { return &n }

func mustEntry(t *testing.T, line int, parent string, season, episode *int, name string) manifest.Entry {
	t.Helper()
	e, err := manifest.NewEntry(parent, season, episode, name)
	if err != nil {
		t.Fatalf("NewEntry(%q, %q) error = %v", parent, name, err)
	}
	e.Line = line
	return e
}

func sampleReport(t *testing.T) *matching.Report {
	t.Helper()

	cage := mustEntry(t, 2, "TOS", intPtr(1), intPtr(0), "The Cage")
	past1 := mustEntry(t, 3, "DS9", intPtr(3), intPtr(11), "Past Tense, Part I")
	past2 := mustEntry(t, 4, "DS9", intPtr(3), intPtr(12), "Past Tense, Part II")
	brain := mustEntry(t, 5, "TOS", intPtr(3), intPtr(1), "Spock's Brain")
	movie := mustEntry(t, 6, "MOV", nil, nil, "Star Trek (2009)")

	results := []matching.Result{
		{Entry: cage, Outcome: matching.Matched, ID: "ep-cage", Title: "The Cage", Stage: matching.StageExact},
		{Entry: past1, Outcome: matching.Matched, ID: "ep-past", Title: "Past Tense", Stage: matching.StageSuffix},
		{Entry: past2, Outcome: matching.AssumedMerged, ID: "ep-past", Title: "Past Tense", MergedWith: past1.Name},
		{Entry: brain, Outcome: matching.Unmatched, SeriesID: "tos", SeasonID: "tos-3", FailedStep: matching.StepEpisode},
		{Entry: movie, Outcome: matching.Matched, ID: "m-2009", Title: "Star Trek", Stage: matching.StagePunctuation},
	}

	return &matching.Report{
		Total:     5,
		Matched:   3,
		Unmatched: 1,
		Merged:    1,
		IDs:       []string{"ep-cage", "ep-past", "m-2009"},
		Names:     []string{"The Cage", "Past Tense", "Star Trek"},
		Results:   results,
		Diagnostics: []matching.Diagnostic{
			{Entry: past2, Outcome: matching.AssumedMerged, Message: "Assuming Past Tense, Part II is combined in the file that has Past Tense, Part I (Past Tense)"},
			{Entry: brain, Outcome: matching.Unmatched, Step: matching.StepEpisode, Message: "The Original Series S3E1 Spock's Brain: no episode match (series_id=tos season_id=tos-3)"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatText},
		{in: "txt", want: FormatText},
		{in: "CSV", want: FormatCSV},
		{in: "md", want: FormatMarkdown},
		{in: " markdown ", want: FormatMarkdown},
		{in: "json", want: FormatJSON},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Fatalf("ParseFormat(%q) error = %v, want %v", tt.in, err, shared.ErrInvalidArgument)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	report := sampleReport(t)

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(report)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"Videos in list: 5\tMatched in Jellyfin: 3\tUnmatched: 1\tAssumed merged: 1",
			"Diagnostics:",
			"  Assuming Past Tense, Part II is combined",
			"no episode match (series_id=tos season_id=tos-3)",
			"000 The Cage\n001 Past Tense\n002 Star Trek\n",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText without diagnostics", func(t *testing.T) {
		data, err := ExportToText(&matching.Report{})
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if strings.Contains(string(data), "Diagnostics:") || strings.Contains(string(data), "Playlist order:") {
			t.Errorf("empty report should only print the summary, got:\n%s", data)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(report)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("CSV output does not parse: %v", err)
		}
		if len(records) != 6 {
			t.Fatalf("expected header plus 5 rows, got %d", len(records))
		}
		if got := strings.Join(records[0], ","); got != "Line,Parent,Season,Episode,Name,Outcome,ID,Title,Stage,FailedStep,MergedWith" {
			t.Errorf("CSV headers = %q", got)
		}

		past1 := records[2]
		if past1[4] != "Past Tense, Part I" || past1[8] != "suffix" {
			t.Errorf("comma in name should survive quoting, got %v", past1)
		}
		merged := records[3]
		if merged[5] != "assumed_merged" || merged[8] != "" || merged[10] != "Past Tense, Part I" {
			t.Errorf("unexpected merged row %v", merged)
		}
		unmatched := records[4]
		if unmatched[5] != "unmatched" || unmatched[6] != "" || unmatched[9] != "episode" {
			t.Errorf("unexpected unmatched row %v", unmatched)
		}
		movie := records[5]
		if movie[1] != "MOV" || movie[2] != "" || movie[3] != "" || movie[6] != "m-2009" {
			t.Errorf("unexpected movie row %v", movie)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(report)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Reconciliation Report",
			"| 5 | 3 | 1 | 1 |",
			"## Unmatched",
			"- The Original Series S3E1 Spock's Brain (line 5, failed at episode)",
			"## Assumed Merged",
			"- Past Tense, Part II with Past Tense, Part I",
			"1. The Cage `ep-cage`",
			"3. Star Trek `m-2009`",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown output missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(report)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded jsonReport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON output does not parse: %v", err)
		}
		if decoded.Total != 5 || decoded.Matched != 3 || decoded.Unmatched != 1 || decoded.Merged != 1 {
			t.Errorf("unexpected counts %+v", decoded)
		}
		if strings.Join(decoded.IDs, " ") != "ep-cage ep-past m-2009" {
			t.Errorf("unexpected ids %v", decoded.IDs)
		}
		if len(decoded.Entries) != 5 || decoded.Entries[2].MergedWith != "Past Tense, Part I" {
			t.Errorf("unexpected entries %+v", decoded.Entries)
		}
		if decoded.Entries[3].Stage != "" || decoded.Entries[3].FailedStep != "episode" {
			t.Errorf("unmatched entry should carry only its failed step, got %+v", decoded.Entries[3])
		}
		if len(decoded.Diagnostics) != 2 {
			t.Errorf("expected 2 diagnostics, got %d", len(decoded.Diagnostics))
		}
	})

	t.Run("ExportToJSON empty report", func(t *testing.T) {
		data, err := ExportToJSON(&matching.Report{})
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"ids": []`) || !strings.Contains(string(data), `"entries": []`) {
			t.Errorf("empty report should encode empty arrays, got %s", data)
		}
	})

	t.Run("Export dispatch", func(t *testing.T) {
		for _, format := range Formats {
			if _, err := Export(report, format); err != nil {
				t.Errorf("Export(%s) error = %v", format, err)
			}
		}
		if _, err := Export(report, Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("Export(xml) error = %v, want %v", err, shared.ErrInvalidArgument)
		}
	})
}

func TestWriters(t *testing.T) {
	report := sampleReport(t)

	t.Run("WriteTo", func(t *testing.T) {
		var sb strings.Builder
		if err := WriteTo(&sb, report, FormatText); err != nil {
			t.Fatalf("WriteTo failed: %v", err)
		}
		if !strings.HasPrefix(sb.String(), "Videos in list: 5") {
			t.Errorf("unexpected output %q", sb.String())
		}
	})

	t.Run("WriteTo failing writer", func(t *testing.T) {
		if err := WriteTo(&th.FWriter{}, report, FormatCSV); err == nil {
			t.Error("expected error from failing writer")
		}

		var sb strings.Builder
		lw := th.NewLimitedWriter(0, 0, &sb)
		if err := WriteTo(&lw, report, FormatJSON); err == nil {
			t.Error("expected error once the write limit is reached")
		}
	})

	t.Run("WriteReport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			tmpDir := t.TempDir()
			th.MustChdir(t, tmpDir)

			path, err := WriteReport(report, FormatMarkdown, "")
			if err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}
			if path != "jellytrek_report.md" {
				t.Errorf("expected default path jellytrek_report.md, got %s", path)
			}
			th.AssertFileExists(t, filepath.Join(tmpDir, path))
			if content := th.MustReadFile(t, path); !strings.Contains(content, "# Reconciliation Report") {
				t.Errorf("unexpected file content:\n%s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.csv")

			got, err := WriteReport(report, FormatCSV, path)
			if err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}
			if got != path {
				t.Errorf("expected %s, got %s", path, got)
			}
			th.AssertFileExists(t, path)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing", "report.txt")
			if _, err := WriteReport(report, FormatText, path); err == nil {
				t.Error("expected error writing into a missing directory")
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("no file should be created, stat error = %v", err)
			}
		})
	})
}
