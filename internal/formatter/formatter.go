// package formatter exports reconciliation reports to various formats (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported format in flag help order.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat accepts a format name or its file extension ("txt", "md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension is the file extension used by [WriteReport] when no path is given.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// Export renders report in the given format.
func Export(report *matching.Report, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return ExportToText(report)
	case FormatCSV:
		return ExportToCSV(report)
	case FormatMarkdown:
		return ExportToMarkdown(report)
	case FormatJSON:
		return ExportToJSON(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToText renders the summary, the diagnostics and the resulting playlist order.
func ExportToText(report *matching.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(report.Summary() + "\n")

	if len(report.Diagnostics) > 0 {
		buf.WriteString("\nDiagnostics:\n")
		for _, d := range report.Diagnostics {
			fmt.Fprintf(&buf, "  %s\n", d.Message)
		}
	}

	if len(report.Names) > 0 {
		buf.WriteString("\nPlaylist order:\n")
		for i, name := range report.Names {
			fmt.Fprintf(&buf, "%03d %s\n", i, name)
		}
	}

	return buf.Bytes(), nil
}

// ExportToCSV writes one row per manifest entry with columns:
// Line, Parent, Season, Episode, Name, Outcome, ID, Title, Stage, FailedStep, MergedWith
func ExportToCSV(report *matching.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Line", "Parent", "Season", "Episode", "Name", "Outcome", "ID", "Title", "Stage", "FailedStep", "MergedWith"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range report.Results {
		record := []string{
			strconv.Itoa(res.Entry.Line),
			res.Entry.ParentCode,
			optional(res.Entry.Season),
			optional(res.Entry.Episode),
			res.Entry.Name,
			res.Outcome.String(),
			res.ID,
			res.Title,
			stageName(res),
			res.FailedStep.String(),
			res.MergedWith,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a count table, the entries needing attention and the playlist order.
func ExportToMarkdown(report *matching.Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Reconciliation Report\n\n")
	buf.WriteString("| Videos in list | Matched | Unmatched | Assumed merged |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	fmt.Fprintf(&buf, "| %d | %d | %d | %d |\n\n", report.Total, report.Matched, report.Unmatched, report.Merged)

	if unmatched := report.Filter(matching.Unmatched); len(unmatched) > 0 {
		buf.WriteString("## Unmatched\n\n")
		for _, res := range unmatched {
			fmt.Fprintf(&buf, "- %s (line %d, failed at %s)\n", markdownEscape(res.Entry.Label()), res.Entry.Line, failedAt(res))
		}
		buf.WriteString("\n")
	}

	if merged := report.Filter(matching.AssumedMerged); len(merged) > 0 {
		buf.WriteString("## Assumed Merged\n\n")
		for _, res := range merged {
			fmt.Fprintf(&buf, "- %s with %s\n", markdownEscape(res.Entry.Name), markdownEscape(res.MergedWith))
		}
		buf.WriteString("\n")
	}

	buf.WriteString("## Playlist Order\n\n")
	for i, name := range report.Names {
		fmt.Fprintf(&buf, "%d. %s `%s`\n", i+1, markdownEscape(name), report.IDs[i])
	}

	return buf.Bytes(), nil
}

type jsonEntry struct {
	Line       int    `json:"line"`
	Label      string `json:"label"`
	Outcome    string `json:"outcome"`
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Stage      string `json:"stage,omitempty"`
	FailedStep string `json:"failed_step,omitempty"`
	MergedWith string `json:"merged_with,omitempty"`
}

type jsonReport struct {
	Total       int         `json:"total"`
	Matched     int         `json:"matched"`
	Unmatched   int         `json:"unmatched"`
	Merged      int         `json:"assumed_merged"`
	IDs         []string    `json:"ids"`
	Entries     []jsonEntry `json:"entries"`
	Diagnostics []string    `json:"diagnostics"`
}

// ExportToJSON renders the counts, the ordered ids, every entry and the diagnostic messages.
func ExportToJSON(report *matching.Report) ([]byte, error) {
	out := jsonReport{
		Total:       report.Total,
		Matched:     report.Matched,
		Unmatched:   report.Unmatched,
		Merged:      report.Merged,
		IDs:         append([]string{}, report.IDs...),
		Entries:     make([]jsonEntry, 0, len(report.Results)),
		Diagnostics: make([]string, 0, len(report.Diagnostics)),
	}

	for _, res := range report.Results {
		out.Entries = append(out.Entries, jsonEntry{
			Line:       res.Entry.Line,
			Label:      res.Entry.Label(),
			Outcome:    res.Outcome.String(),
			ID:         res.ID,
			Title:      res.Title,
			Stage:      stageName(res),
			FailedStep: res.FailedStep.String(),
			MergedWith: res.MergedWith,
		})
	}
	for _, d := range report.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, d.Message)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteTo renders report and writes it to w.
func WriteTo(w io.Writer, report *matching.Report, format Format) error {
	data, err := Export(report, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// WriteReport exports report to path and returns the path written.
//
// Defaults to jellytrek_report.{ext} as the filename.
func WriteReport(report *matching.Report, format Format, path string) (string, error) {
	if path == "" {
		path = "jellytrek_report." + format.Extension()
	}

	data, err := Export(report, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}

func stageName(res matching.Result) string {
	if res.Outcome != matching.Matched {
		return ""
	}
	return res.Stage.String()
}

func failedAt(res matching.Result) string {
	if res.FailedStep == matching.StepNone {
		return "unknown"
	}
	return res.FailedStep.String()
}

func optional(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func markdownEscape(s string) string {
	return markdownEscaper.Replace(s)
}
