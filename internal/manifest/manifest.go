// package manifest loads the hand-curated chronological viewing order.
//
// A manifest is a pipe-delimited file with a header row followed by one row per episode or movie:
//
//	parent|season|episode|name
//	TOS|1|0|The Cage
//	MOV|||Star Trek (2009)
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/wkelton/jellytrek/internal/shared"
)

// Entry is one row of the manifest after title correction.
type Entry struct {
	Name       string
	ParentCode string
	Season     *int
	Episode    *int
	IsMovie    bool
	SeriesName string
	Line       int
}

// NewEntry builds an [Entry], applying the title fixes and the pilot retag.
//
// Fails with [shared.ErrUnknownSeries] when a non-movie code is not in the series table.
func NewEntry(parent string, season, episode *int, name string) (Entry, error) {
	code := strings.ToUpper(strings.TrimSpace(parent))
	e := Entry{
		Name:       FixTitle(strings.TrimSpace(name)),
		ParentCode: code,
		Season:     season,
		Episode:    episode,
		IsMovie:    code == MovieCode,
	}

	if !e.IsMovie {
		seriesName, ok := SeriesName(code)
		if !ok {
			return Entry{}, fmt.Errorf("%w: %q (%s), known codes: %s, %s",
				shared.ErrUnknownSeries, parent, e.Name, strings.Join(SeriesCodes(), ", "), MovieCode)
		}
		e.SeriesName = seriesName
	}

	if e.Name == pilotTitle && (e.Season == nil || *e.Season == 0) {
		one, zero := 1, 0
		e.Season, e.Episode = &one, &zero
	}

	return e, nil
}

// Label renders the entry the way diagnostics print it: "Voyager S3E4 Title" or just the movie title.
func (e Entry) Label() string {
	if e.IsMovie {
		return e.Name
	}
	return fmt.Sprintf("%s S%sE%s %s", e.SeriesName, optional(e.Season), optional(e.Episode), e.Name)
}

func optional(n *int) string {
	if n == nil {
		return "?"
	}
	return strconv.Itoa(*n)
}

// LoadFile opens path and parses it with [Load].
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	entries, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Load parses a manifest, discarding the header row. Entries keep input order.
func Load(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var entries []Entry
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrMalformedRow, err)
		}

		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}

		entry, err := parseRecord(record, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRecord(record []string, line int) (Entry, error) {
	if len(record) < 4 {
		return Entry{}, fmt.Errorf("%w: line %d has %d field(s), want 4", shared.ErrMalformedRow, line, len(record))
	}

	season, err := parseNumber(record[1])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: line %d season: %v", shared.ErrMalformedRow, line, err)
	}
	episode, err := parseNumber(record[2])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: line %d episode: %v", shared.ErrMalformedRow, line, err)
	}

	entry, err := NewEntry(record[0], season, episode, record[3])
	if err != nil {
		return Entry{}, fmt.Errorf("line %d: %w", line, err)
	}
	entry.Line = line
	return entry, nil
}

// parseNumber maps an empty field to nil. Negative numbers are rejected.
func parseNumber(field string) (*int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(field)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", field)
	}
	if n < 0 {
		return nil, fmt.Errorf("%q is negative", field)
	}
	return &n, nil
}
