package matching

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Stage identifies which title comparison rule accepted a pair of titles.
type Stage int

const (
	StageNone        Stage = iota
	StageAlias             // literal alias pair, bypasses the cascade
	StageExact             // case-folded equality or prefix containment
	StagePartNumeral       // commas dropped, "part ii"/"part i" numbered
	StageStripped          // "the", parentheses, colons and double dashes dropped
	StagePunctuation       // hyphens spaced, "?", "!" and ellipses dropped
	StageSuffix            // catalog title ends with the manifest title minus its part marker
)

func (s Stage) String() string {
	switch s {
	case StageAlias:
		return "alias"
	case StageExact:
		return "exact"
	case StagePartNumeral:
		return "part-numeral"
	case StageStripped:
		return "stripped"
	case StagePunctuation:
		return "punctuation"
	case StageSuffix:
		return "suffix"
	default:
		return "none"
	}
}

// literalAliases are title pairs treated as equal before any normalization. Compared case-insensitively.
var literalAliases = [][2]string{
	{"vox", "võx"},           // diacritic
	{"prophesy", "prophecy"}, // spelling
}

var (
	partNumerals = strings.NewReplacer(",", "", "part ii", "part 2", "part i", "part 1")
	noiseChars   = strings.NewReplacer("(", "", ")", "", ":", "", "--", "")
	punctuation  = strings.NewReplacer("?", "", "!", "", "...", "", "-", " ")
	articleWord  = regexp.MustCompile(`\bthe\b`)
	partMarkers  = []string{" part 1", " part 2"}
)

// cascadeSteps are applied cumulatively; each output is the input of the next.
var cascadeSteps = []func(string) string{
	fold,
	settle(numberParts),
	settle(stripNoise),
	settle(stripPunctuation),
}

// Cascade returns the progressively normalized forms of title, one per comparison stage from [StageExact] to [StagePunctuation].
func Cascade(title string) []string {
	forms := make([]string, len(cascadeSteps))
	for i, step := range cascadeSteps {
		title = step(title)
		forms[i] = title
	}
	return forms
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func numberParts(s string) string {
	return partNumerals.Replace(s)
}

func stripNoise(s string) string {
	s = articleWord.ReplaceAllString(s, "")
	s = noiseChars.Replace(s)
	return collapseSpaces(s)
}

func stripPunctuation(s string) string {
	return collapseSpaces(punctuation.Replace(s))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// settle repeats f until its output stops changing, so removals that expose new matches are also removed.
func settle(f func(string) string) func(string) string {
	return func(s string) string {
		for range 8 {
			next := f(s)
			if next == s {
				return s
			}
			s = next
		}
		return s
	}
}

// stripPartMarker drops one trailing " part 1" or " part 2".
func stripPartMarker(s string) string {
	for _, marker := range partMarkers {
		if strings.HasSuffix(s, marker) {
			return strings.TrimSpace(strings.TrimSuffix(s, marker))
		}
	}
	return s
}

func isAlias(a, b string) bool {
	a, b = fold(strings.TrimSpace(a)), fold(strings.TrimSpace(b))
	for _, pair := range literalAliases {
		if (a == pair[0] || a == pair[1]) && (b == pair[0] || b == pair[1]) {
			return true
		}
	}
	return false
}

// CompareTitles reports the first stage at which a manifest title and a catalog title are considered equal.
func CompareTitles(manifestTitle, catalogTitle string) (Stage, bool) {
	return compareForms(manifestTitle, Cascade(manifestTitle), catalogTitle, Cascade(catalogTitle))
}

// compareForms is [CompareTitles] over precomputed cascades.
func compareForms(manifestTitle string, m []string, catalogTitle string, c []string) (Stage, bool) {
	if isAlias(manifestTitle, catalogTitle) {
		return StageAlias, true
	}

	if m[0] == c[0] {
		return StageExact, true
	}
	if m[0] != "" && c[0] != "" && (strings.HasPrefix(m[0], c[0]) || strings.HasPrefix(c[0], m[0])) {
		return StageExact, true
	}

	for i := 1; i < len(m); i++ {
		if m[i] == c[i] {
			return StageExact + Stage(i), true
		}
	}

	last := len(m) - 1
	if stem := stripPartMarker(m[last]); stem != "" && strings.HasSuffix(c[last], stem) {
		return StageSuffix, true
	}

	return StageNone, false
}
