package manifest

import (
	"maps"
	"slices"
	"strings"
)

// MovieCode is the parent code of feature films.
const MovieCode = "MOV"

// seriesNames maps a manifest parent code to the canonical series name the catalog titles end with.
var seriesNames = map[string]string{
	"TOS": "The Original Series",
	"TAS": "The Animated Series",
	"TNG": "The Next Generation",
	"DS9": "Deep Space Nine",
	"VOY": "Voyager",
	"ENT": "Enterprise",
	"SHO": "Short Treks",
	"PIC": "Picard",
	"DIS": "Discovery",
	"LDS": "Lower Decks",
	"PRO": "Prodigy",
	"SNW": "Strange New Worlds",
}

// SeriesName returns the canonical series name for a parent code, case-insensitively.
func SeriesName(code string) (string, bool) {
	name, ok := seriesNames[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// SeriesCodes lists the known parent codes in sorted order, excluding [MovieCode].
func SeriesCodes() []string {
	return slices.Sorted(maps.Keys(seriesNames))
}

// characterFixes are applied, in order, to every title before the exact fixes.
var characterFixes = strings.NewReplacer(
	"’", "'",
	"…", "...",
)

// titleFixes rewrites manifest titles to the catalog's spelling. From must match the whole title.
var titleFixes = []struct{ From, To string }{
	{"Prophesy", "Prophecy"},
	{"Inter Arma Silent Leges", "Inter Arma Enim Silent Leges"},
	{"Vis a Vis", "Vis À Vis"},
	{"Menage a Troi", "Ménage à Troi"},
	{"When The Bow Breaks", "When the Bough Breaks"},
	{"Is There No Truth in Beauty?", "Is There in Truth No Beauty?"},
	{"Momento Mori", "Memento Mori"},
	{"The Butchers Knife Cares Not for the Lambs Cry", "The Butcher's Knife Cares Not for the Lamb's Cry"},
	{"Battle of the Binary Stars", "Battle at the Binary Stars"},
	{"E-Squared", "E²"},
	{"Vox", "Võx"},
	{"I, Excretes", "I, Excretus"},
}

// FixTitle applies the character replacements and then the exact-title table.
func FixTitle(title string) string {
	title = characterFixes.Replace(title)
	for _, fix := range titleFixes {
		if title == fix.From {
			return fix.To
		}
	}
	return title
}

// pilotTitle is filed by the catalog as season 1, episode 0.
const pilotTitle = "The Cage"
