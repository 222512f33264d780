package filter

import (
	"fmt"
	"math"
	"strings"

	"github.com/tayloree/dinecli/internal/menu"
)

// NoHighlights is rendered in place of an empty highlight list.
const NoHighlights = "No highlights!"

// Exclusion drops items whose name contains Term unless the name also
// contains one of the Reinclude words ("Chicken in Sauce" stays).
type Exclusion struct {
	Term      string
	Reinclude []string
}

// Rules configures highlight selection.
type Rules struct {
	// Threshold keeps only items with probability strictly below it.
	Threshold float64
	// Stations is the allow-list of interesting stations. Empty allows all.
	Stations   []string
	Exclusions []Exclusion
	// Limit caps the number of highlights. Zero means no cap.
	Limit int
}

// DefaultRules returns the selection rules used for the daily overview.
func DefaultRules() Rules {
	return Rules{
		Threshold: 0.2,
		Stations: []string{
			"The Griddle",
			"The Kitchen Table",
			"Rotisserie",
			"International Flavors",
			"Homemade Soups & Sushi",
			"Soup and Salads",
			"Simply Prepared Grill",
			"Specialty Bakery",
		},
		Exclusions: []Exclusion{
			{Term: "Sauce", Reinclude: []string{"in", "with"}},
			{Term: "Dip", Reinclude: []string{"in", "with"}},
		},
		Limit: 8,
	}
}

// Excluded reports whether an item name is dropped by the exclusion rules.
// Terms match case-insensitively anywhere in the name. Reinclusion words
// must appear as whole words rather than as substrings, so the "in" inside
// "Cinnamon Dip" does not reinclude it while "Chips with Dip" is kept.
func (r Rules) Excluded(item string) bool {
	lower := strings.ToLower(item)
	words := strings.FieldsFunc(lower, func(c rune) bool {
		return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '\'')
	})
	for _, ex := range r.Exclusions {
		if !strings.Contains(lower, strings.ToLower(ex.Term)) {
			continue
		}
		if !containsWord(words, ex.Reinclude) {
			return true
		}
	}
	return false
}

func containsWord(words, wanted []string) bool {
	for _, w := range words {
		for _, x := range wanted {
			if strings.EqualFold(w, x) {
				return true
			}
		}
	}
	return false
}

// Apply narrows a view to interesting, sufficiently rare, non-excluded
// records sorted rarest first. It does not truncate.
func (r Rules) Apply(v View) View {
	stations := newStationMatcher(r.Stations)
	out := v
	if r.Threshold > 0 {
		out = out.RarerThan(r.Threshold)
	}
	if !stations.empty() {
		out = out.WhereColumn(ColumnStation, stations.matches)
	}
	if len(r.Exclusions) > 0 {
		out = out.WhereColumn(ColumnItem, func(item string) bool { return !r.Excluded(item) })
	}
	return out.SortBy(true, SortProbability)
}

// Highlight is one selected item with its rarity.
type Highlight struct {
	Item        string
	Station     string
	Period      string
	Probability float64
}

// Percent returns the probability as a whole percentage.
func (h Highlight) Percent() int {
	return int(math.Round(h.Probability * 100))
}

// String renders "Item (N%)".
func (h Highlight) String() string {
	return fmt.Sprintf("%s (%d%%)", h.Item, h.Percent())
}

// Highlights selects at most rules.Limit records from a view that has
// already been narrowed to one date, location and period, rarest first.
// Ties keep the view's order.
func Highlights(v View, rules Rules) []Highlight {
	return Collect(rules.Apply(v).Limit(rules.Limit))
}

// Collect converts every record of a view into a Highlight, in view order.
func Collect(v View) []Highlight {
	out := make([]Highlight, 0, v.Len())
	for _, rec := range v.records {
		out = append(out, toHighlight(rec))
	}
	return out
}

func toHighlight(rec menu.Record) Highlight {
	return Highlight{
		Item:        rec.Item,
		Station:     rec.Station,
		Period:      rec.Period,
		Probability: rec.Probability,
	}
}

// FormatHighlights renders one highlight per line with the given indent, or
// the NoHighlights placeholder when the list is empty.
func FormatHighlights(highlights []Highlight, indent string) string {
	if len(highlights) == 0 {
		return indent + NoHighlights
	}
	lines := make([]string, 0, len(highlights))
	for _, h := range highlights {
		lines = append(lines, indent+h.String())
	}
	return strings.Join(lines, "\n")
}
