package overview

import (
	"fmt"
	"strings"

	"github.com/tayloree/dinecli/internal/filter"
)

const indent = "    "

// FormatMeal renders one meal's highlights for every location as plain text.
func FormatMeal(d Daily, meal string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Highlights for %s %s:\n", d.Date.Format("Monday, 02 Jan"), mealTitle(meal))
	b.WriteString("Format: Item (Rarity)\n")
	for _, block := range d.Meal(meal) {
		period := block.Period
		if period == "" {
			period = "N/A"
		}
		fmt.Fprintf(&b, "\n%s %s:\n", block.Location, period)
		b.WriteString(filter.FormatHighlights(block.Highlights, indent))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatHistory renders an item history as plain text.
func FormatHistory(h History) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Best Match: %s\n", h.Match)
	b.WriteString("Past:\n")
	writeAppearances(&b, h.Past)
	b.WriteString("\nFuture:\n")
	writeAppearances(&b, h.Future)
	return b.String()
}

func writeAppearances(b *strings.Builder, aps []Appearance) {
	if len(aps) == 0 {
		b.WriteString("None\n")
		return
	}
	for _, ap := range aps {
		b.WriteString(ap.String())
		b.WriteString("\n")
	}
}

func mealTitle(meal string) string {
	if meal == "" {
		return ""
	}
	return strings.ToUpper(meal[:1]) + meal[1:]
}
