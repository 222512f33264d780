package display

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/overview"
)

// Styles for terminal output.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	rareTag      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")) // magenta
	pctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))            // green
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// VeryRare marks highlights at or below this probability with a RARE tag.
const VeryRare = 0.02

// HighlightJSON is the JSON output shape for a highlight.
type HighlightJSON struct {
	Item        string  `json:"item"`
	Station     string  `json:"station"`
	Probability float64 `json:"probability"`
	Percent     int     `json:"percent"`
}

// BlockJSON is the JSON output shape for one location and meal.
type BlockJSON struct {
	Location   string          `json:"location"`
	Meal       string          `json:"meal"`
	Period     string          `json:"period"`
	Highlights []HighlightJSON `json:"highlights"`
}

// DailyJSON is the JSON output shape for a daily overview.
type DailyJSON struct {
	Date   string      `json:"date"`
	Blocks []BlockJSON `json:"blocks"`
}

// AppearanceJSON is the JSON output shape for an item appearance.
type AppearanceJSON struct {
	Date     string `json:"date"`
	Location string `json:"location"`
}

// HistoryJSON is the JSON output shape for an item history.
type HistoryJSON struct {
	Query  string           `json:"query"`
	Match  string           `json:"match"`
	Score  float64          `json:"score"`
	Past   []AppearanceJSON `json:"past"`
	Future []AppearanceJSON `json:"future"`
}

// MenuRecordJSON is the JSON output shape for one menu record.
type MenuRecordJSON struct {
	Date        string  `json:"date"`
	Location    string  `json:"location"`
	Period      string  `json:"period"`
	Station     string  `json:"station"`
	Item        string  `json:"item"`
	Probability float64 `json:"probability"`
	Percent     int     `json:"percent"`
}

// PrintDaily renders the highlights of the selected meals.
func PrintDaily(w io.Writer, d overview.Daily, meals []string) {
	for _, meal := range meals {
		fmt.Fprintf(w, "\n%s — %s\n",
			headerStyle.Render(fmt.Sprintf("Highlights for %s %s", d.Date.Format("Monday, 02 Jan"), MealTitle(meal))),
			dimStyle.Render("Item (Rarity)"),
		)
		for _, block := range d.Meal(meal) {
			printBlock(w, block)
		}
	}
	fmt.Fprintln(w)
}

// PrintDailyJSON renders the selected meals as JSON.
func PrintDailyJSON(w io.Writer, d overview.Daily, meals []string) error {
	return json.NewEncoder(w).Encode(ToDailyJSON(d, meals))
}

// ToDailyJSON converts a daily overview for the selected meals.
func ToDailyJSON(d overview.Daily, meals []string) DailyJSON {
	out := DailyJSON{Date: d.Date.Format(menu.DateLayout), Blocks: []BlockJSON{}}
	for _, meal := range meals {
		for _, block := range d.Meal(meal) {
			hs := make([]HighlightJSON, 0, len(block.Highlights))
			for _, h := range block.Highlights {
				hs = append(hs, HighlightJSON{
					Item:        h.Item,
					Station:     h.Station,
					Probability: h.Probability,
					Percent:     h.Percent(),
				})
			}
			out.Blocks = append(out.Blocks, BlockJSON{
				Location:   block.Location,
				Meal:       block.Meal,
				Period:     block.Period,
				Highlights: hs,
			})
		}
	}
	return out
}

// PrintHistory renders an item history.
func PrintHistory(w io.Writer, h overview.History) {
	fmt.Fprintf(w, "\n%s %s\n", dimStyle.Render("Best match:"), titleStyle.Render(h.Match))
	if !strings.EqualFold(h.Query, h.Match) {
		fmt.Fprintf(w, "%s\n", dimStyle.Render(fmt.Sprintf("searched for %q (%.0f%% similar)", h.Query, h.Score*100)))
	}

	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Past"))
	printAppearances(w, h.Past)
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("Upcoming"))
	printAppearances(w, h.Future)
	fmt.Fprintln(w)
}

// PrintHistoryJSON renders an item history as JSON.
func PrintHistoryJSON(w io.Writer, h overview.History) error {
	return json.NewEncoder(w).Encode(HistoryJSON{
		Query:  h.Query,
		Match:  h.Match,
		Score:  h.Score,
		Past:   toAppearancesJSON(h.Past),
		Future: toAppearancesJSON(h.Future),
	})
}

// PrintStations renders station names and record counts, busiest first.
func PrintStations(w io.Writer, stations map[string]int, location string) {
	type stationCount struct {
		Name  string
		Count int
	}
	sorted := make([]stationCount, 0, len(stations))
	for k, v := range stations {
		sorted = append(sorted, stationCount{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	scope := "all locations"
	if location != "" {
		scope = location
	}
	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(fmt.Sprintf("Stations at %s:", scope)))
	for _, s := range sorted {
		fmt.Fprintf(w, "  %s: %d items\n", cyanStyle.Render(s.Name), s.Count)
	}
	fmt.Fprintln(w)
}

// PrintStationsJSON renders station counts as JSON.
func PrintStationsJSON(w io.Writer, stations map[string]int) error {
	return json.NewEncoder(w).Encode(stations)
}

// PrintMenu renders full menu records in the given order, one line each.
func PrintMenu(w io.Writer, title string, records []menu.Record) {
	fmt.Fprintf(w, "\n%s\n\n", headerStyle.Render(title))
	for _, r := range records {
		h := filter.Highlight{Item: r.Item, Probability: r.Probability}
		fmt.Fprintf(w, "  %s %s\n    %s %s\n",
			titleStyle.Render(r.Item),
			pctStyle.Render(fmt.Sprintf("(%d%%)", h.Percent())),
			cyanStyle.Render(r.Station),
			dimStyle.Render(fmt.Sprintf("%s, %s, %s", r.Location, r.Period, r.Date.Format("Mon 02 Jan"))),
		)
	}
	fmt.Fprintln(w)
}

// PrintMenuJSON renders menu records as JSON.
func PrintMenuJSON(w io.Writer, records []menu.Record) error {
	out := make([]MenuRecordJSON, 0, len(records))
	for _, r := range records {
		out = append(out, MenuRecordJSON{
			Date:        r.Date.Format(menu.DateLayout),
			Location:    r.Location,
			Period:      r.Period,
			Station:     r.Station,
			Item:        r.Item,
			Probability: r.Probability,
			Percent:     filter.Highlight{Probability: r.Probability}.Percent(),
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// PrintStoreContext prints a dim line describing the loaded dataset.
func PrintStoreContext(w io.Writer, store *menu.Store, source string) {
	first, last, ok := store.DateRange()
	span := "empty"
	if ok {
		span = fmt.Sprintf("%s to %s", first.Format(menu.DateLayout), last.Format(menu.DateLayout))
	}
	fmt.Fprintf(w, "%s\n",
		dimStyle.Render(fmt.Sprintf("Using %s — %d records, %s", source, store.Len(), span)),
	)
}

// PrintError prints a styled error message.
func PrintError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render(msg))
}

// PrintWarning prints a styled warning message.
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, warningStyle.Render(msg))
}

// MealTitle capitalizes a meal token for headings.
func MealTitle(meal string) string {
	if meal == "" {
		return ""
	}
	return strings.ToUpper(meal[:1]) + meal[1:]
}

func printBlock(w io.Writer, block overview.Block) {
	period := block.Period
	if period == "" {
		period = "N/A"
	}
	fmt.Fprintf(w, "\n  %s %s\n", titleStyle.Render(block.Location), dimStyle.Render(period))

	if len(block.Highlights) == 0 {
		fmt.Fprintf(w, "    %s\n", dimStyle.Render(filter.NoHighlights))
		return
	}
	for _, h := range block.Highlights {
		printHighlight(w, h)
	}
}

func printHighlight(w io.Writer, h filter.Highlight) {
	tag := ""
	if h.Probability <= VeryRare {
		tag = rareTag.Render("RARE") + " "
	}
	fmt.Fprintf(w, "    %s%s %s\n", tag, wordWrap(h.Item, 60, "      "), pctStyle.Render(fmt.Sprintf("(%d%%)", h.Percent())))
}

func printAppearances(w io.Writer, aps []overview.Appearance) {
	if len(aps) == 0 {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("None"))
		return
	}
	for _, ap := range aps {
		fmt.Fprintf(w, "  %s\n", ap.String())
	}
}

func toAppearancesJSON(aps []overview.Appearance) []AppearanceJSON {
	out := make([]AppearanceJSON, 0, len(aps))
	for _, ap := range aps {
		out = append(out, AppearanceJSON{Date: ap.Date.Format(menu.DateLayout), Location: ap.Location})
	}
	return out
}

func wordWrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n"+indent)
}
