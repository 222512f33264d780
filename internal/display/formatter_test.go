package display_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/overview"
)

var sept1 = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

func sampleDaily() overview.Daily {
	return overview.Daily{
		Date: sept1,
		Blocks: []overview.Block{
			{
				Location: "Chase",
				Meal:     "lunch",
				Period:   "Lunch (11am-2pm)",
				Highlights: []filter.Highlight{
					{Item: "Lobster Roll", Station: "Rotisserie", Probability: 0.01},
					{Item: "Shrimp Scampi", Station: "Rotisserie", Probability: 0.1},
				},
			},
			{Location: "Lenoir", Meal: "lunch"},
			{Location: "Chase", Meal: "dinner"},
			{Location: "Lenoir", Meal: "dinner"},
		},
	}
}

func sampleHistory() overview.History {
	return overview.History{
		Query: "chiken florentine",
		Match: "Chicken Florentine",
		Score: 0.97,
		Past:  []overview.Appearance{{Date: sept1.AddDate(0, 0, -1), Location: "Chase"}},
	}
}

func TestPrintDaily_ContainsExpectedContent(t *testing.T) {
	var buf bytes.Buffer
	display.PrintDaily(&buf, sampleDaily(), []string{"lunch"})
	output := buf.String()

	assert.Contains(t, output, "Highlights for Friday, 01 Sep Lunch")
	assert.Contains(t, output, "Lunch (11am-2pm)")
	assert.Contains(t, output, "Lobster Roll")
	assert.Contains(t, output, "(1%)")
	assert.Contains(t, output, "RARE")
	assert.Contains(t, output, "Shrimp Scampi")
	assert.Contains(t, output, "No highlights!")
	assert.Contains(t, output, "N/A")
	assert.NotContains(t, output, "Dinner")
}

func TestPrintDailyJSON(t *testing.T) {
	var buf bytes.Buffer
	err := display.PrintDailyJSON(&buf, sampleDaily(), []string{"lunch", "dinner"})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\n  ")

	var out display.DailyJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "2023-09-01", out.Date)
	require.Len(t, out.Blocks, 4)
	assert.Equal(t, "Lobster Roll", out.Blocks[0].Highlights[0].Item)
	assert.Equal(t, 10, out.Blocks[0].Highlights[1].Percent)
	assert.NotNil(t, out.Blocks[1].Highlights)
	assert.Empty(t, out.Blocks[1].Highlights)
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	display.PrintHistory(&buf, sampleHistory())
	output := buf.String()

	assert.Contains(t, output, "Chicken Florentine")
	assert.Contains(t, output, "97% similar")
	assert.Contains(t, output, "Chase, Thursday, 31 Aug")
	assert.Contains(t, output, "None")
}

func TestPrintHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintHistoryJSON(&buf, sampleHistory()))

	var out display.HistoryJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "Chicken Florentine", out.Match)
	require.Len(t, out.Past, 1)
	assert.Equal(t, "2023-08-31", out.Past[0].Date)
	assert.NotNil(t, out.Future)
}

func TestPrintStations(t *testing.T) {
	var buf bytes.Buffer
	display.PrintStations(&buf, map[string]int{"Rotisserie": 10, "The Griddle": 4}, "Chase")
	output := buf.String()

	assert.Contains(t, output, "Stations at Chase")
	assert.Contains(t, output, "10 items")
	assert.Less(t, strings.Index(output, "Rotisserie"), strings.Index(output, "The Griddle"))
}

func TestPrintStationsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintStationsJSON(&buf, map[string]int{"Rotisserie": 10}))

	var out map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 10, out["Rotisserie"])
}

func TestPrintStoreContext(t *testing.T) {
	store := menu.RestoreStore([]menu.Record{{Date: sept1, Item: "A", Location: "Chase"}})

	var buf bytes.Buffer
	display.PrintStoreContext(&buf, store, "snapshot.csv")

	assert.Contains(t, buf.String(), "1 records")
	assert.Contains(t, buf.String(), "2023-09-01 to 2023-09-01")
}

func TestMealTitle(t *testing.T) {
	assert.Equal(t, "Lunch", display.MealTitle("lunch"))
	assert.Equal(t, "", display.MealTitle(""))
}

func TestPrintDaily_RareTagBoundary(t *testing.T) {
	d := overview.Daily{Date: sept1, Blocks: []overview.Block{{
		Location: "Chase", Meal: "lunch", Period: "Lunch (11am-2pm)",
		Highlights: []filter.Highlight{
			{Item: "Lobster Roll", Probability: display.VeryRare},
			{Item: "Shrimp Scampi", Probability: 0.03},
		},
	}}}

	var buf bytes.Buffer
	display.PrintDaily(&buf, d, []string{"lunch"})

	assert.Equal(t, 1, strings.Count(buf.String(), "RARE"))
	assert.Contains(t, buf.String(), "RARE Lobster Roll")
}

func menuRecords() []menu.Record {
	return []menu.Record{
		{Date: sept1, Location: "Chase", Period: "Lunch (11am-2pm)", Station: "Rotisserie", Item: "Lobster Roll", Probability: 0.01},
		{Date: sept1, Location: "Lenoir", Period: "Dinner (5pm-8pm)", Station: "The Griddle", Item: "Waffles", Probability: 0.25},
	}
}

func TestPrintMenu(t *testing.T) {
	var buf bytes.Buffer
	display.PrintMenu(&buf, "Menu for Friday, 01 Sep", menuRecords())
	output := buf.String()

	assert.Contains(t, output, "Menu for Friday, 01 Sep")
	assert.Contains(t, output, "Lobster Roll (1%)")
	assert.Contains(t, output, "The Griddle")
	assert.Contains(t, output, "Lenoir, Dinner (5pm-8pm), Fri 01 Sep")
	assert.Less(t, strings.Index(output, "Lobster Roll"), strings.Index(output, "Waffles"))
}

func TestPrintMenuJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, display.PrintMenuJSON(&buf, menuRecords()))

	var out []display.MenuRecordJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, display.MenuRecordJSON{
		Date: "2023-09-01", Location: "Lenoir", Period: "Dinner (5pm-8pm)",
		Station: "The Griddle", Item: "Waffles", Probability: 0.25, Percent: 25,
	}, out[1])
}

func TestPrintWarningAndError(t *testing.T) {
	var buf bytes.Buffer
	display.PrintWarning(&buf, "note: interpreted `-date` as `--date`")
	display.PrintError(&buf, "error[not_found]: no menu snapshot")

	assert.Contains(t, buf.String(), "note: interpreted `-date` as `--date`")
	assert.Contains(t, buf.String(), "error[not_found]: no menu snapshot")
}
