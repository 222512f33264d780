package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/dinecli/internal/api"
	"github.com/tayloree/dinecli/internal/display"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/snapshot"
)

func fixtureRows() []menu.RawRecord {
	lunch := func(date, location, station, item string) menu.RawRecord {
		return menu.RawRecord{
			Date: date, Location: location, Period: "Lunch (11am-2pm)",
			PeriodStart: "11:00", PeriodEnd: "14:00", Station: station, Item: item,
		}
	}
	rows := []menu.RawRecord{}
	for _, d := range []string{"2023-08-28", "2023-08-29", "2023-08-30", "2023-08-31", "2023-09-01"} {
		rows = append(rows, lunch(d, "Chase", "International Flavors", "Fried Rice"))
	}
	rows = append(rows,
		lunch("2023-09-01", "Chase", "Rotisserie", "Lobster Roll"),
		lunch("2023-09-01", "Chase", "The Kitchen Table", "Marinara Sauce"),
		lunch("2023-09-01", "Lenoir", "Soup and Salads", "Gumbo"),
		menu.RawRecord{
			Date: "2023-09-01", Location: "Chase", Period: "Dinner (5pm-8pm)",
			PeriodStart: "17:00", PeriodEnd: "20:00", Station: "Rotisserie", Item: "Prime Rib",
		},
	)
	return rows
}

func writeFixture(t *testing.T) string {
	t.Helper()
	t.Setenv(envDataPath, "")
	t.Setenv(envFeedURL, "")
	t.Setenv(envLocations, "")

	store, err := menu.NewStore(fixtureRows())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "snapshot.csv")
	require.NoError(t, snapshot.Save(path, store))
	return path
}

func run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = runCLI(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunCLI_CompletionZsh(t *testing.T) {
	code, stdout, stderr := run("completion", "zsh")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "#compdef dinecli")
	assert.Empty(t, stderr)
}

func TestRunCLI_HelpStations(t *testing.T) {
	code, stdout, stderr := run("help", "stations")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "dinecli stations [flags]")
	assert.Empty(t, stderr)
}

func TestRunCLI_NoArgsPipedPrintsQuickStart(t *testing.T) {
	code, stdout, _ := run()

	assert.Equal(t, 0, code)
	var payload quickStartJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	assert.Equal(t, "dinecli", payload.Name)
}

func TestRunCLI_TolerantRewriteWithoutLoading(t *testing.T) {
	code, stdout, stderr := run("stations", "-location", "Chase", "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "dinecli stations [flags]")
	assert.Contains(t, stderr, "interpreted `-location` as `--location`")
}

func TestRunCLI_DoubleDashBoundary(t *testing.T) {
	code, stdout, stderr := run("stations", "--help", "--", "location", "Chase")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "dinecli stations [flags]")
	assert.False(t, strings.Contains(stderr, "interpreted `location` as `--location`"))
}

func TestRunCLI_OverviewJSON(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "--date", "2023-09-01", "--meal", "lunch")
	require.Equal(t, 0, code, stderr)

	var out display.DailyJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "2023-09-01", out.Date)
	require.Len(t, out.Blocks, 2)

	chase := out.Blocks[0]
	assert.Equal(t, "Chase", chase.Location)
	assert.Equal(t, "Lunch (11am-2pm)", chase.Period)
	require.Len(t, chase.Highlights, 1)
	assert.Equal(t, "Lobster Roll", chase.Highlights[0].Item)

	lenoir := out.Blocks[1]
	require.Len(t, lenoir.Highlights, 1)
	assert.Equal(t, "Gumbo", lenoir.Highlights[0].Item)
}

func TestRunCLI_OverviewFlagsReachRules(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "--date", "2023-09-01", "--meal", "lunch", "--threshold", "1", "--location", "Chase")
	require.Equal(t, 0, code, stderr)

	var out display.DailyJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Blocks, 1)
	items := []string{}
	for _, h := range out.Blocks[0].Highlights {
		items = append(items, h.Item)
	}
	assert.Equal(t, []string{"Lobster Roll", "Fried Rice"}, items)
}

func TestRunCLI_VerboseLogsToStderr(t *testing.T) {
	path := writeFixture(t)

	code, _, stderr := run("--data", path, "--date", "2023-09-01", "--verbose")

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "snapshot loaded")
}

func TestRunCLI_InvalidDate(t *testing.T) {
	path := writeFixture(t)

	code, _, stderr := run("--data", path, "--date", "someday")

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "INVALID_ARGS")
}

func TestRunCLI_InvalidMeal(t *testing.T) {
	code, _, _ := run("--meal", "brunch")
	assert.Equal(t, ExitInvalidArgs, code)
}

func TestRunCLI_MissingSnapshot(t *testing.T) {
	writeFixture(t)

	code, _, stderr := run("--data", filepath.Join(t.TempDir(), "absent.csv"))

	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, stderr, "no menu snapshot")
}

func TestRunCLI_Search(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "search", "lobster rol")
	require.Equal(t, 0, code, stderr)

	var out display.HistoryJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "Lobster Roll", out.Match)
	require.Len(t, out.Past, 1)
	assert.Equal(t, display.AppearanceJSON{Date: "2023-09-01", Location: "Chase"}, out.Past[0])
	assert.Empty(t, out.Future)
}

func TestRunCLI_SearchExactNotFound(t *testing.T) {
	path := writeFixture(t)

	code, _, stderr := run("--data", path, "search", "--exact", "lobster roll")

	assert.Equal(t, ExitNotFound, code)
	var payload map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stderr), &payload))
	assert.Equal(t, "NOT_FOUND", payload["error"]["code"])
}

func TestRunCLI_Stations(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "stations", "--location", "Chase")
	require.Equal(t, 0, code, stderr)

	var out map[string]int
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, map[string]int{"International Flavors": 5, "Rotisserie": 2, "The Kitchen Table": 1}, out)
}

func TestRunCLI_Compare(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "compare", "--date", "2023-09-01")
	require.Equal(t, 0, code, stderr)

	var out []compareResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 3)
	for i, r := range out {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, 1, r.Highlights)
	}
}

func menuItems(t *testing.T, stdout string) []string {
	t.Helper()
	var out []display.MenuRecordJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	items := make([]string, 0, len(out))
	for _, r := range out {
		items = append(items, r.Item)
	}
	return items
}

func TestRunCLI_MenuSortedByRarity(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "menu", "--date", "2023-09-01", "--meal", "lunch", "--location", "Chase")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, []string{"Lobster Roll", "Marinara Sauce", "Fried Rice"}, menuItems(t, stdout))
}

func TestRunCLI_MenuSortByItem(t *testing.T) {
	path := writeFixture(t)

	code, stdout, stderr := run("--data", path, "menu", "--date", "2023-09-01", "--location", "Chase", "--sort", "name")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, []string{"Fried Rice", "Lobster Roll", "Marinara Sauce", "Prime Rib"}, menuItems(t, stdout))
}

func TestRunCLI_MenuRejectsUnknownSort(t *testing.T) {
	path := writeFixture(t)

	code, _, stderr := run("--data", path, "menu", "--sort", "savings")

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "--sort")
}

func newFeed(t *testing.T, status int, rows []menu.RawRecord) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.RecordsResponse{Records: rows})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunCLI_Ingest(t *testing.T) {
	writeFixture(t)
	feed := newFeed(t, http.StatusOK, fixtureRows())
	out := filepath.Join(t.TempDir(), "fresh.csv")

	code, stdout, stderr := run("ingest", "--feed", feed.URL, "--from", "2023-08-28", "--to", "2023-09-01", "--data", out)
	require.Equal(t, 0, code, stderr)

	var result ingestResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, len(fixtureRows()), result.Records)
	assert.Equal(t, 7, result.Triples)

	store, err := snapshot.Load(out)
	require.NoError(t, err)
	assert.Equal(t, result.Records, store.Len())
}

func TestRunCLI_IngestUpstreamFailure(t *testing.T) {
	writeFixture(t)
	feed := newFeed(t, http.StatusBadGateway, nil)

	code, _, stderr := run("ingest", "--feed", feed.URL, "--from", "2023-09-01", "--data", filepath.Join(t.TempDir(), "x.csv"))

	assert.Equal(t, ExitUpstream, code)
	assert.Contains(t, stderr, "UPSTREAM_ERROR")
}

func TestRunCLI_IngestRequiresFeed(t *testing.T) {
	writeFixture(t)

	code, _, stderr := run("ingest", "--from", "2023-09-01")

	assert.Equal(t, ExitInvalidArgs, code)
	assert.Contains(t, stderr, "no feed configured")
}

func TestRunCLI_IngestRejectsReversedRange(t *testing.T) {
	writeFixture(t)

	code, _, _ := run("ingest", "--feed", "http://127.0.0.1:1", "--from", "2023-09-02", "--to", "2023-09-01")

	assert.Equal(t, ExitInvalidArgs, code)
}
