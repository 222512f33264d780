package menu_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/dinecli/internal/menu"
)

func raw(date, location, period, station, item string) menu.RawRecord {
	return menu.RawRecord{
		Date:        date,
		Location:    location,
		Period:      period,
		PeriodStart: "11:00:00",
		PeriodEnd:   "14:00:00",
		Station:     station,
		Item:        item,
	}
}

func sampleRaw() []menu.RawRecord {
	return []menu.RawRecord{
		raw("2023-09-01", "Chase", "Lunch (11am-2pm)", "The Griddle", "Pancakes"),
		raw("2023-09-01", "Chase", "Lunch (11am-2pm)", "Rotisserie", "Pancakes"),
		raw("2023-09-01", "Chase", "Lunch (11am-2pm)", "Rotisserie", "Roast Chicken"),
		raw("2023-09-01", "Lenoir", "Lunch (11am-2pm)", "The Griddle", "Pancakes"),
		raw("2023-09-02", "Chase", "Lunch (11am-2pm)", "The Kitchen Table", "Meatloaf"),
	}
}

func TestNewStore_DeduplicatesStationsWithinTriple(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	assert.Equal(t, 3, store.Triples())

	pancakes, ok := store.Stats("Pancakes")
	require.True(t, ok)
	assert.Equal(t, 2, pancakes.Occurrences)
	assert.InDelta(t, 2.0/3.0, pancakes.Probability, 1e-9)

	meatloaf, ok := store.Stats("Meatloaf")
	require.True(t, ok)
	assert.Equal(t, 1, meatloaf.Occurrences)
}

func TestNewStore_ProbabilityInvariants(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	for _, rec := range store.Records() {
		assert.GreaterOrEqual(t, rec.Probability, 0.0)
		assert.LessOrEqual(t, rec.Probability, 1.0)
		got := rec.Probability * float64(store.Triples())
		assert.Equal(t, float64(rec.Occurrences), math.Round(got), "item %s", rec.Item)
	}
}

func TestNewStore_JoinsStatsOntoRecords(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	recs := store.Records()
	assert.Equal(t, 2, recs[0].Occurrences)
	assert.Equal(t, "2023-09-01", recs[0].Date.Format(menu.DateLayout))
	assert.Equal(t, menu.Clock(11, 0, 0), recs[0].PeriodStart)
	assert.Equal(t, menu.Clock(14, 0, 0), recs[0].PeriodEnd)
}

func TestNewStore_MalformedDateAborts(t *testing.T) {
	rows := sampleRaw()
	rows[2].Date = "09/01/2023"

	store, err := menu.NewStore(rows)

	assert.Nil(t, store)
	var mErr *menu.MalformedRecordError
	require.True(t, errors.As(err, &mErr))
	assert.Equal(t, 3, mErr.Row)
	assert.Equal(t, "date", mErr.Field)
}

func TestNewStore_MalformedTimeAborts(t *testing.T) {
	rows := sampleRaw()
	rows[0].PeriodEnd = "lunchtime"

	_, err := menu.NewStore(rows)

	var mErr *menu.MalformedRecordError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "period_end", mErr.Field)
}

func TestNewStore_RejectsInvertedPeriod(t *testing.T) {
	rows := []menu.RawRecord{{
		Date: "2023-09-01", Location: "Chase", Period: "Odd",
		PeriodStart: "14:00", PeriodEnd: "11:00", Station: "S", Item: "X",
	}}

	_, err := menu.NewStore(rows)
	assert.Error(t, err)
}

func TestNewStore_AllowsMidnightEnd(t *testing.T) {
	rows := []menu.RawRecord{{
		Date: "2023-09-01", Location: "Chase", Period: "Late Night (9pm-12am)",
		PeriodStart: "9:00PM", PeriodEnd: "12:00AM", Station: "S", Item: "X",
	}}

	store, err := menu.NewStore(rows)
	require.NoError(t, err)
	assert.True(t, store.Records()[0].OpenUntilClose())
}

func TestNewStore_DerivesTimesFromPeriodLabel(t *testing.T) {
	rows := []menu.RawRecord{{
		Date: "2023-09-01", Location: "Chase", Period: "Dinner (4:30pm-8pm)",
		Station: "Rotisserie", Item: "Turkey",
	}}

	store, err := menu.NewStore(rows)
	require.NoError(t, err)

	rec := store.Records()[0]
	assert.Equal(t, menu.Clock(16, 30, 0), rec.PeriodStart)
	assert.Equal(t, menu.Clock(20, 0, 0), rec.PeriodEnd)
}

func TestNewStore_Empty(t *testing.T) {
	store, err := menu.NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.Triples())
	_, _, ok := store.DateRange()
	assert.False(t, ok)
}

func TestStore_ItemsAndLocationsKeepFirstAppearanceOrder(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	assert.Equal(t, []string{"Pancakes", "Roast Chicken", "Meatloaf"}, store.Items())
	assert.Equal(t, []string{"Chase", "Lenoir"}, store.Locations())
}

func TestStore_RecordsIsACopy(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	recs := store.Records()
	recs[0].Item = "mutated"

	assert.Equal(t, "Pancakes", store.Records()[0].Item)
}

func TestRestoreStore_TrustsPersistedStats(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	recs := store.Records()
	for i := range recs {
		recs[i].Probability = 0.42
	}
	restored := menu.RestoreStore(recs)

	st, ok := restored.Stats("Meatloaf")
	require.True(t, ok)
	assert.Equal(t, 0.42, st.Probability)
	assert.Equal(t, store.Triples(), restored.Triples())
}

func TestStore_DateRange(t *testing.T) {
	store, err := menu.NewStore(sampleRaw())
	require.NoError(t, err)

	first, last, ok := store.DateRange()
	require.True(t, ok)
	assert.Equal(t, "2023-09-01", first.Format(menu.DateLayout))
	assert.Equal(t, "2023-09-02", last.Format(menu.DateLayout))
}
