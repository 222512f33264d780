package filter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
)

func catalog() filter.View {
	return filter.NewView([]menu.Record{
		{Item: "Chicken Florentine", Location: "Chase", Date: day("2023-09-01")},
		{Item: "Beef Stroganoff", Location: "Lenoir", Date: day("2023-09-01")},
		{Item: "Chicken Florentine", Location: "Lenoir", Date: day("2023-09-03")},
		{Item: "Vegetable Lo Mein", Location: "Chase", Date: day("2023-09-02")},
	})
}

func TestResolver_FuzzyMatchesTypo(t *testing.T) {
	m, err := filter.NewResolver(catalog()).Resolve("chiken florentine")

	require.NoError(t, err)
	assert.Equal(t, "Chicken Florentine", m.Name)
	assert.Greater(t, m.Score, 0.9)
	assert.Equal(t, 2, m.View.Len())
}

func TestResolver_UnrelatedQueryStillResolves(t *testing.T) {
	m, err := filter.NewResolver(catalog()).Resolve("zzzz qqqq")

	require.NoError(t, err)
	assert.NotEmpty(t, m.Name)
	assert.False(t, m.View.Empty())
}

func TestResolver_FirstMaxWinsOnTie(t *testing.T) {
	v := filter.NewView([]menu.Record{
		{Item: "Abc"},
		{Item: "Abd"},
	})

	m, err := filter.NewResolver(v).Resolve("Ab")

	require.NoError(t, err)
	assert.Equal(t, "Abc", m.Name)
}

func TestResolver_EmptyCatalog(t *testing.T) {
	_, err := filter.NewResolver(filter.NewView(nil)).Resolve("anything")
	assert.True(t, errors.Is(err, filter.ErrNoSuchItem))
}

func TestResolver_Exact(t *testing.T) {
	r := filter.NewResolver(catalog())

	m, err := r.Exact("Beef Stroganoff")
	require.NoError(t, err)
	assert.Equal(t, 1, m.View.Len())

	_, err = r.Exact("beef stroganoff")
	assert.ErrorIs(t, err, filter.ErrNoSuchItem)
}

func TestResolver_Names(t *testing.T) {
	assert.Equal(t,
		[]string{"Chicken Florentine", "Beef Stroganoff", "Vegetable Lo Mein"},
		filter.NewResolver(catalog()).Names(),
	)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, filter.Similarity("Chicken", "chicken"))
	assert.Equal(t, 1.0, filter.Similarity("", ""))
	assert.Equal(t, 0.0, filter.Similarity("abc", "xyz"))
	assert.InDelta(t, 34.0/35.0, filter.Similarity("chiken florentine", "Chicken Florentine"), 1e-9)
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 0, filter.Distance("zip", "zip"))
	assert.Equal(t, 1, filter.Distance("ziip", "zip"))
	assert.Equal(t, 3, filter.Distance("", "abc"))
	assert.Equal(t, 3, filter.Distance("kitten", "sitting"))
}
