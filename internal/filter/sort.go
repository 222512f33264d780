package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tayloree/dinecli/internal/menu"
)

// SortKey names a record field to order by.
type SortKey string

// Sort keys.
const (
	SortProbability SortKey = "probability"
	SortDate        SortKey = "date"
	SortPeriodStart SortKey = "period_start"
	SortLocation    SortKey = "location"
	SortItem        SortKey = "item"
)

// SortBy returns a view stably sorted by keys, compared left to right.
// Records equal on every key keep their original order.
func (v View) SortBy(ascending bool, keys ...SortKey) View {
	sorted := v.Records()
	slices.SortStableFunc(sorted, func(a, b menu.Record) int {
		for _, key := range keys {
			c := compareBy(key, a, b)
			if c == 0 {
				continue
			}
			if !ascending {
				return -c
			}
			return c
		}
		return 0
	})
	return View{records: sorted}
}

func compareBy(key SortKey, a, b menu.Record) int {
	switch key {
	case SortProbability:
		return cmp.Compare(a.Probability, b.Probability)
	case SortDate:
		return a.Date.Compare(b.Date)
	case SortPeriodStart:
		return cmp.Compare(a.PeriodStart, b.PeriodStart)
	case SortLocation:
		return strings.Compare(a.Location, b.Location)
	case SortItem:
		return strings.Compare(a.Item, b.Item)
	default:
		return 0
	}
}

// SortKeyNames lists the user-facing spellings accepted by NormalizeSortKey.
var SortKeyNames = []string{"rarity", "date", "time", "location", "item"}

// NormalizeSortKey maps user input to a SortKey. Empty input means
// probability; unknown input reports false.
func NormalizeSortKey(raw string) (SortKey, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "rarity", "probability", "prob":
		return SortProbability, true
	case "date", "day":
		return SortDate, true
	case "time", "start", "period":
		return SortPeriodStart, true
	case "location", "hall":
		return SortLocation, true
	case "item", "name":
		return SortItem, true
	default:
		return SortProbability, false
	}
}
