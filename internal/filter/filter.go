// Package filter provides an immutable, chainable view over menu records,
// together with the rarity ranking and item-name resolution built on it.
package filter

import (
	"time"

	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/when"
)

// Column names a string-valued record field for WhereColumn.
type Column string

// Filterable columns.
const (
	ColumnDate     Column = "date"
	ColumnLocation Column = "location"
	ColumnPeriod   Column = "period"
	ColumnStation  Column = "station"
	ColumnItem     Column = "item"
)

// Value returns the column's value for r, or "" for an unknown column.
func (c Column) Value(r menu.Record) string {
	switch c {
	case ColumnDate:
		return r.Date.Format(menu.DateLayout)
	case ColumnLocation:
		return r.Location
	case ColumnPeriod:
		return r.Period
	case ColumnStation:
		return r.Station
	case ColumnItem:
		return r.Item
	default:
		return ""
	}
}

// View is an immutable subset of records. Every method returns a new View and
// leaves the receiver untouched. Filters keep relative record order, so any
// set of filters yields the same records regardless of application order.
type View struct {
	records []menu.Record
}

// NewView wraps a copy of records.
func NewView(records []menu.Record) View {
	return View{records: append([]menu.Record(nil), records...)}
}

// All returns the full view of a store.
func All(store *menu.Store) View {
	return View{records: store.Records()}
}

// Len returns the number of records in the view.
func (v View) Len() int { return len(v.records) }

// Empty reports whether the view has no records.
func (v View) Empty() bool { return len(v.records) == 0 }

// Records returns a copy of the view's records.
func (v View) Records() []menu.Record {
	return append([]menu.Record(nil), v.records...)
}

// First returns the first record, if any.
func (v View) First() (menu.Record, bool) {
	if len(v.records) == 0 {
		return menu.Record{}, false
	}
	return v.records[0], true
}

// Items returns the distinct item names in view order.
func (v View) Items() []string {
	seen := make(map[string]struct{}, len(v.records))
	var out []string
	for _, r := range v.records {
		if _, ok := seen[r.Item]; ok {
			continue
		}
		seen[r.Item] = struct{}{}
		out = append(out, r.Item)
	}
	return out
}

// Where keeps records for which fn returns true.
func (v View) Where(fn func(menu.Record) bool) View {
	return View{records: where(v.records, fn)}
}

// WhereColumn keeps records whose column value satisfies pred.
func (v View) WhereColumn(col Column, pred func(string) bool) View {
	return v.Where(func(r menu.Record) bool { return pred(col.Value(r)) })
}

// OnDate keeps records served on the calendar date of d.
func (v View) OnDate(d time.Time) View {
	day := menu.DateOf(d)
	return v.Where(func(r menu.Record) bool { return r.Date.Equal(day) })
}

// ForDate resolves a date token ("today", "tomorrow", YYYY-MM-DD) against now
// and keeps records on that date.
func (v View) ForDate(token string, now time.Time) (View, error) {
	d, err := when.Date(token, now)
	if err != nil {
		return View{}, err
	}
	return v.OnDate(d), nil
}

// AtLocation keeps records at exactly the named location.
func (v View) AtLocation(name string) View {
	return v.Where(func(r menu.Record) bool { return r.Location == name })
}

// AtTime keeps records whose serving period includes t. A period ending at
// midnight is open until close and matches every t at or after its start.
func (v View) AtTime(t menu.TimeOfDay) View {
	return v.Where(func(r menu.Record) bool { return r.Covers(t) })
}

// ForMeal resolves a time token ("lunch", "dinner", "now", a clock string)
// against now and keeps records served at that time.
func (v View) ForMeal(token string, now time.Time) (View, error) {
	t, err := when.Time(token, now)
	if err != nil {
		return View{}, err
	}
	return v.AtTime(t), nil
}

// RarerThan keeps records whose item probability is below max.
func (v View) RarerThan(max float64) View {
	return v.Where(func(r menu.Record) bool { return r.Probability < max })
}

// Before keeps records dated strictly before d.
func (v View) Before(d time.Time) View {
	day := menu.DateOf(d)
	return v.Where(func(r menu.Record) bool { return r.Date.Before(day) })
}

// Since keeps records dated on or after d.
func (v View) Since(d time.Time) View {
	day := menu.DateOf(d)
	return v.Where(func(r menu.Record) bool { return !r.Date.Before(day) })
}

// Limit keeps at most the first n records. n <= 0 keeps everything.
func (v View) Limit(n int) View {
	if n <= 0 || n >= len(v.records) {
		return v
	}
	return View{records: v.records[:n:n]}
}

// Stations returns a map of station name to record count.
func (v View) Stations() map[string]int {
	stations := make(map[string]int)
	for _, r := range v.records {
		stations[r.Station]++
	}
	return stations
}

func where(records []menu.Record, fn func(menu.Record) bool) []menu.Record {
	var result []menu.Record
	for _, r := range records {
		if fn(r) {
			result = append(result, r)
		}
	}
	return result
}
