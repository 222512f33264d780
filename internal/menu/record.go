package menu

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RawRecord is one menu row as delivered by the ingestion feed.
type RawRecord struct {
	Date        string `json:"date"`
	Location    string `json:"location"`
	Period      string `json:"period"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Station     string `json:"station"`
	Item        string `json:"item"`
}

// Record is one appearance of one item in one serving period on one date at
// one location, joined with the item's statistics.
type Record struct {
	Date        time.Time
	Location    string
	Period      string
	PeriodStart TimeOfDay
	PeriodEnd   TimeOfDay
	Station     string
	Item        string

	Occurrences int
	Probability float64
}

// OpenUntilClose reports whether the period end is the midnight sentinel.
func (r Record) OpenUntilClose() bool {
	return r.PeriodEnd == Midnight
}

// Covers reports whether the serving period includes t.
func (r Record) Covers(t TimeOfDay) bool {
	return r.PeriodStart <= t && (r.PeriodEnd >= t || r.OpenUntilClose())
}

type triple struct {
	date     time.Time
	location string
	period   string
}

func (r Record) triple() triple {
	return triple{date: r.Date, location: r.Location, period: r.Period}
}

// reRange matches the trailing "(11am-2pm)" range of a period label.
var reRange = regexp.MustCompile(`\(([^()]+)-([^()]+)\)\s*$`)

// ParsePeriodRange extracts start and end times from a label such as
// "Lunch (11am-2pm)" or "Late Night (9:30pm-12am)".
func ParsePeriodRange(label string) (TimeOfDay, TimeOfDay, error) {
	m := reRange.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("no time range in period %q", label)
	}
	start, err := ParseTimeOfDay(m[1])
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseTimeOfDay(m[2])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseRecord(row int, raw RawRecord) (Record, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return Record{}, malformed(row, "date", raw.Date, err)
	}

	rec := Record{
		Date:     date,
		Location: strings.TrimSpace(raw.Location),
		Period:   strings.TrimSpace(raw.Period),
		Station:  strings.TrimSpace(raw.Station),
		Item:     strings.TrimSpace(raw.Item),
	}
	if rec.Item == "" {
		return Record{}, malformed(row, "item", raw.Item, fmt.Errorf("empty item name"))
	}
	if rec.Location == "" {
		return Record{}, malformed(row, "location", raw.Location, fmt.Errorf("empty location"))
	}

	if strings.TrimSpace(raw.PeriodStart) == "" && strings.TrimSpace(raw.PeriodEnd) == "" {
		start, end, err := ParsePeriodRange(rec.Period)
		if err != nil {
			return Record{}, malformed(row, "period", raw.Period, err)
		}
		rec.PeriodStart, rec.PeriodEnd = start, end
	} else {
		if rec.PeriodStart, err = ParseTimeOfDay(raw.PeriodStart); err != nil {
			return Record{}, malformed(row, "period_start", raw.PeriodStart, err)
		}
		if rec.PeriodEnd, err = ParseTimeOfDay(raw.PeriodEnd); err != nil {
			return Record{}, malformed(row, "period_end", raw.PeriodEnd, err)
		}
	}

	if rec.PeriodEnd != Midnight && rec.PeriodStart > rec.PeriodEnd {
		return Record{}, malformed(row, "period_end", raw.PeriodEnd,
			fmt.Errorf("period ends (%s) before it starts (%s)", rec.PeriodEnd, rec.PeriodStart))
	}
	return rec, nil
}
