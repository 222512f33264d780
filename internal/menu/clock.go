package menu

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed as seconds since midnight.
type TimeOfDay int

// Midnight is 00:00. As a period end it means the period runs until close.
const Midnight TimeOfDay = 0

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04PM",
	"03:04PM",
	"3:04 PM",
	"3PM",
	"3 PM",
}

// Clock builds a TimeOfDay from hour, minute and second.
func Clock(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ClockOf returns the wall-clock portion of t.
func ClockOf(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute(), t.Second())
}

// ParseTimeOfDay accepts 24-hour ("13:00", "13:00:00") and 12-hour
// ("1:00pm", "1pm") clock strings.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return 0, fmt.Errorf("empty time")
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return ClockOf(t), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", raw)
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int { return int(t) / 3600 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }

// Second returns the second component.
func (t TimeOfDay) Second() int { return int(t) % 60 }

// String formats as HH:MM:SS, the snapshot column format.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}
