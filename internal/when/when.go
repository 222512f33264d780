// Package when resolves symbolic date and meal tokens into concrete values.
// The current moment is always passed in, never read from the system clock.
package when

import (
	"fmt"
	"strings"
	"time"

	"github.com/tayloree/dinecli/internal/menu"
)

// Representative clock times for meal tokens.
var (
	Lunch  = menu.Clock(13, 0, 0)
	Dinner = menu.Clock(18, 0, 0)
)

// DateTokens and TimeTokens list the accepted symbolic tokens. Date also
// takes the misspelling "tommorow", which is accepted but not advertised.
var (
	DateTokens = []string{"today", "tomorrow", "yesterday", "YYYY-MM-DD"}
	TimeTokens = []string{"lunch", "dinner", "now", "HH:MM", "H:MMpm"}
)

// InvalidTokenError reports a token that is neither symbolic nor a valid
// concrete value.
type InvalidTokenError struct {
	Kind  string
	Token string
	Valid []string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid: %s)", e.Kind, e.Token, strings.Join(e.Valid, ", "))
}

// Date resolves "today", "tomorrow", "yesterday" or a YYYY-MM-DD date
// relative to now.
func Date(token string, now time.Time) (time.Time, error) {
	switch normalize(token) {
	case "today", "":
		return menu.DateOf(now), nil
	case "tomorrow", "tommorow":
		return menu.DateOf(now).AddDate(0, 0, 1), nil
	case "yesterday":
		return menu.DateOf(now).AddDate(0, 0, -1), nil
	}
	d, err := menu.ParseDate(token)
	if err != nil {
		return time.Time{}, &InvalidTokenError{Kind: "date", Token: token, Valid: DateTokens}
	}
	return d, nil
}

// Time resolves "lunch", "dinner", "now" or a clock string.
func Time(token string, now time.Time) (menu.TimeOfDay, error) {
	switch normalize(token) {
	case "lunch":
		return Lunch, nil
	case "dinner":
		return Dinner, nil
	case "now", "":
		return menu.ClockOf(now), nil
	}
	t, err := menu.ParseTimeOfDay(token)
	if err != nil {
		return 0, &InvalidTokenError{Kind: "time", Token: token, Valid: TimeTokens}
	}
	return t, nil
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
