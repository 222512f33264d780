package filter

import "strings"

// stationMatcher is a station allow-list compared after normalizeStation.
type stationMatcher struct {
	normalized map[string]struct{}
}

func newStationMatcher(allowed []string) stationMatcher {
	normalized := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		if norm := normalizeStation(name); norm != "" {
			normalized[norm] = struct{}{}
		}
	}
	return stationMatcher{normalized: normalized}
}

func (m stationMatcher) empty() bool { return len(m.normalized) == 0 }

func (m stationMatcher) matches(station string) bool {
	_, ok := m.normalized[normalizeStation(station)]
	return ok
}

// normalizeStation lowercases and collapses whitespace, so the site's
// "International Flavors " and "International Flavors" compare equal.
func normalizeStation(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
