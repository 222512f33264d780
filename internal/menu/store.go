package menu

import (
	"slices"
	"time"
)

// ItemStats holds per-item appearance statistics across the whole dataset.
type ItemStats struct {
	Occurrences int
	Probability float64
}

// Store is the immutable canonical record set plus derived item statistics.
// It is safe for concurrent readers once constructed.
type Store struct {
	records []Record
	stats   map[string]ItemStats
	items   []string
	triples int
}

// NewStore parses raw rows and computes item statistics. Any malformed row
// aborts construction with a *MalformedRecordError.
func NewStore(raw []RawRecord) (*Store, error) {
	records := make([]Record, 0, len(raw))
	for i, r := range raw {
		rec, err := parseRecord(i+1, r)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	stats, triples := computeStats(records)
	for i := range records {
		s := stats[records[i].Item]
		records[i].Occurrences = s.Occurrences
		records[i].Probability = s.Probability
	}

	return &Store{
		records: records,
		stats:   stats,
		items:   distinctItems(records),
		triples: triples,
	}, nil
}

// RestoreStore rebuilds a store from records that already carry statistics,
// for example rows read back from a snapshot. Statistics are not recomputed.
func RestoreStore(records []Record) *Store {
	owned := slices.Clone(records)
	stats := make(map[string]ItemStats)
	seen := make(map[triple]struct{})
	for _, r := range owned {
		if _, ok := stats[r.Item]; !ok {
			stats[r.Item] = ItemStats{Occurrences: r.Occurrences, Probability: r.Probability}
		}
		seen[r.triple()] = struct{}{}
	}
	return &Store{
		records: owned,
		stats:   stats,
		items:   distinctItems(owned),
		triples: len(seen),
	}
}

// computeStats counts each item once per distinct (date, location, period),
// so an item carried by two stations in the same period counts once.
func computeStats(records []Record) (map[string]ItemStats, int) {
	triples := make(map[triple]struct{})
	type appearance struct {
		t    triple
		item string
	}
	appearances := make(map[appearance]struct{})
	counts := make(map[string]int)

	for _, r := range records {
		t := r.triple()
		triples[t] = struct{}{}
		key := appearance{t: t, item: r.Item}
		if _, ok := appearances[key]; ok {
			continue
		}
		appearances[key] = struct{}{}
		counts[r.Item]++
	}

	stats := make(map[string]ItemStats, len(counts))
	for item, n := range counts {
		stats[item] = ItemStats{
			Occurrences: n,
			Probability: float64(n) / float64(len(triples)),
		}
	}
	return stats, len(triples)
}

func distinctItems(records []Record) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		if _, ok := seen[r.Item]; ok {
			continue
		}
		seen[r.Item] = struct{}{}
		out = append(out, r.Item)
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of all records in ingestion order.
func (s *Store) Records() []Record { return slices.Clone(s.records) }

// Each calls fn for every record in order until fn returns false.
func (s *Store) Each(fn func(Record) bool) {
	for _, r := range s.records {
		if !fn(r) {
			return
		}
	}
}

// Stats returns the statistics for an item.
func (s *Store) Stats(item string) (ItemStats, bool) {
	st, ok := s.stats[item]
	return st, ok
}

// Triples returns the number of distinct (date, location, period) combinations.
func (s *Store) Triples() int { return s.triples }

// Items returns distinct item names in order of first appearance.
func (s *Store) Items() []string { return slices.Clone(s.items) }

// Locations returns distinct locations in order of first appearance.
func (s *Store) Locations() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range s.records {
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		out = append(out, r.Location)
	}
	return out
}

// DateRange returns the earliest and latest record dates.
func (s *Store) DateRange() (first, last time.Time, ok bool) {
	for i, r := range s.records {
		if i == 0 || r.Date.Before(first) {
			first = r.Date
		}
		if i == 0 || r.Date.After(last) {
			last = r.Date
		}
	}
	return first, last, len(s.records) > 0
}
