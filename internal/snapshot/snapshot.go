// Package snapshot persists a store as flat CSV rows so it can be reloaded
// without re-ingesting or recomputing statistics.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tayloree/dinecli/internal/menu"
)

// Header lists the snapshot columns in order.
var Header = []string{
	"date",
	"location",
	"period",
	"period_start",
	"period_end",
	"station",
	"item",
	"item_count",
	"item_prob",
}

// Write serializes every record of store with a header row.
func Write(w io.Writer, store *menu.Store) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	var writeErr error
	store.Each(func(r menu.Record) bool {
		writeErr = cw.Write([]string{
			r.Date.Format(menu.DateLayout),
			r.Location,
			r.Period,
			r.PeriodStart.String(),
			r.PeriodEnd.String(),
			r.Station,
			r.Item,
			strconv.Itoa(r.Occurrences),
			strconv.FormatFloat(r.Probability, 'g', -1, 64),
		})
		return writeErr == nil
	})
	if writeErr != nil {
		return fmt.Errorf("writing row: %w", writeErr)
	}

	cw.Flush()
	return cw.Error()
}

// Read parses a snapshot written by Write. Columns are located by header
// name, so column order may differ. Any bad row fails the whole read.
func Read(r io.Reader) (*menu.Store, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return menu.RestoreStore(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("snapshot missing column %q", name)
		}
	}

	var records []menu.Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		rec, err := parseRow(row, fields, idx)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return menu.RestoreStore(records), nil
}

func parseRow(row int, fields []string, idx map[string]int) (menu.Record, error) {
	get := func(name string) string { return fields[idx[name]] }
	bad := func(field string, err error) error {
		return &menu.MalformedRecordError{Row: row, Field: field, Value: get(field), Err: err}
	}

	date, err := menu.ParseDate(get("date"))
	if err != nil {
		return menu.Record{}, bad("date", err)
	}
	start, err := menu.ParseTimeOfDay(get("period_start"))
	if err != nil {
		return menu.Record{}, bad("period_start", err)
	}
	end, err := menu.ParseTimeOfDay(get("period_end"))
	if err != nil {
		return menu.Record{}, bad("period_end", err)
	}
	count, err := strconv.Atoi(get("item_count"))
	if err != nil {
		return menu.Record{}, bad("item_count", err)
	}
	prob, err := strconv.ParseFloat(get("item_prob"), 64)
	if err != nil || prob < 0 || prob > 1 {
		if err == nil {
			err = fmt.Errorf("probability out of range")
		}
		return menu.Record{}, bad("item_prob", err)
	}

	return menu.Record{
		Date:        date,
		Location:    get("location"),
		Period:      get("period"),
		PeriodStart: start,
		PeriodEnd:   end,
		Station:     get("station"),
		Item:        get("item"),
		Occurrences: count,
		Probability: prob,
	}, nil
}

// Load reads a snapshot file.
func Load(path string) (*menu.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	store, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return store, nil
}

// Save writes a snapshot file atomically via a temp file in the same
// directory.
func Save(path string, store *menu.Store) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*.csv")
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, store); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
