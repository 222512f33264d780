package menu

import "fmt"

// MalformedRecordError reports an ingested row that could not be parsed.
// A store is never built from a partially valid record set.
type MalformedRecordError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record at row %d: field %s=%q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func malformed(row int, field, value string, err error) error {
	return &MalformedRecordError{Row: row, Field: field, Value: value, Err: err}
}
