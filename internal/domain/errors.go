package domain

import (
	"errors"
	"fmt"
)

// ErrEmptySeries is returned when the raw input contains no rows at all.
var ErrEmptySeries = errors.New("empty series: no rows to process")

// ValidationError is a fatal input defect: an unparseable or out-of-order
// date, or a malformed field. Row is the zero-based index of the first
// offending input row.
type ValidationError struct {
	Row   int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed at row %d, field %q: %s", e.Row, e.Field, e.Msg)
}

// ConfigurationError is a fatal caller mistake: an invalid window size,
// a percentile outside [0,100], an unknown column name, or a bad date range.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Msg)
}

// Warning is a non-fatal data-quality note. Warnings accumulate during
// validation and are surfaced to the caller next to the results; they never
// halt processing.
type Warning struct {
	Date  string `json:"date"`
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Date, w.Field, w.Msg)
}
