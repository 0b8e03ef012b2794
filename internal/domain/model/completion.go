// Package model contains the domain models persisted and passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/regrow/internal/domain/calendar"
)

// Mark is the completion value of one task on one day: a boolean, or a
// count for counter-style tasks.
type Mark struct {
	count   float64
	numeric bool
}

// Done returns a boolean mark.
func Done(done bool) Mark {
	if done {
		return Mark{count: 1}
	}
	return Mark{}
}

// Count returns a numeric mark.
func Count(n float64) Mark {
	return Mark{count: n, numeric: true}
}

// Truthy reports whether the mark counts as completed: true, or a non-zero count.
func (m Mark) Truthy() bool { return m.count != 0 }

// IsCount reports whether the mark holds a number.
func (m Mark) IsCount() bool { return m.numeric }

// Value returns the count for numeric marks and 1/0 for boolean ones.
func (m Mark) Value() float64 { return m.count }

// MarshalJSON encodes a boolean mark as true/false and a count as a number.
func (m Mark) MarshalJSON() ([]byte, error) {
	if m.numeric {
		return []byte(strconv.FormatFloat(m.count, 'f', -1, 64)), nil
	}
	return []byte(strconv.FormatBool(m.count != 0)), nil
}

// UnmarshalJSON accepts true, false or a number.
func (m *Mark) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true":
		*m = Done(true)
		return nil
	case "false":
		*m = Done(false)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMark, b)
	}
	*m = Count(n)
	return nil
}

// DayCompletion maps task ids to their marks for one day.
type DayCompletion map[string]Mark

// Truthy reports whether the task is completed on that day.
func (d DayCompletion) Truthy(taskID string) bool {
	return d[taskID].Truthy()
}

// CompletedCount returns the number of truthy entries.
func (d DayCompletion) CompletedCount() int {
	n := 0
	for _, m := range d {
		if m.Truthy() {
			n++
		}
	}
	return n
}

// Clone returns an independent copy; a nil day clones to an empty one.
func (d DayCompletion) Clone() DayCompletion {
	out := make(DayCompletion, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// CompletionRecord is the completion history keyed by calendar date. A date
// that is absent means "no data", which differs from a day with no task done.
type CompletionRecord map[calendar.Date]DayCompletion

// Day returns the completion of a date and whether a record exists for it.
// The returned map must not be mutated.
func (r CompletionRecord) Day(d calendar.Date) (DayCompletion, bool) {
	day, ok := r[d]
	return day, ok
}

// With returns a copy of the record where date d maps to day. Only the
// outer map is copied; untouched days are shared.
func (r CompletionRecord) With(d calendar.Date, day DayCompletion) CompletionRecord {
	out := make(CompletionRecord, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out[d] = day
	return out
}

// Clone returns a deep copy.
func (r CompletionRecord) Clone() CompletionRecord {
	out := make(CompletionRecord, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}
