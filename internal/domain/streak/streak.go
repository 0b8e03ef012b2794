// Package streak derives consecutive qualifying-day streaks from the
// completion history.
package streak

import (
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/model"
)

// Qualifies reports whether a day with the given completion counts toward a
// streak: at least half of the full catalog is done.
func Qualifies(day model.DayCompletion, fullTaskCount int) bool {
	return day.CompletedCount()*2 >= fullTaskCount
}

// Current walks backward from today and returns the number of consecutive
// qualifying days. A missing record ends the walk, so no record for today
// means 0.
func Current(record model.CompletionRecord, today calendar.Date, fullTaskCount int) int {
	n := 0
	for d := today; n < len(record); d = d.AddDays(-1) {
		day, ok := record.Day(d)
		if !ok || !Qualifies(day, fullTaskCount) {
			break
		}
		n++
	}
	return n
}

// Compute recomputes the streak state in full. Best never drops below
// previousBest.
func Compute(record model.CompletionRecord, today calendar.Date, fullTaskCount, previousBest int) model.StreakState {
	cur := Current(record, today, fullTaskCount)
	return model.StreakState{Current: cur, Best: max(cur, previousBest)}
}
