// Package progress aggregates task completion for a subset of the catalog.
package progress

import (
	"math"

	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/model"
)

// Summary is the completion of a task subset on one day.
type Summary struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Aggregate counts the tasks of subset that are truthy in day. A nil day
// counts as nothing completed; an empty subset yields 0%.
func Aggregate(subset []catalog.Task, day model.DayCompletion) Summary {
	s := Summary{Total: len(subset)}
	for _, t := range subset {
		if day.Truthy(t.ID) {
			s.Completed++
		}
	}
	s.Percentage = Percent(s.Completed, s.Total)
	return s
}

// Percent returns completed/total as a rounded percentage in [0, 100].
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return int(math.Round(float64(completed) * 100 / float64(total)))
}
