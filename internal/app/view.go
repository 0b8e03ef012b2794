package service

import (
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/internal/domain/progress"
	"github.com/okian/regrow/internal/domain/streak"
)

// photoWeeks are the weeks a progress photo is expected.
var photoWeeks = []int{1, 4, 8, 12} //nolint:gochecknoglobals // fixed schedule

// PillarView is a pillar with today's completion of its tasks.
type PillarView struct {
	catalog.Pillar
	Completion progress.Summary `json:"completion"`
}

// MilestoneView is a milestone and whether the best streak reached it.
type MilestoneView struct {
	catalog.Milestone
	Achieved bool `json:"achieved"`
}

// View is the derived state handed to presentation after every mutation.
type View struct {
	Today              calendar.Date       `json:"today"`
	StartDate          calendar.Date       `json:"startDate"`
	OnboardingComplete bool                `json:"onboardingComplete"`
	Day                calendar.DayInfo    `json:"day"`
	OverallProgress    int                 `json:"overallProgress"`
	TodayCompletion    model.DayCompletion `json:"todayCompletion"`
	TodaySummary       progress.Summary    `json:"todaySummary"`
	Pillars            []PillarView        `json:"pillars"`
	Streak             model.StreakState   `json:"streak"`
	Milestones         []MilestoneView     `json:"milestones"`
	Settings           model.Settings      `json:"settings"`
	PhotoWeeks         []int               `json:"photoWeeks"`
}

// startOf returns the start date once onboarding is complete.
func startOf(s *model.ProtocolState) calendar.Date {
	if !s.User.Started() {
		return calendar.Date{}
	}
	return s.User.StartDate
}

// DeriveDay returns the protocol day for the state at today.
func DeriveDay(s *model.ProtocolState, today calendar.Date) calendar.DayInfo {
	return calendar.Derive(startOf(s), today)
}

// CalendarGrid builds the 12-week grid for a completion record. Each past
// or current cell is scored against the full catalog.
func CalendarGrid(cat *catalog.Catalog, record model.CompletionRecord, start, today calendar.Date) calendar.Grid {
	all := cat.All()
	return calendar.BuildGrid(start, today, func(d calendar.Date) int {
		day, _ := record.Day(d)
		return progress.Aggregate(all, day).Percentage
	})
}

// PillarViews returns every pillar with the completion of day.
func PillarViews(cat *catalog.Catalog, day model.DayCompletion) []PillarView {
	pillars := cat.Pillars()
	out := make([]PillarView, len(pillars))
	for i, p := range pillars {
		out[i] = PillarView{Pillar: p, Completion: progress.Aggregate(p.Tasks, day)}
	}
	return out
}

// MilestoneViews marks the milestones reached by best.
func MilestoneViews(cat *catalog.Catalog, best int) []MilestoneView {
	ms := cat.Milestones()
	out := make([]MilestoneView, len(ms))
	for i, m := range ms {
		out[i] = MilestoneView{Milestone: m, Achieved: best >= m.Days}
	}
	return out
}

// Recompute returns the streak after the record changed.
func Recompute(cat *catalog.Catalog, s *model.ProtocolState, today calendar.Date) model.StreakState {
	return streak.Compute(s.DailyData, today, cat.Size(), s.Streaks.Best)
}

func buildView(cat *catalog.Catalog, s *model.ProtocolState, today calendar.Date) View {
	day, _ := s.DailyData.Day(today)
	info := DeriveDay(s, today)
	return View{
		Today:              today,
		StartDate:          s.User.StartDate,
		OnboardingComplete: s.User.OnboardingComplete,
		Day:                info,
		OverallProgress:    info.ProgressPercent(),
		TodayCompletion:    day.Clone(),
		TodaySummary:       progress.Aggregate(cat.All(), day),
		Pillars:            PillarViews(cat, day),
		Streak:             s.Streaks,
		Milestones:         MilestoneViews(cat, s.Streaks.Best),
		Settings:           model.Settings{Notifications: s.Settings.Notifications, MaskDays: append([]string{}, s.Settings.MaskDays...)},
		PhotoWeeks:         append([]int(nil), photoWeeks...),
	}
}
