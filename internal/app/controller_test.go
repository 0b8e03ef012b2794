package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/regrow/internal/adapters/repository"
	"github.com/okian/regrow/internal/adapters/timer"
	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// clock is a settable wall clock.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) advanceDays(n int) {
	c.mu.Lock()
	c.now = c.now.AddDate(0, 0, n)
	c.mu.Unlock()
}

// sink records submitted snapshots.
type sink struct {
	mu    sync.Mutex
	saved []model.ProtocolState
	err   error
}

func (s *sink) Submit(st model.ProtocolState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, st)
	return s.err
}

func (s *sink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func (s *sink) last() model.ProtocolState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

type stateLoader model.ProtocolState

func (l stateLoader) Load(context.Context) model.ProtocolState { return model.ProtocolState(l) }

var start = calendar.NewDate(2024, time.January, 1)

func newController(clk *clock, opts ...service.Option) (*service.Controller, *sink) {
	out := &sink{}
	base := []service.Option{
		service.WithLogger(logger.Nop()),
		service.WithClock(clk.Now),
		service.WithLocation(time.UTC),
		service.WithPersister(out),
	}
	return service.New(append(base, opts...)...), out
}

func dayWith(ids ...string) model.DayCompletion {
	d := model.DayCompletion{}
	for _, id := range ids {
		d[id] = model.Done(true)
	}
	return d
}

func TestOnboarding(t *testing.T) {
	ctx := context.Background()

	Convey("Given a controller on a fresh install", t, func() {
		clk := &clock{now: time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)}
		c, out := newController(clk)
		defer c.Close()

		Convey("Then the protocol has not started", func() {
			So(c.DerivedDay(), ShouldResemble, calendar.DayInfo{})
			So(len(c.CalendarGrid()), ShouldEqual, 0)
			So(c.Streak(), ShouldResemble, model.StreakState{})
		})

		Convey("When onboarding completes", func() {
			v := c.CompleteOnboarding(ctx, service.Profile{AgeRange: "25-34", CommitmentLevel: "all-in", HairPattern: []string{"crown"}})

			Convey("Then the start date is today and day 1 begins", func() {
				So(v.OnboardingComplete, ShouldBeTrue)
				So(v.StartDate, ShouldResemble, start)
				So(v.Day, ShouldResemble, calendar.DayInfo{DayNumber: 1, WeekNumber: 1, MonthNumber: 1})
				So(out.count(), ShouldEqual, 1)
				So(out.last().User.HairPattern, ShouldResemble, []string{"crown"})
			})

			Convey("And a repeat call keeps the original start date", func() {
				clk.advanceDays(10)
				v := c.CompleteOnboarding(ctx, service.Profile{AgeRange: "45+"})
				So(v.StartDate, ShouldResemble, start)
				So(c.State().User.AgeRange, ShouldEqual, "25-34")
				So(v.Day.DayNumber, ShouldEqual, 11)
				So(out.count(), ShouldEqual, 1)
			})

			Convey("And the day number clamps at 84", func() {
				clk.advanceDays(300)
				So(c.DerivedDay(), ShouldResemble, calendar.DayInfo{DayNumber: 84, WeekNumber: 12, MonthNumber: 3})
				So(c.View().OverallProgress, ShouldEqual, 100)
			})
		})
	})
}

func TestToggleTask(t *testing.T) {
	ctx := context.Background()

	Convey("Given an onboarded controller", t, func() {
		clk := &clock{now: time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)}
		c, out := newController(clk)
		defer c.Close()
		c.CompleteOnboarding(ctx, service.Profile{})

		Convey("When a task is toggled", func() {
			v, err := c.ToggleTask(ctx, "sunlight")

			Convey("Then today's mapping records it and it is persisted", func() {
				So(err, ShouldBeNil)
				So(v.TodayCompletion.Truthy("sunlight"), ShouldBeTrue)
				So(c.TodayCompletion().Truthy("sunlight"), ShouldBeTrue)
				So(v.TodaySummary.Completed, ShouldEqual, 1)
				So(v.TodaySummary.Total, ShouldEqual, 20)
				So(out.count(), ShouldEqual, 2)
				So(out.last().DailyData[start].Truthy("sunlight"), ShouldBeTrue)
			})

			Convey("And toggling again restores the value and the streak", func() {
				before := c.Streak()
				v, err := c.ToggleTask(ctx, "sunlight")
				So(err, ShouldBeNil)
				So(v.TodayCompletion.Truthy("sunlight"), ShouldBeFalse)
				_, present := v.TodayCompletion["sunlight"]
				So(present, ShouldBeTrue)
				So(c.Streak().Current, ShouldEqual, before.Current)
			})

			Convey("And the pillar completion reflects it", func() {
				pc := c.PillarCompletion(c.Catalog().PillarTasks(catalog.PillarInflammation))
				So(pc.Completed, ShouldEqual, 1)
				So(pc.Total, ShouldEqual, 6)
				So(pc.Percentage, ShouldEqual, 17)
				So(c.PillarCompletion(c.Catalog().PillarTasks(catalog.PillarInflammation)), ShouldResemble, pc)
				So(c.Pillars()[0].Completion, ShouldResemble, pc)
			})
		})

		Convey("When half of the catalog is done", func() {
			ids := []string{}
			for _, task := range c.Catalog().All()[:10] {
				ids = append(ids, task.ID)
			}
			var v service.View
			for _, id := range ids {
				v, _ = c.ToggleTask(ctx, id)
			}

			Convey("Then the day qualifies for the streak", func() {
				So(v.Streak, ShouldResemble, model.StreakState{Current: 1, Best: 1})
			})

			Convey("And undoing one task drops current but keeps best", func() {
				v, _ := c.ToggleTask(ctx, ids[0])
				So(v.Streak, ShouldResemble, model.StreakState{Current: 0, Best: 1})
			})

			Convey("And the calendar scores today against the full catalog", func() {
				cell, ok := c.CalendarGrid().Cell(1)
				So(ok, ShouldBeTrue)
				So(cell.IsToday, ShouldBeTrue)
				So(*cell.Percentage, ShouldEqual, 50)
				So(cell.Band, ShouldEqual, calendar.BandMid)
			})
		})

		Convey("When an unknown task is toggled", func() {
			before := c.State()
			v, err := c.ToggleTask(ctx, "nope")

			Convey("Then nothing changes", func() {
				So(errors.Is(err, service.ErrUnknownTask), ShouldBeTrue)
				So(c.State(), ShouldResemble, before)
				So(len(v.TodayCompletion), ShouldEqual, 0)
				So(out.count(), ShouldEqual, 1)
			})
		})

		Convey("When the persister fails", func() {
			out.err = errors.New("disk full")
			v, err := c.ToggleTask(ctx, "sunlight")

			Convey("Then in-memory state stays authoritative", func() {
				So(err, ShouldBeNil)
				So(v.TodayCompletion.Truthy("sunlight"), ShouldBeTrue)
				So(c.TodayCompletion().Truthy("sunlight"), ShouldBeTrue)
			})
		})

		Convey("When the day rolls over", func() {
			_, _ = c.ToggleTask(ctx, "sunlight")
			clk.advanceDays(1)

			Convey("Then today's mapping starts empty and history is kept", func() {
				So(len(c.TodayCompletion()), ShouldEqual, 0)
				So(c.State().DailyData[start].Truthy("sunlight"), ShouldBeTrue)
				So(c.DerivedDay().DayNumber, ShouldEqual, 2)
			})
		})
	})
}

func TestStreakRecompute(t *testing.T) {
	ctx := context.Background()

	Convey("Given yesterday had 9 of 20 tasks done", t, func() {
		clk := &clock{now: time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)}
		today := calendar.NewDate(2024, time.January, 5)
		all := catalog.Default().All()

		s := model.DefaultState()
		s.User = model.UserProfile{StartDate: start, OnboardingComplete: true, HairPattern: []string{}}
		yesterday := model.DayCompletion{}
		for _, task := range all[:9] {
			yesterday[task.ID] = model.Done(true)
		}
		todayDone := model.DayCompletion{}
		for _, task := range all[:10] {
			todayDone[task.ID] = model.Done(true)
		}
		s.DailyData[today.AddDays(-1)] = yesterday
		s.DailyData[today] = todayDone
		s.Streaks = model.StreakState{Current: 0, Best: 4}

		c, _ := newController(clk, service.WithLoader(stateLoader(s)))
		defer c.Close()
		c.Load(ctx)

		Convey("When an 11th task is done today", func() {
			v, err := c.ToggleTask(ctx, all[10].ID)

			Convey("Then the current streak is 1 and best is kept", func() {
				So(err, ShouldBeNil)
				So(v.Streak, ShouldResemble, model.StreakState{Current: 1, Best: 4})
			})
		})

		Convey("Then milestones follow the best streak", func() {
			ms := c.Milestones()
			So(len(ms), ShouldEqual, 4)
			So(ms[0].Days, ShouldEqual, 7)
			So(ms[0].Achieved, ShouldBeFalse)
		})
	})
}

func TestCountersAndCompletion(t *testing.T) {
	ctx := context.Background()

	Convey("Given an onboarded controller", t, func() {
		clk := &clock{now: time.Date(2024, time.March, 1, 7, 0, 0, 0, time.UTC)}
		c, _ := newController(clk)
		defer c.Close()
		c.CompleteOnboarding(ctx, service.Profile{})

		Convey("When the water counter is set", func() {
			v, err := c.SetCounter(ctx, "water", 6)

			Convey("Then it counts as done with its value", func() {
				So(err, ShouldBeNil)
				So(v.TodayCompletion["water"].IsCount(), ShouldBeTrue)
				So(v.TodayCompletion["water"].Value(), ShouldEqual, 6.0)
				So(v.TodaySummary.Completed, ShouldEqual, 1)
			})

			Convey("And setting it to zero un-completes it", func() {
				v, err := c.SetCounter(ctx, "water", 0)
				So(err, ShouldBeNil)
				So(v.TodayCompletion.Truthy("water"), ShouldBeFalse)
			})
		})

		Convey("When a non-counter or bad value is given", func() {
			_, err1 := c.SetCounter(ctx, "sunlight", 3)
			_, err2 := c.SetCounter(ctx, "water", -1)
			_, err3 := c.SetCounter(ctx, "nope", 1)

			Convey("Then each is rejected without change", func() {
				So(errors.Is(err1, service.ErrNotCounter), ShouldBeTrue)
				So(errors.Is(err2, service.ErrInvalidCount), ShouldBeTrue)
				So(errors.Is(err3, service.ErrUnknownTask), ShouldBeTrue)
				So(len(c.TodayCompletion()), ShouldEqual, 0)
			})
		})

		Convey("When a task is completed twice", func() {
			_, err := c.CompleteTask(ctx, "inversion")
			So(err, ShouldBeNil)
			v, err := c.CompleteTask(ctx, "inversion")

			Convey("Then it stays done", func() {
				So(err, ShouldBeNil)
				So(v.TodayCompletion.Truthy("inversion"), ShouldBeTrue)
			})
		})

		Convey("When settings are updated", func() {
			v := c.UpdateSettings(ctx, model.Settings{Notifications: false, MaskDays: []string{"Sat"}})

			Convey("Then they are stored", func() {
				So(v.Settings, ShouldResemble, model.Settings{Notifications: false, MaskDays: []string{"Sat"}})
				So(c.Settings().MaskDays, ShouldResemble, []string{"Sat"})
			})
		})

		Convey("Then the view lists the photo weeks", func() {
			So(c.View().PhotoWeeks, ShouldResemble, []int{1, 4, 8, 12})
		})
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	Convey("Given a subscriber", t, func() {
		clk := &clock{now: time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)}
		c, _ := newController(clk)
		defer c.Close()

		var got []service.View
		unsubscribe := c.Subscribe(func(v service.View) { got = append(got, v) })

		Convey("When mutations happen", func() {
			c.CompleteOnboarding(ctx, service.Profile{})
			_, _ = c.ToggleTask(ctx, "sunlight")

			Convey("Then each publishes the new view", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].OnboardingComplete, ShouldBeTrue)
				So(got[1].TodayCompletion.Truthy("sunlight"), ShouldBeTrue)
			})
		})

		Convey("When unsubscribed", func() {
			unsubscribe()
			unsubscribe()
			c.CompleteOnboarding(ctx, service.Profile{})

			Convey("Then nothing is delivered", func() {
				So(len(got), ShouldEqual, 0)
			})
		})
	})
}

func TestLoadFromRepository(t *testing.T) {
	ctx := context.Background()

	Convey("Given a repository holding a saved protocol", t, func() {
		repo := repository.NewStateRepository(repository.NewMemoryStore(), repository.WithLogger(logger.Nop()))
		saved := model.DefaultState()
		saved.User = model.UserProfile{StartDate: start, OnboardingComplete: true, HairPattern: []string{}}
		saved.DailyData[start] = dayWith("sunlight", "no_gluten")
		saved.Streaks = model.StreakState{Current: 0, Best: 9}
		So(repo.Save(ctx, saved), ShouldBeNil)

		clk := &clock{now: time.Date(2024, time.January, 8, 20, 0, 0, 0, time.UTC)}
		c, _ := newController(clk, service.WithLoader(repo))
		defer c.Close()

		Convey("When the controller loads", func() {
			v := c.Load(ctx)

			Convey("Then it derives from the saved aggregate", func() {
				So(v.Day, ShouldResemble, calendar.DayInfo{DayNumber: 8, WeekNumber: 2, MonthNumber: 1})
				So(v.Streak.Best, ShouldEqual, 9)
				So(v.Milestones[0].Achieved, ShouldBeTrue)
				So(v.Milestones[1].Achieved, ShouldBeFalse)
				cell, _ := c.CalendarGrid().Cell(1)
				So(*cell.Percentage, ShouldEqual, 10)
				future, _ := c.CalendarGrid().Cell(9)
				So(future.IsFuture, ShouldBeTrue)
				So(future.Percentage, ShouldBeNil)
			})
		})
	})
}

func TestTimerExpiry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a catalog with a short timed task", t, func() {
		cat := catalog.New([]catalog.Pillar{{
			ID: catalog.PillarBloodFlow, Name: "Blood Flow",
			Tasks: []catalog.Task{{ID: "massage", TimerSeconds: 3}, {ID: "oil"}},
		}}, nil)
		clk := &clock{now: time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)}
		c, _ := newController(clk,
			service.WithCatalog(cat),
			service.WithTimerOptions(timer.WithInterval(time.Millisecond)))
		defer c.Close()
		c.CompleteOnboarding(ctx, service.Profile{})

		done := make(chan service.View, 4)
		c.Subscribe(func(v service.View) { done <- v })

		Convey("When the countdown runs out", func() {
			st, err := c.StartTimer("massage")
			So(err, ShouldBeNil)
			So(st.Total, ShouldEqual, 3)

			Convey("Then the task is marked complete once", func() {
				select {
				case v := <-done:
					So(v.TodayCompletion.Truthy("massage"), ShouldBeTrue)
				case <-time.After(2 * time.Second):
					So("timer never completed the task", ShouldBeEmpty)
				}
				So(c.TodayCompletion().Truthy("massage"), ShouldBeTrue)
			})
		})

		Convey("When a task without a timer is started", func() {
			_, err1 := c.StartTimer("oil")
			_, err2 := c.StartTimer("nope")

			Convey("Then it is rejected", func() {
				So(errors.Is(err1, service.ErrNoTimer), ShouldBeTrue)
				So(errors.Is(err2, service.ErrUnknownTask), ShouldBeTrue)
			})
		})
	})
}
