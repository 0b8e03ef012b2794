// Package service provides the protocol state controller: the single owner
// of the persisted aggregate and the read/write surface used by
// presentation.
package service

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/regrow/internal/adapters/timer"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/dedupe"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/internal/domain/progress"
	"github.com/okian/regrow/pkg/logger"
	"github.com/okian/regrow/pkg/metrics"
)

// Loader reads the persisted aggregate, falling back to defaults.
type Loader interface {
	Load(ctx context.Context) model.ProtocolState
}

// Persister accepts a snapshot to write. It must not block.
type Persister interface {
	Submit(state model.ProtocolState) error
}

// Profile holds the onboarding answers.
type Profile struct {
	AgeRange        string   `json:"ageRange"`
	CommitmentLevel string   `json:"commitmentLevel"`
	HairPattern     []string `json:"hairPattern"`
}

// Controller serializes mutations of the aggregate. Each mutation builds a
// complete new aggregate and swaps it in, so readers never see a partial
// update.
type Controller struct {
	mu    sync.Mutex // serializes mutations
	state atomic.Pointer[model.ProtocolState]

	catalog   *catalog.Catalog
	loader    Loader
	persister Persister
	deduper   dedupe.Deduper
	timers    *timer.Manager
	now       func() time.Time
	loc       *time.Location
	logger    logger.Logger

	timerOpts []timer.Option

	subMu  sync.RWMutex
	subs   map[uint64]func(View)
	nextID uint64
}

// New creates a controller holding the default state. Call Load to read the
// persisted aggregate.
func New(opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog.Default(),
		now:     time.Now,
		loc:     time.Local,
		subs:    make(map[uint64]func(View)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("controller")
	}
	if c.deduper == nil {
		c.deduper = dedupe.New()
	}
	c.timers = timer.New(c.onTimerExpired, append([]timer.Option{timer.WithLogger(c.logger.Named("timer"))}, c.timerOpts...)...)

	initial := model.DefaultState()
	c.state.Store(&initial)
	return c
}

// Load replaces the in-memory aggregate with the persisted one.
func (c *Controller) Load(ctx context.Context) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := model.DefaultState()
	if c.loader != nil {
		s = c.loader.Load(ctx)
	}
	c.state.Store(&s)
	today := c.today()
	c.logger.Info(ctx, "protocol state loaded",
		logger.Bool("onboarded", s.User.OnboardingComplete),
		logger.Int("days_recorded", len(s.DailyData)),
		logger.Int("day", DeriveDay(&s, today).DayNumber))
	c.updateGauges(&s, today)
	return buildView(c.catalog, &s, today)
}

// Close stops every running countdown.
func (c *Controller) Close() {
	c.timers.Close()
}

func (c *Controller) today() calendar.Date {
	return calendar.Of(c.now().In(c.loc))
}

func (c *Controller) current() *model.ProtocolState {
	return c.state.Load()
}

// Catalog returns the task catalog.
func (c *Controller) Catalog() *catalog.Catalog { return c.catalog }

// State returns a deep copy of the aggregate.
func (c *Controller) State() model.ProtocolState { return c.current().Clone() }

// View returns the derived view of the current aggregate.
func (c *Controller) View() View {
	return buildView(c.catalog, c.current(), c.today())
}

// DerivedDay returns the protocol day, week and month for today.
func (c *Controller) DerivedDay() calendar.DayInfo {
	return DeriveDay(c.current(), c.today())
}

// TodayCompletion returns a copy of today's completion mapping.
func (c *Controller) TodayCompletion() model.DayCompletion {
	day, _ := c.current().DailyData.Day(c.today())
	return day.Clone()
}

// PillarCompletion aggregates today's completion over tasks.
func (c *Controller) PillarCompletion(tasks []catalog.Task) progress.Summary {
	day, _ := c.current().DailyData.Day(c.today())
	return progress.Aggregate(tasks, day)
}

// Pillars returns every pillar with today's completion.
func (c *Controller) Pillars() []PillarView {
	day, _ := c.current().DailyData.Day(c.today())
	return PillarViews(c.catalog, day)
}

// CalendarGrid returns the 12-week grid of the current protocol, empty
// before onboarding.
func (c *Controller) CalendarGrid() calendar.Grid {
	s := c.current()
	return CalendarGrid(c.catalog, s.DailyData, startOf(s), c.today())
}

// CalendarGridFor builds the grid for an explicit start date and today.
func (c *Controller) CalendarGridFor(start, today calendar.Date) calendar.Grid {
	return CalendarGrid(c.catalog, c.current().DailyData, start, today)
}

// Streak returns the stored streak state.
func (c *Controller) Streak() model.StreakState { return c.current().Streaks }

// Milestones returns the milestones and whether each was reached.
func (c *Controller) Milestones() []MilestoneView {
	return MilestoneViews(c.catalog, c.current().Streaks.Best)
}

// Settings returns the stored user settings.
func (c *Controller) Settings() model.Settings {
	return c.current().Clone().Settings
}

// CompleteOnboarding fixes the start date to today. It is a no-op once
// onboarding is complete.
func (c *Controller) CompleteOnboarding(ctx context.Context, p Profile) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current()
	today := c.today()
	if cur.User.OnboardingComplete {
		return buildView(c.catalog, cur, today)
	}
	next := *cur
	next.User = model.UserProfile{
		AgeRange:           p.AgeRange,
		CommitmentLevel:    p.CommitmentLevel,
		HairPattern:        append([]string{}, p.HairPattern...),
		StartDate:          today,
		OnboardingComplete: true,
	}
	metrics.RecordOnboardingCompleted()
	c.logger.Info(ctx, "onboarding complete", logger.String("start_date", today.String()))
	return c.commitLocked(ctx, &next, today)
}

// ToggleTask flips today's mark of taskID and recomputes the streak. An
// unknown task leaves the state alone and reports ErrUnknownTask with the
// unchanged view.
func (c *Controller) ToggleTask(ctx context.Context, taskID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current()
	today := c.today()
	task, ok := c.catalog.Lookup(taskID)
	if !ok {
		return buildView(c.catalog, cur, today), ErrUnknownTask
	}
	done := !cur.DailyData[today].Truthy(taskID)
	metrics.RecordTaskToggle(strconv.Itoa(int(task.Pillar)), done)
	return c.setMarkLocked(ctx, cur, today, taskID, model.Done(done)), nil
}

// CompleteTask marks taskID done for today. Unlike ToggleTask it never
// un-completes a task.
func (c *Controller) CompleteTask(ctx context.Context, taskID string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current()
	today := c.today()
	task, ok := c.catalog.Lookup(taskID)
	if !ok {
		return buildView(c.catalog, cur, today), ErrUnknownTask
	}
	if cur.DailyData[today].Truthy(taskID) {
		return buildView(c.catalog, cur, today), nil
	}
	metrics.RecordTaskToggle(strconv.Itoa(int(task.Pillar)), true)
	return c.setMarkLocked(ctx, cur, today, taskID, model.Done(true)), nil
}

// SetCounter stores n for a counter task. Zero counts as not done.
func (c *Controller) SetCounter(ctx context.Context, taskID string, n int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.current()
	today := c.today()
	task, ok := c.catalog.Lookup(taskID)
	if !ok {
		return buildView(c.catalog, cur, today), ErrUnknownTask
	}
	if !task.Counter {
		return buildView(c.catalog, cur, today), ErrNotCounter
	}
	if n < 0 {
		return buildView(c.catalog, cur, today), ErrInvalidCount
	}
	metrics.RecordCounterUpdate()
	return c.setMarkLocked(ctx, cur, today, taskID, model.Count(float64(n))), nil
}

// UpdateSettings replaces the user settings.
func (c *Controller) UpdateSettings(ctx context.Context, s model.Settings) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := *c.current()
	next.Settings = model.Settings{Notifications: s.Notifications, MaskDays: append([]string{}, s.MaskDays...)}
	return c.commitLocked(ctx, &next, c.today())
}

// setMarkLocked writes mark into a fresh copy of today's mapping and
// recomputes the streak. mu must be held.
func (c *Controller) setMarkLocked(ctx context.Context, cur *model.ProtocolState, today calendar.Date, taskID string, mark model.Mark) View {
	day := cur.DailyData[today].Clone()
	day[taskID] = mark

	next := *cur
	next.DailyData = cur.DailyData.With(today, day)
	next.Streaks = Recompute(c.catalog, &next, today)
	return c.commitLocked(ctx, &next, today)
}

// commitLocked publishes next, hands it to the persister and notifies
// subscribers. mu must be held.
func (c *Controller) commitLocked(ctx context.Context, next *model.ProtocolState, today calendar.Date) View {
	c.state.Store(next)
	c.updateGauges(next, today)

	if c.persister != nil {
		if err := c.persister.Submit(*next); err != nil {
			metrics.RecordErrorByComponent("controller", "persist_submit")
			c.logger.Error(ctx, "failed to queue state for saving", logger.Error(err))
		}
	}

	v := buildView(c.catalog, next, today)
	c.publish(v)
	return v
}

func (c *Controller) updateGauges(s *model.ProtocolState, today calendar.Date) {
	metrics.UpdateStreak(s.Streaks.Current, s.Streaks.Best)
	metrics.UpdateProtocolDay(DeriveDay(s, today).DayNumber)
}

// Subscribe registers fn to receive the view after every mutation. fn runs
// on the mutating goroutine and must not call back into mutations. The
// returned func unsubscribes.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) publish(v View) {
	c.subMu.RLock()
	fns := make([]func(View), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}

// SeenRequest reports whether a client request id was already applied and
// records it if not.
func (c *Controller) SeenRequest(ctx context.Context, requestID string) bool {
	return c.deduper.SeenAndRecord(ctx, requestID)
}

// ForgetRequest lets a rejected request be retried.
func (c *Controller) ForgetRequest(ctx context.Context, requestID string) {
	c.deduper.Forget(ctx, requestID)
}

// StartTimer starts the countdown of a timed task. Expiry marks the task
// complete.
func (c *Controller) StartTimer(taskID string) (timer.Status, error) {
	task, ok := c.catalog.Lookup(taskID)
	if !ok {
		return timer.Status{}, ErrUnknownTask
	}
	if !task.HasTimer() {
		return timer.Status{}, ErrNoTimer
	}
	tok, err := c.timers.Start(taskID, task.TimerSeconds)
	if err != nil {
		return timer.Status{}, err
	}
	return c.timers.Status(tok)
}

// Timers exposes the countdown manager for pause, resume, reset and stop.
func (c *Controller) Timers() *timer.Manager { return c.timers }

func (c *Controller) onTimerExpired(ctx context.Context, taskID string) {
	if _, err := c.CompleteTask(ctx, taskID); err != nil {
		c.logger.Warn(ctx, "timer expired for unknown task", logger.String("task", taskID), logger.Error(err))
	}
}
