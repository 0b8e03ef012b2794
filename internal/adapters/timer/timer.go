// Package timer runs one-second countdowns for timed tasks.
//
// Every countdown is addressed by a Token. Pause, Reset and Stop cancel the
// pending tick before anything is rescheduled, so a countdown reaches zero
// and fires its expiry callback at most once.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/regrow/pkg/logger"
	"github.com/okian/regrow/pkg/metrics"
)

// Token identifies a countdown.
type Token string

// Ticker is the tick source of a running countdown.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewTickerFunc creates a ticker with the given period.
type NewTickerFunc func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// SystemTicker is the wall-clock tick source.
func SystemTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }

// ExpireFunc is called once when a countdown reaches zero.
type ExpireFunc func(ctx context.Context, taskID string)

// Status is a snapshot of a countdown.
type Status struct {
	Token     Token  `json:"token"`
	TaskID    string `json:"taskId"`
	Total     int    `json:"totalSeconds"`
	Remaining int    `json:"remainingSeconds"`
	Running   bool   `json:"running"`
}

type countdown struct {
	token     Token
	taskID    string
	total     int
	remaining int
	gen       uint64 // bumped on every cancel; stale ticks compare and bail
	running   bool
	ticker    Ticker
	cancel    chan struct{}
}

// Manager owns every countdown. At most one countdown exists per task.
type Manager struct {
	mu       sync.Mutex
	byToken  map[Token]*countdown
	byTask   map[string]Token
	onExpire ExpireFunc
	tick     NewTickerFunc
	interval time.Duration
	ctx      context.Context
	logger   logger.Logger
}

// New creates a manager that calls onExpire when a countdown finishes.
func New(onExpire ExpireFunc, opts ...Option) *Manager {
	m := &Manager{
		byToken:  make(map[Token]*countdown),
		byTask:   make(map[string]Token),
		onExpire: onExpire,
		tick:     SystemTicker,
		interval: time.Second,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.Get().Named("timer")
	}
	return m
}

// Start begins a countdown of seconds for taskID. An existing countdown for
// the same task is stopped first.
func (m *Manager) Start(taskID string, seconds int) (Token, error) {
	if seconds <= 0 {
		return "", ErrInvalidDuration
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byTask[taskID]; ok {
		m.removeLocked(m.byToken[old])
	}
	c := &countdown{
		token:     Token(uuid.NewString()),
		taskID:    taskID,
		total:     seconds,
		remaining: seconds,
	}
	m.byToken[c.token] = c
	m.byTask[taskID] = c.token
	m.scheduleLocked(c)
	metrics.RecordTimerEvent("start")
	m.logger.Debug(m.ctx, "timer started",
		logger.String("task", taskID), logger.String("token", string(c.token)), logger.Int("seconds", seconds))
	return c.token, nil
}

// Pause cancels the pending tick and keeps the remaining time.
func (m *Manager) Pause(token Token) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byToken[token]
	if !ok {
		return Status{}, ErrUnknownToken
	}
	if c.running {
		m.cancelLocked(c)
		metrics.RecordTimerEvent("pause")
	}
	return c.status(), nil
}

// Resume continues a paused countdown.
func (m *Manager) Resume(token Token) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byToken[token]
	if !ok {
		return Status{}, ErrUnknownToken
	}
	if !c.running {
		m.scheduleLocked(c)
		metrics.RecordTimerEvent("resume")
	}
	return c.status(), nil
}

// Reset cancels the pending tick and rewinds to the full duration. The
// countdown stays paused until resumed.
func (m *Manager) Reset(token Token) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byToken[token]
	if !ok {
		return Status{}, ErrUnknownToken
	}
	m.cancelLocked(c)
	c.remaining = c.total
	metrics.RecordTimerEvent("reset")
	return c.status(), nil
}

// Stop cancels and forgets the countdown.
func (m *Manager) Stop(token Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byToken[token]
	if !ok {
		return ErrUnknownToken
	}
	m.removeLocked(c)
	metrics.RecordTimerEvent("stop")
	return nil
}

// Status returns a snapshot of the countdown.
func (m *Manager) Status(token Token) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byToken[token]
	if !ok {
		return Status{}, ErrUnknownToken
	}
	return c.status(), nil
}

// List returns every live countdown.
func (m *Manager) List() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Status, 0, len(m.byToken))
	for _, c := range m.byToken {
		out = append(out, c.status())
	}
	return out
}

// Close stops every countdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byToken {
		m.removeLocked(c)
	}
}

func (c *countdown) status() Status {
	return Status{Token: c.token, TaskID: c.taskID, Total: c.total, Remaining: c.remaining, Running: c.running}
}

// scheduleLocked starts a ticker goroutine for c. mu must be held.
func (m *Manager) scheduleLocked(c *countdown) {
	c.gen++
	c.running = true
	c.ticker = m.tick(m.interval)
	c.cancel = make(chan struct{})
	go m.run(c, c.gen, c.ticker, c.cancel)
	m.updateActiveLocked()
}

// cancelLocked stops the pending tick. mu must be held.
func (m *Manager) cancelLocked(c *countdown) {
	if !c.running {
		return
	}
	c.gen++
	c.running = false
	c.ticker.Stop()
	close(c.cancel)
	c.ticker, c.cancel = nil, nil
	m.updateActiveLocked()
}

func (m *Manager) removeLocked(c *countdown) {
	m.cancelLocked(c)
	delete(m.byToken, c.token)
	if m.byTask[c.taskID] == c.token {
		delete(m.byTask, c.taskID)
	}
}

func (m *Manager) updateActiveLocked() {
	n := 0
	for _, c := range m.byToken {
		if c.running {
			n++
		}
	}
	metrics.UpdateTimersActive(n)
}

func (m *Manager) run(c *countdown, gen uint64, t Ticker, cancel <-chan struct{}) {
	for {
		select {
		case <-cancel:
			return
		case <-t.C():
			expired, live := m.applyTick(c, gen)
			if !live {
				return
			}
			if expired {
				metrics.RecordTimerEvent("expire")
				m.logger.Info(m.ctx, "timer finished", logger.String("task", c.taskID))
				if m.onExpire != nil {
					m.onExpire(m.ctx, c.taskID)
				}
				return
			}
		}
	}
}

// applyTick applies one tick. live is false when the tick belongs to a
// cancelled schedule.
func (m *Manager) applyTick(c *countdown, gen uint64) (expired, live bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.gen != gen || !c.running {
		return false, false
	}
	c.remaining--
	if c.remaining > 0 {
		return false, true
	}
	c.remaining = 0
	m.removeLocked(c)
	return true, true
}
