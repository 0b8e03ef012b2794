package timer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/regrow/internal/adapters/timer"
	"github.com/okian/regrow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeTicker struct {
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	f.stopped = true
	f.mu.Unlock()
}

func (f *fakeTicker) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fakeClock hands out tickers the test drives by hand.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (f *fakeClock) NewTicker(time.Duration) timer.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeClock) last() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

// tick delivers one tick, giving up if nobody is listening.
func (f *fakeTicker) tick() bool {
	select {
	case f.c <- time.Now():
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return cond()
}

func remaining(m *timer.Manager, tok timer.Token, want int) func() bool {
	return func() bool {
		st, err := m.Status(tok)
		return err == nil && st.Remaining == want
	}
}

func TestManager(t *testing.T) {
	Convey("Given a timer manager with a hand-driven clock", t, func() {
		clock := &fakeClock{}
		expired := make(chan string, 10)
		m := timer.New(func(_ context.Context, taskID string) { expired <- taskID },
			timer.WithTicker(clock.NewTicker), timer.WithLogger(logger.Nop()))
		Reset(m.Close)

		Convey("When a countdown is started", func() {
			tok, err := m.Start("scalp_massage", 3)
			So(err, ShouldBeNil)
			So(tok, ShouldNotBeEmpty)

			Convey("Then it reports its status", func() {
				st, err := m.Status(tok)
				So(err, ShouldBeNil)
				So(st, ShouldResemble, timer.Status{Token: tok, TaskID: "scalp_massage", Total: 3, Remaining: 3, Running: true})
			})

			Convey("And it expires exactly once after its last tick", func() {
				tk := clock.last()
				So(tk.tick(), ShouldBeTrue)
				So(tk.tick(), ShouldBeTrue)
				So(eventually(remaining(m, tok, 1)), ShouldBeTrue)
				So(tk.tick(), ShouldBeTrue)

				So(<-expired, ShouldEqual, "scalp_massage")
				So(tk.tick(), ShouldBeFalse)
				So(len(expired), ShouldEqual, 0)
				So(tk.isStopped(), ShouldBeTrue)

				_, err := m.Status(tok)
				So(errors.Is(err, timer.ErrUnknownToken), ShouldBeTrue)
			})

			Convey("And pausing cancels the pending tick before resuming", func() {
				first := clock.last()
				So(first.tick(), ShouldBeTrue)
				So(eventually(remaining(m, tok, 2)), ShouldBeTrue)

				st, err := m.Pause(tok)
				So(err, ShouldBeNil)
				So(st.Running, ShouldBeFalse)
				So(st.Remaining, ShouldEqual, 2)
				So(first.isStopped(), ShouldBeTrue)
				first.tick() // a late tick on the cancelled schedule is ignored
				So(eventually(remaining(m, tok, 2)), ShouldBeTrue)

				st, err = m.Resume(tok)
				So(err, ShouldBeNil)
				So(st.Running, ShouldBeTrue)
				second := clock.last()
				So(second, ShouldNotPointTo, first)
				So(second.tick(), ShouldBeTrue)
				So(second.tick(), ShouldBeTrue)
				So(<-expired, ShouldEqual, "scalp_massage")
			})

			Convey("And reset rewinds and leaves it paused", func() {
				tk := clock.last()
				So(tk.tick(), ShouldBeTrue)
				So(eventually(remaining(m, tok, 2)), ShouldBeTrue)

				st, err := m.Reset(tok)
				So(err, ShouldBeNil)
				So(st.Remaining, ShouldEqual, 3)
				So(st.Running, ShouldBeFalse)
				tk.tick()
				st, err = m.Status(tok)
				So(err, ShouldBeNil)
				So(st.Remaining, ShouldEqual, 3)
			})

			Convey("And stop forgets it without expiring", func() {
				tk := clock.last()
				So(m.Stop(tok), ShouldBeNil)
				So(tk.isStopped(), ShouldBeTrue)
				tk.tick()
				So(len(expired), ShouldEqual, 0)
				So(errors.Is(m.Stop(tok), timer.ErrUnknownToken), ShouldBeTrue)
			})

			Convey("And starting the same task again replaces the countdown", func() {
				old := clock.last()
				tok2, err := m.Start("scalp_massage", 5)
				So(err, ShouldBeNil)
				So(tok2, ShouldNotEqual, tok)
				So(old.isStopped(), ShouldBeTrue)
				So(len(m.List()), ShouldEqual, 1)

				_, err = m.Status(tok)
				So(errors.Is(err, timer.ErrUnknownToken), ShouldBeTrue)
			})
		})

		Convey("When the duration is not positive", func() {
			_, err := m.Start("x", 0)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, timer.ErrInvalidDuration), ShouldBeTrue)
			})
		})

		Convey("When an unknown token is used", func() {
			_, perr := m.Pause("nope")
			_, rerr := m.Resume("nope")
			_, xerr := m.Reset("nope")

			Convey("Then every call reports ErrUnknownToken", func() {
				So(errors.Is(perr, timer.ErrUnknownToken), ShouldBeTrue)
				So(errors.Is(rerr, timer.ErrUnknownToken), ShouldBeTrue)
				So(errors.Is(xerr, timer.ErrUnknownToken), ShouldBeTrue)
			})
		})
	})

	Convey("Given a manager on the real clock with a short interval", t, func() {
		done := make(chan string, 1)
		m := timer.New(func(_ context.Context, id string) { done <- id },
			timer.WithInterval(5*time.Millisecond), timer.WithLogger(logger.Nop()))
		defer m.Close()

		_, err := m.Start("hair_mask", 2)
		So(err, ShouldBeNil)

		Convey("Then the countdown finishes on its own", func() {
			select {
			case id := <-done:
				So(id, ShouldEqual, "hair_mask")
			case <-time.After(2 * time.Second):
				So("timer did not fire", ShouldBeEmpty)
			}
		})
	})
}
