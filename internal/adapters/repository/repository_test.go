package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/regrow/internal/adapters/repository"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type failingStore struct {
	repository.Store
	err error
}

func (f failingStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingStore) Put(context.Context, string, []byte) error  { return f.err }

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory store", t, func() {
		s := repository.NewMemoryStore()

		Convey("When reading a missing key", func() {
			_, err := s.Get(ctx, "k")

			Convey("Then it reports ErrNotFound", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a value is written and the caller mutates its buffer", func() {
			buf := []byte("abc")
			So(s.Put(ctx, "k", buf), ShouldBeNil)
			buf[0] = 'x'

			Convey("Then the stored value is unaffected", func() {
				v, err := s.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(string(v), ShouldEqual, "abc")
			})
		})

		Convey("When closed", func() {
			So(s.Close(), ShouldBeNil)

			Convey("Then calls fail with ErrClosed", func() {
				So(errors.Is(s.Put(ctx, "k", nil), repository.ErrClosed), ShouldBeTrue)
				_, err := s.Get(ctx, "k")
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
			})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a SQLite store in a temp dir", t, func() {
		path := filepath.Join(t.TempDir(), "nested", "regrow.db")
		s, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		Convey("When reading a missing key", func() {
			_, err := s.Get(ctx, "k")

			Convey("Then it reports ErrNotFound", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a key is written twice", func() {
			So(s.Put(ctx, "k", []byte(`{"a":1}`)), ShouldBeNil)
			So(s.Put(ctx, "k", []byte(`{"a":2}`)), ShouldBeNil)

			Convey("Then the last write wins", func() {
				v, err := s.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(string(v), ShouldEqual, `{"a":2}`)

				ts, err := s.UpdatedAt(ctx, "k")
				So(err, ShouldBeNil)
				So(ts.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the database is reopened", func() {
			So(s.Put(ctx, "k", []byte("v")), ShouldBeNil)
			So(s.Close(), ShouldBeNil)

			again, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer again.Close()

			Convey("Then the value survived", func() {
				v, err := again.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(string(v), ShouldEqual, "v")
			})
		})
	})

	Convey("Given the driver switch", t, func() {
		Convey("Then memory and sqlite open, anything else fails", func() {
			m, err := repository.Open(ctx, "memory", "")
			So(err, ShouldBeNil)
			So(m, ShouldHaveSameTypeAs, &repository.MemoryStore{})

			sq, err := repository.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "x.db"))
			So(err, ShouldBeNil)
			So(sq.Close(), ShouldBeNil)

			_, err = repository.Open(ctx, "postgres", "")
			So(errors.Is(err, repository.ErrUnknownDriver), ShouldBeTrue)
		})
	})
}

func TestStateRepository(t *testing.T) {
	ctx := context.Background()

	Convey("Given a state repository over an empty store", t, func() {
		store := repository.NewMemoryStore()
		repo := repository.NewStateRepository(store, repository.WithLogger(logger.Nop()))

		Convey("When nothing was saved", func() {
			Convey("Then Load returns the default state", func() {
				So(repo.Load(ctx), ShouldResemble, model.DefaultState())
				So(repo.Key(), ShouldEqual, "hairRegrowthData")
			})
		})

		Convey("When a state is saved", func() {
			state := model.DefaultState()
			state.User.OnboardingComplete = true
			state.User.StartDate = calendar.NewDate(2024, 1, 1)
			state.DailyData[state.User.StartDate] = model.DayCompletion{"sunlight": model.Done(true), "water": model.Count(5)}
			state.Streaks = model.StreakState{Current: 1, Best: 3}
			So(repo.Save(ctx, state), ShouldBeNil)

			Convey("Then Load returns it intact", func() {
				So(repo.Load(ctx), ShouldResemble, state)
			})

			Convey("And the blob uses the persisted layout", func() {
				raw, err := store.Get(ctx, "hairRegrowthData")
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"dailyData":{"2024-01-01":{"sunlight":true,"water":5}}`)
				So(string(raw), ShouldContainSubstring, `"startDate":"2024-01-01"`)
			})
		})

		Convey("When the blob is corrupt", func() {
			So(store.Put(ctx, "hairRegrowthData", []byte("{not json")), ShouldBeNil)

			Convey("Then Load falls back to defaults", func() {
				So(repo.Load(ctx), ShouldResemble, model.DefaultState())
			})
		})

		Convey("When a custom key is used", func() {
			custom := repository.NewStateRepository(store, repository.WithKey("other"), repository.WithLogger(logger.Nop()))
			So(custom.Save(ctx, model.DefaultState()), ShouldBeNil)

			Convey("Then the default key stays empty", func() {
				_, err := store.Get(ctx, "hairRegrowthData")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(custom.Key(), ShouldEqual, "other")
			})
		})
	})

	Convey("Given a store that always fails", t, func() {
		boom := errors.New("disk full")
		repo := repository.NewStateRepository(failingStore{err: boom}, repository.WithLogger(logger.Nop()))

		Convey("Then Load still returns defaults and Save wraps the error", func() {
			So(repo.Load(ctx), ShouldResemble, model.DefaultState())
			err := repo.Save(ctx, model.DefaultState())
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})
}
