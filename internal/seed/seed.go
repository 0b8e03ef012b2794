// Package seed generates synthetic completion histories and renders the
// calendar grid as text. It backs the regrow-seed developer tool.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/model"
	"github.com/okian/regrow/internal/domain/streak"
	"github.com/okian/regrow/pkg/logger"
)

// maxCount is the upper bound of generated counter values.
const maxCount = 8

// Generator builds plausible protocol histories.
type Generator struct {
	catalog *catalog.Catalog
	rate    float64
	gapRate float64
	seed    uint64
	log     logger.Logger
}

// New returns a generator with a completion rate of 0.7, no gaps and seed 1.
func New(opts ...Option) *Generator {
	g := &Generator{
		catalog: catalog.Default(),
		rate:    0.7,
		seed:    1,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Get().Named("seed")
	}
	return g
}

// Record returns days of completion data ending at today. Each task is done
// with the configured rate; a day is left without a record with the gap
// rate. The same seed always yields the same record.
func (g *Generator) Record(today calendar.Date, days int) (model.CompletionRecord, error) {
	if days < 1 || days > calendar.ProtocolDays {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}
	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	start := today.AddDays(-(days - 1))

	record := make(model.CompletionRecord, days)
	for i := range days {
		d := start.AddDays(i)
		if rng.Float64() < g.gapRate {
			continue
		}
		day := model.DayCompletion{}
		for _, t := range g.catalog.All() {
			switch {
			case t.Counter:
				if n := rng.IntN(maxCount + 1); n > 0 {
					day[t.ID] = model.Count(float64(n))
				}
			case rng.Float64() < g.rate:
				day[t.ID] = model.Done(true)
			}
		}
		record[d] = day
	}
	return record, nil
}

// State returns an onboarded aggregate whose protocol started days-1 days
// before today, with a generated record and streaks consistent with it.
func (g *Generator) State(ctx context.Context, today calendar.Date, days int) (model.ProtocolState, error) {
	record, err := g.Record(today, days)
	if err != nil {
		return model.ProtocolState{}, err
	}
	s := model.DefaultState()
	s.User.OnboardingComplete = true
	s.User.StartDate = today.AddDays(-(days - 1))
	s.User.CommitmentLevel = "seeded"
	s.DailyData = record
	s.Streaks.Best = BestRun(record, s.User.StartDate, today, g.catalog.Size())
	s.Streaks = service.Recompute(g.catalog, &s, today)

	g.log.Info(ctx, "generated history",
		logger.String("start", s.User.StartDate.String()),
		logger.Int("days", len(record)),
		logger.Int("streak", s.Streaks.Current),
		logger.Int("best", s.Streaks.Best))
	return s, nil
}

// BestRun returns the longest run of qualifying days between from and to.
func BestRun(record model.CompletionRecord, from, to calendar.Date, full int) int {
	best, run := 0, 0
	for d := from; !d.After(to); d = d.AddDays(1) {
		day, ok := record.Day(d)
		if ok && streak.Qualifies(day, full) {
			run++
			best = max(best, run)
			continue
		}
		run = 0
	}
	return best
}
