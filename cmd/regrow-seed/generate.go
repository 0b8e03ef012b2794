package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/seed"
	"github.com/okian/regrow/pkg/logger"
	"github.com/spf13/cobra"
)

var errAlreadyOnboarded = errors.New("store already holds an onboarded protocol; pass --force to overwrite")

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var (
		days    int
		rate    float64
		gapRate float64
		rngSeed uint64
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a generated history ending today",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			repo, cfg, cleanup, err := openRepository(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if !force && repo.Load(ctx).User.Started() {
				return errAlreadyOnboarded
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			today := calendar.Of(time.Now().In(loc))

			g := seed.New(
				seed.WithRate(rate),
				seed.WithGapRate(gapRate),
				seed.WithSeed(rngSeed),
				seed.WithLogger(logger.Get().Named("seed")),
			)
			state, err := g.State(ctx, today, days)
			if err != nil {
				return err
			}
			if err := repo.Save(ctx, state); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seeded %d days from %s under %q\n", days, state.User.StartDate, repo.Key())
			fmt.Fprintf(out, "streak %d, best %d\n", state.Streaks.Current, state.Streaks.Best)
			return seed.WriteGrid(out, service.CalendarGrid(catalog.Default(), state.DailyData, state.User.StartDate, today))
		},
	}
	f := cmd.Flags()
	f.IntVar(&days, "days", 21, "protocol days to generate, today included (1-84)")
	f.Float64Var(&rate, "rate", 0.7, "probability that a task is done")
	f.Float64Var(&gapRate, "gaps", 0, "probability that a day has no record")
	f.Uint64Var(&rngSeed, "seed", uint64(time.Now().UnixNano()), "random seed")
	f.BoolVar(&force, "force", false, "overwrite an onboarded protocol")
	return cmd
}
