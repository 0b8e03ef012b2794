package main

import (
	"context"
	"fmt"
	"time"

	service "github.com/okian/regrow/internal/app"
	"github.com/okian/regrow/internal/domain/calendar"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/seed"
	"github.com/spf13/cobra"
)

func newGridCmd(flags *globalFlags) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the 12-week calendar of the stored protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			repo, cfg, cleanup, err := openRepository(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			today := calendar.Of(time.Now().In(loc))
			if at != "" {
				if today, err = calendar.Parse(at); err != nil {
					return err
				}
			}

			state := repo.Load(ctx)
			info := service.DeriveDay(&state, today)
			out := cmd.OutOrStdout()
			if info.Started() {
				fmt.Fprintf(out, "day %d, week %d, month %d, streak %d (best %d)\n",
					info.DayNumber, info.WeekNumber, info.MonthNumber, state.Streaks.Current, state.Streaks.Best)
			}
			start := state.User.StartDate
			if !state.User.Started() {
				start = calendar.Date{}
			}
			return seed.WriteGrid(out, service.CalendarGrid(catalog.Default(), state.DailyData, start, today))
		},
	}
	cmd.Flags().StringVar(&at, "today", "", "render as of this date (YYYY-MM-DD)")
	return cmd
}
