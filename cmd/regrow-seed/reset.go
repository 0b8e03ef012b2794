package main

import (
	"context"
	"fmt"

	"github.com/okian/regrow/internal/domain/model"
	"github.com/spf13/cobra"
)

func newResetCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Replace the stored protocol with a fresh install",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			repo, _, cleanup, err := openRepository(ctx, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := repo.Save(ctx, model.DefaultState()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %q\n", repo.Key())
			return nil
		},
	}
}
