// Command regrow-seed writes synthetic protocol histories into the local
// store and prints the calendar grid. It is a development aid.
package main

import (
	"fmt"
	"os"

	"github.com/okian/regrow/pkg/logger"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type globalFlags struct {
	driver  string
	path    string
	key     string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "regrow-seed",
		Short:         "Seed and inspect regrow protocol data",
		Long:          "regrow-seed writes generated completion histories into the regrow store and renders the 12-week grid.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if flags.verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.driver, "driver", "", "store driver: sqlite or memory (default from config)")
	pf.StringVar(&flags.path, "path", "", "SQLite database file (default from config)")
	pf.StringVar(&flags.key, "key", "", "state key (default from config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newGenerateCmd(flags),
		newGridCmd(flags),
		newResetCmd(flags),
	)
	return cmd
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging: "+err.Error())
		os.Exit(1)
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
