package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/veganaut/internal/cli"
	"github.com/example/veganaut/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "veganaut",
		Short:   "Veganaut - record location visits and their missions",
		Version: version.String(),
		Long: `Veganaut is a CLI for playing location visits: answer the missions of a
visit, collect points for your team within the visit's cap, and queue the
results for submission.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Name() == "init" {
				return
			}
			cli.DetectAndStoreActor()
		},
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.VisitCmd())
	rootCmd.AddCommand(cli.MissionCmd())
	rootCmd.AddCommand(cli.SubmissionCmd())
	rootCmd.AddCommand(cli.LogCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
