package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/veganaut/internal/config"
	"github.com/example/veganaut/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var (
		player    string
		team      string
		pointsCap int
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize veganaut in the current directory",
		Long: `Write .veganaut/config.yaml in the current directory and create the
database with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pointsCap < 0 {
				return fmt.Errorf("--cap must not be negative")
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := &config.Config{
				PlayerID:     player,
				Team:         team,
				PointsCap:    pointsCap,
				StrictFinish: strict,
			}
			if err := config.SaveConfig(cwd, cfg); err != nil {
				return err
			}
			fmt.Printf("✓ Config written to %s\n", config.Path(cwd))

			resolved, err := config.Resolve(cwd)
			if err != nil {
				return err
			}
			db.SetPath(resolved.DBPath)
			if _, err := db.GetDB(); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			fmt.Printf("✓ Database initialized at %s\n", resolved.DBPath)

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  veganaut visit start <location>")
			fmt.Println("  veganaut mission types")

			return nil
		},
	}

	cmd.Flags().StringVar(&player, "player", "", "Player ID recorded on visits and log entries")
	cmd.Flags().StringVar(&team, "team", "", "Team that receives the points")
	cmd.Flags().IntVar(&pointsCap, "cap", 0, "Points cap per visit (default 100)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse to finish missions without a valid outcome")

	return cmd
}
