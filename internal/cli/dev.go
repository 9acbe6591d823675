package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/veganaut/internal/config"
	"github.com/example/veganaut/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long: `Development utilities for working with a throwaway veganaut database.

These commands require VEGANAUT_DB_PATH to point at the dev database, so the
database configured for real visits is never touched by accident.`,
	}

	cmd.AddCommand(devResetCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds three visits (fresh, half done, closed)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := os.Getenv(config.EnvDBPath)
			if dbPath == "" {
				return fmt.Errorf("%s not set\n\nThis safety check prevents accidental reset of your visit database", config.EnvDBPath)
			}

			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			// Close any existing DB connection
			_ = db.Close()

			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			db.SetPath(dbPath)
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nDev database reset complete!")
			fmt.Println("\nSeeded visits:")
			fmt.Println("  - VISIT-001 fresh, 100 point cap")
			fmt.Println("  - VISIT-002 half done, cap of 60 reached")
			fmt.Println("  - VISIT-003 closed")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
