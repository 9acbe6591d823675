package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/veganaut/internal/ports/primary"
	"github.com/example/veganaut/internal/wire"
)

var visitCmd = &cobra.Command{
	Use:   "visit",
	Short: "Manage location visits",
	Long:  "Start, inspect, submit and close visits to a location",
}

var visitStartCmd = &cobra.Command{
	Use:   "start [location-id]",
	Short: "Start a visit at a location",
	Long: `Start a visit at a location with one mission per type.

Examples:
  veganaut visit start LOC-42
  veganaut visit start LOC-42 --types visitBonus,giveFeedback --team team2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		types, _ := cmd.Flags().GetString("types")
		team, _ := cmd.Flags().GetString("team")

		var missionTypes []string
		if types != "" {
			for _, t := range strings.Split(types, ",") {
				if t = strings.TrimSpace(t); t != "" {
					missionTypes = append(missionTypes, t)
				}
			}
		}

		return wire.VisitAdapter().Start(NewContext(), args[0], GetActorID(), team, missionTypes)
	},
}

var visitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visits",
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		status, _ := cmd.Flags().GetString("status")
		player, _ := cmd.Flags().GetString("player")

		return wire.VisitAdapter().List(NewContext(), primary.VisitFilters{
			LocationID: location,
			PlayerID:   player,
			Status:     status,
		})
	},
}

var visitShowCmd = &cobra.Command{
	Use:   "show [visit-id]",
	Short: "Show visit details and missions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := wire.VisitAdapter().Show(NewContext(), args[0])
		return err
	},
}

var visitSubmitCmd = &cobra.Command{
	Use:   "submit [visit-id]",
	Short: "Queue completed missions for submission",
	Long: `Queue every completed mission that has not been submitted yet.

The visit becomes submitted once all of its missions are completed and queued.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.VisitAdapter().Submit(NewContext(), args[0])
	},
}

var visitCloseCmd = &cobra.Command{
	Use:   "close [visit-id]",
	Short: "Close a visit",
	Long:  "Close a visit. Its missions can no longer be answered or finished.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.VisitAdapter().Close(NewContext(), args[0])
	},
}

// VisitCmd returns the visit command
func VisitCmd() *cobra.Command {
	visitStartCmd.Flags().String("types", "", "Comma-separated mission types (default: all)")
	visitStartCmd.Flags().StringP("team", "t", "", "Team that receives the points (default: configured team)")
	visitListCmd.Flags().StringP("location", "l", "", "Filter by location ID")
	visitListCmd.Flags().StringP("status", "s", "", "Filter by status (active, submitted, closed)")
	visitListCmd.Flags().StringP("player", "p", "", "Filter by player ID")

	visitCmd.AddCommand(visitStartCmd)
	visitCmd.AddCommand(visitListCmd)
	visitCmd.AddCommand(visitShowCmd)
	visitCmd.AddCommand(visitSubmitCmd)
	visitCmd.AddCommand(visitCloseCmd)

	return visitCmd
}

var submissionCmd = &cobra.Command{
	Use:   "submission",
	Short: "Inspect queued submissions",
}

var submissionListCmd = &cobra.Command{
	Use:   "list [visit-id]",
	Short: "List the queued submissions of a visit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.VisitAdapter().Submissions(NewContext(), args[0]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return nil
	},
}

// SubmissionCmd returns the submission command
func SubmissionCmd() *cobra.Command {
	submissionCmd.AddCommand(submissionListCmd)
	return submissionCmd
}
