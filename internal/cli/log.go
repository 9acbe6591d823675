package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/veganaut/internal/ports/primary"
	"github.com/example/veganaut/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View visit activity logs",
	Long:  "View and prune the visit activity log (audit trail)",
}

var logTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent activity",
	Long:  "Show recent activity log entries (default 50)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		limit, _ := cmd.Flags().GetInt("limit")
		visitID, _ := cmd.Flags().GetString("visit")
		actorID, _ := cmd.Flags().GetString("actor")
		entityType, _ := cmd.Flags().GetString("type")
		missionType, _ := cmd.Flags().GetString("mission")
		follow, _ := cmd.Flags().GetBool("follow")
		out := cmd.OutOrStdout()

		if limit <= 0 {
			limit = 50
		}

		filters := primary.LogFilters{
			VisitID:     visitID,
			MissionType: missionType,
			ActorID:     actorID,
			EntityType:  entityType,
			Limit:       limit,
		}

		entries, err := wire.LogService().ListLogs(ctx, filters)
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}

		printLogEntries(out, entries)

		if !follow {
			return nil
		}

		// Entries come newest first; remember the newest one seen.
		var lastID string
		if len(entries) > 0 {
			lastID = entries[0].ID
		}

		for {
			time.Sleep(1 * time.Second)

			newEntries, err := wire.LogService().ListLogs(ctx, filters)
			if err != nil {
				fmt.Fprintf(out, "Error fetching logs: %v\n", err)
				continue
			}

			fresh := newerThan(newEntries, lastID)
			for i := len(fresh) - 1; i >= 0; i-- {
				printLogEntry(out, fresh[i])
			}
			if len(fresh) > 0 {
				lastID = fresh[0].ID
			}
		}
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show [visit-id]",
	Short: "Show activity for a visit",
	Long:  "Show the activity history of a visit (e.g., VISIT-001)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actorID, _ := cmd.Flags().GetString("actor")
		missionType, _ := cmd.Flags().GetString("mission")
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := wire.LogService().ListLogs(NewContext(), primary.LogFilters{
			VisitID:     args[0],
			MissionType: missionType,
			ActorID:     actorID,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}

		printLogEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var logFinishedCmd = &cobra.Command{
	Use:   "finished [visit-id]",
	Short: "Show who finished which mission of a visit",
	Long:  "Show the finished missions of a visit with actor, points and outcome, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		finished, err := wire.LogService().ListFinishedMissions(NewContext(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch finished missions: %w", err)
		}

		printFinishedMissions(cmd.OutOrStdout(), args[0], finished)
		return nil
	},
}

var logPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old log entries",
	Long:  "Delete log entries older than the specified number of days (default 30)",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		if days <= 0 {
			days = 30
		}

		count, err := wire.LogService().PruneLogs(NewContext(), days)
		if err != nil {
			return fmt.Errorf("failed to prune logs: %w", err)
		}

		if count == 0 {
			fmt.Printf("No log entries older than %d days found.\n", days)
		} else {
			fmt.Printf("Pruned %d log entries older than %d days.\n", count, days)
		}
		return nil
	},
}

// newerThan returns the leading entries up to, not including, lastID.
func newerThan(entries []*primary.LogEntry, lastID string) []*primary.LogEntry {
	if lastID == "" {
		return entries
	}
	for i, e := range entries {
		if e.ID == lastID {
			return entries[:i]
		}
	}
	return entries
}

func printFinishedMissions(out io.Writer, visitID string, finished []*primary.FinishedMission) {
	if len(finished) == 0 {
		fmt.Fprintf(out, "No finished missions in %s.\n", visitID)
		return
	}

	total := 0
	for _, f := range finished {
		actorStr := f.ActorID
		if actorStr == "" {
			actorStr = "-"
		}
		fmt.Fprintf(out, "%s | %-12s | %-13s | +%-3d | %s\n",
			formatTimestamp(f.FinishedAt), actorStr, f.MissionType, f.Points, f.Outcome)
		total += f.Points
	}
	fmt.Fprintf(out, "\n%d missions, %d points\n", len(finished), total)
}

func printLogEntries(out io.Writer, entries []*primary.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No log entries found.")
		return
	}

	fmt.Fprintf(out, "Found %d log entries:\n\n", len(entries))

	// Print in reverse order (oldest first) for tail view
	for i := len(entries) - 1; i >= 0; i-- {
		printLogEntry(out, entries[i])
	}
}

func printLogEntry(out io.Writer, entry *primary.LogEntry) {
	// Format: timestamp | actor | action | visit | entity_type/entity_id | field changes
	actorStr := entry.ActorID
	if actorStr == "" {
		actorStr = "-"
	}

	fmt.Fprintf(out, "%s | %-12s | %s %s | %s | %s/%s",
		formatTimestamp(entry.CreatedAt),
		actorStr,
		getActionIcon(entry.Action),
		entry.Action,
		entry.VisitID,
		entry.EntityType,
		entry.EntityID,
	)

	if entry.Action == "update" && entry.FieldName != "" {
		fmt.Fprintf(out, " | %s: %s -> %s", entry.FieldName, entry.OldValue, entry.NewValue)
	}

	fmt.Fprintln(out)
}

func getActionIcon(action string) string {
	switch action {
	case "create":
		return "+"
	case "update":
		return "~"
	default:
		return "?"
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// LogCmd returns the log command with all subcommands attached.
func LogCmd() *cobra.Command {
	// log tail
	logTailCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	logTailCmd.Flags().String("visit", "", "Filter by visit ID")
	logTailCmd.Flags().String("actor", "", "Filter by actor ID")
	logTailCmd.Flags().String("type", "", "Filter by entity type (visit, mission, submission)")
	logTailCmd.Flags().StringP("mission", "m", "", "Filter by mission type")
	logTailCmd.Flags().BoolP("follow", "f", false, "Follow mode: poll for new entries")

	// log show
	logShowCmd.Flags().String("actor", "", "Filter by actor ID")
	logShowCmd.Flags().StringP("mission", "m", "", "Filter by mission type")
	logShowCmd.Flags().IntP("limit", "n", 100, "Maximum entries to show")

	// log prune
	logPruneCmd.Flags().Int("days", 30, "Delete entries older than N days")

	logCmd.AddCommand(logTailCmd)
	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logFinishedCmd)
	logCmd.AddCommand(logPruneCmd)

	return logCmd
}
