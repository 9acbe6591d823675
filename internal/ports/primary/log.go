package primary

import "context"

// LogService defines the primary port for the visit audit trail.
type LogService interface {
	// ListLogs retrieves log entries matching the given filters, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)

	// ListFinishedMissions rebuilds from the audit trail who finished which
	// mission of a visit, when, for how many points and with what outcome.
	ListFinishedMissions(ctx context.Context, visitID string) ([]*FinishedMission, error)

	// PruneLogs deletes log entries older than the specified number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// LogEntry is one change of a visit, mission or submission.
type LogEntry struct {
	ID         string
	VisitID    string
	ActorID    string
	EntityType string // "visit", "mission", "submission"
	EntityID   string // visit ID, mission type or submission ID
	Action     string // "create", "update"
	FieldName  string // updates only
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// FinishedMission summarizes the completion of one mission.
type FinishedMission struct {
	MissionType string
	ActorID     string
	Points      int
	Outcome     string // JSON
	FinishedAt  string
}

// LogFilters contains filter options for querying logs.
type LogFilters struct {
	VisitID     string
	MissionType string
	EntityType  string
	ActorID     string
	Limit       int
}
