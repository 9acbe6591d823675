package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity of a visit.
	LogCreate(ctx context.Context, visitID, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, visitID, entityType, entityID, fieldName, oldValue, newValue string) error
}

// VisitLogRepository defines the secondary port for visit log persistence.
type VisitLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, record *VisitLogRecord) error

	// List retrieves log entries matching the given filters, newest first.
	List(ctx context.Context, filters VisitLogFilters) ([]*VisitLogRecord, error)

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)

	// PruneOlderThan deletes entries older than the given number of days.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// VisitLogRecord represents a log entry as stored in persistence.
type VisitLogRecord struct {
	ID         string
	VisitID    string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  string
}

// VisitLogFilters contains filter options for querying log entries.
type VisitLogFilters struct {
	VisitID     string
	MissionType string // entries of that mission only
	EntityType  string
	ActorID     string
	Limit       int
}
