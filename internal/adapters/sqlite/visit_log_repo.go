package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/veganaut/internal/ports/secondary"
)

const visitLogIDPrefix = "VL-"

// VisitLogRepository stores the audit trail of visits in the visit_log table.
type VisitLogRepository struct {
	db *sql.DB
}

// NewVisitLogRepository creates a new SQLite visit log repository.
func NewVisitLogRepository(db *sql.DB) *VisitLogRepository {
	return &VisitLogRepository{db: db}
}

// Create persists a new visit log entry. Empty optional fields are stored
// as NULL.
func (r *VisitLogRepository) Create(ctx context.Context, entry *secondary.VisitLogRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO visit_log (id, visit_id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.VisitID, nullable(entry.ActorID), entry.EntityType, entry.EntityID, entry.Action,
		nullable(entry.FieldName), nullable(entry.OldValue), nullable(entry.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create visit log entry for %s: %w", entry.VisitID, err)
	}
	return nil
}

// List retrieves log entries matching the given filters, newest first.
// A mission type filter narrows the trail to that mission's entries.
func (r *VisitLogRepository) List(ctx context.Context, filters secondary.VisitLogFilters) ([]*secondary.VisitLogRecord, error) {
	var (
		where []string
		args  []any
	)
	if filters.VisitID != "" {
		where = append(where, "visit_id = ?")
		args = append(args, filters.VisitID)
	}
	if filters.MissionType != "" {
		where = append(where, "entity_type = 'mission' AND entity_id = ?")
		args = append(args, filters.MissionType)
	}
	if filters.EntityType != "" {
		where = append(where, "entity_type = ?")
		args = append(args, filters.EntityType)
	}
	if filters.ActorID != "" {
		where = append(where, "actor_id = ?")
		args = append(args, filters.ActorID)
	}

	query := "SELECT id, visit_id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at FROM visit_log"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visit log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.VisitLogRecord
	for rows.Next() {
		entry, err := scanVisitLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanVisitLog(row rowScanner) (*secondary.VisitLogRecord, error) {
	var (
		actorID, fieldName, oldValue, newValue sql.NullString
		createdAt                              time.Time
	)
	entry := &secondary.VisitLogRecord{}
	err := row.Scan(&entry.ID, &entry.VisitID, &actorID, &entry.EntityType, &entry.EntityID,
		&entry.Action, &fieldName, &oldValue, &newValue, &createdAt)
	if err != nil {
		return nil, err
	}
	entry.ActorID = actorID.String
	entry.FieldName = fieldName.String
	entry.OldValue = oldValue.String
	entry.NewValue = newValue.String
	entry.CreatedAt = createdAt.Format(time.RFC3339)
	return entry, nil
}

// GetNextID returns the next available log ID (VL-NNNN).
func (r *VisitLogRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, ?) AS INTEGER)), 0) FROM visit_log",
		len(visitLogIDPrefix)+1,
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next visit log ID: %w", err)
	}
	return fmt.Sprintf("%s%04d", visitLogIDPrefix, maxID+1), nil
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *VisitLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM visit_log WHERE created_at < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune visit log: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure VisitLogRepository implements the interface
var _ secondary.VisitLogRepository = (*VisitLogRepository)(nil)
