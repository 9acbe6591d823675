package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/veganaut/internal/ports/secondary"
)

// SubmissionRepository implements secondary.SubmissionRepository with SQLite.
type SubmissionRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewSubmissionRepository creates a new SQLite submission repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewSubmissionRepository(db *sql.DB, logWriter secondary.LogWriter) *SubmissionRepository {
	return &SubmissionRepository{db: db, logWriter: logWriter}
}

// CreateBatch stores the submissions and marks their missions submitted,
// all in one transaction.
func (r *SubmissionRepository) CreateBatch(ctx context.Context, submissions []*secondary.SubmissionRecord) error {
	if len(submissions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range submissions {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO submissions (id, batch_id, visit_id, mission_type, team, points, payload) VALUES (?, ?, ?, ?, ?, ?, ?)",
			s.ID, s.BatchID, s.VisitID, s.MissionType, s.Team, s.Points, s.Payload,
		)
		if err != nil {
			return fmt.Errorf("failed to create submission for %s: %w", s.MissionType, err)
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE visit_missions SET submitted_at = CURRENT_TIMESTAMP WHERE visit_id = ? AND mission_type = ? AND completed = 1",
			s.VisitID, s.MissionType,
		)
		if err != nil {
			return fmt.Errorf("failed to mark mission %s submitted: %w", s.MissionType, err)
		}
		if rowsAffected, _ := result.RowsAffected(); rowsAffected == 0 {
			return fmt.Errorf("mission %s of visit %s is not completed", s.MissionType, s.VisitID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submissions: %w", err)
	}

	// Log create operations
	if r.logWriter != nil {
		for _, s := range submissions {
			_ = r.logWriter.LogCreate(ctx, s.VisitID, "submission", s.ID)
		}
	}

	return nil
}

// ListByVisit retrieves the submissions of a visit, oldest first.
func (r *SubmissionRepository) ListByVisit(ctx context.Context, visitID string) ([]*secondary.SubmissionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, batch_id, visit_id, mission_type, team, points, payload, created_at FROM submissions WHERE visit_id = ? ORDER BY created_at ASC, rowid ASC",
		visitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*secondary.SubmissionRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.SubmissionRecord{}
		err := rows.Scan(&record.ID, &record.BatchID, &record.VisitID, &record.MissionType,
			&record.Team, &record.Points, &record.Payload, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		submissions = append(submissions, record)
	}

	return submissions, rows.Err()
}

// Ensure SubmissionRepository implements the interface.
var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)
