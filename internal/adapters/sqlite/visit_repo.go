// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	corevisit "github.com/example/veganaut/internal/core/visit"
	"github.com/example/veganaut/internal/ports/secondary"
)

// VisitRepository implements secondary.VisitRepository with SQLite.
type VisitRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewVisitRepository creates a new SQLite visit repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewVisitRepository(db *sql.DB, logWriter secondary.LogWriter) *VisitRepository {
	return &VisitRepository{db: db, logWriter: logWriter}
}

// Create persists a new visit together with its missions.
func (r *VisitRepository) Create(ctx context.Context, visit *secondary.VisitRecord, missions []*secondary.VisitMissionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO visits (id, location_id, player_id, team, points_cap, status) VALUES (?, ?, ?, ?, ?, ?)",
		visit.ID, visit.LocationID, nullable(visit.PlayerID), visit.Team, visit.PointsCap, visit.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit: %w", err)
	}

	for _, m := range missions {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO visit_missions (visit_id, mission_type, answer, started, completed, received_points) VALUES (?, ?, ?, ?, ?, ?)",
			visit.ID, m.MissionType, m.Answer, m.Started, m.Completed, m.ReceivedPoints,
		)
		if err != nil {
			return fmt.Errorf("failed to create mission %s: %w", m.MissionType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visit: %w", err)
	}

	// Log create operation
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, visit.ID, "visit", visit.ID)
	}

	return nil
}

const visitColumns = "id, location_id, player_id, team, points_cap, status, created_at, updated_at, submitted_at, closed_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVisit(row rowScanner) (*secondary.VisitRecord, error) {
	var (
		playerID    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		submittedAt sql.NullTime
		closedAt    sql.NullTime
	)

	record := &secondary.VisitRecord{}
	err := row.Scan(&record.ID, &record.LocationID, &playerID, &record.Team, &record.PointsCap,
		&record.Status, &createdAt, &updatedAt, &submittedAt, &closedAt)
	if err != nil {
		return nil, err
	}

	record.PlayerID = playerID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	record.SubmittedAt = formatNullTime(submittedAt)
	record.ClosedAt = formatNullTime(closedAt)
	return record, nil
}

// GetByID retrieves a visit by its ID.
func (r *VisitRepository) GetByID(ctx context.Context, id string) (*secondary.VisitRecord, error) {
	record, err := scanVisit(r.db.QueryRowContext(ctx,
		"SELECT "+visitColumns+" FROM visits WHERE id = ?", id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visit %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return record, nil
}

// List retrieves visits matching the given filters, oldest first.
func (r *VisitRepository) List(ctx context.Context, filters secondary.VisitFilters) ([]*secondary.VisitRecord, error) {
	query := "SELECT " + visitColumns + " FROM visits WHERE 1=1"
	args := []any{}

	if filters.LocationID != "" {
		query += " AND location_id = ?"
		args = append(args, filters.LocationID)
	}

	if filters.PlayerID != "" {
		query += " AND player_id = ?"
		args = append(args, filters.PlayerID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY CAST(SUBSTR(id, 7) AS INTEGER) ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	defer rows.Close()

	var visits []*secondary.VisitRecord
	for rows.Next() {
		record, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, record)
	}

	return visits, rows.Err()
}

// UpdateStatus changes the status of a visit, stamping submitted/closed times.
func (r *VisitRepository) UpdateStatus(ctx context.Context, id, status string) error {
	old, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	query := "UPDATE visits SET status = ?, updated_at = CURRENT_TIMESTAMP"
	switch corevisit.Status(status) {
	case corevisit.StatusSubmitted:
		query += ", submitted_at = CURRENT_TIMESTAMP"
	case corevisit.StatusClosed:
		query += ", closed_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update visit status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("visit %s not found", id)
	}

	if r.logWriter != nil && old.Status != status {
		_ = r.logWriter.LogUpdate(ctx, id, "visit", id, "status", old.Status, status)
	}

	return nil
}

// GetNextID returns the next available visit ID.
// Uses core function for ID format to keep business logic in the functional core.
func (r *VisitRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 7) AS INTEGER)), 0) FROM visits",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next visit ID: %w", err)
	}

	return corevisit.GenerateVisitID(maxID), nil
}

const missionColumns = "visit_id, mission_type, answer, started, completed, received_points, final_outcome, completed_at, submitted_at"

func scanMission(row rowScanner) (*secondary.VisitMissionRecord, error) {
	var (
		finalOutcome sql.NullString
		completedAt  sql.NullTime
		submittedAt  sql.NullTime
	)

	record := &secondary.VisitMissionRecord{}
	err := row.Scan(&record.VisitID, &record.MissionType, &record.Answer, &record.Started,
		&record.Completed, &record.ReceivedPoints, &finalOutcome, &completedAt, &submittedAt)
	if err != nil {
		return nil, err
	}

	record.FinalOutcome = finalOutcome.String
	record.CompletedAt = formatNullTime(completedAt)
	record.SubmittedAt = formatNullTime(submittedAt)
	return record, nil
}

// ListMissions retrieves the missions of a visit.
func (r *VisitRepository) ListMissions(ctx context.Context, visitID string) ([]*secondary.VisitMissionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+missionColumns+" FROM visit_missions WHERE visit_id = ? ORDER BY mission_type",
		visitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*secondary.VisitMissionRecord
	for rows.Next() {
		record, err := scanMission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, record)
	}

	return missions, rows.Err()
}

func (r *VisitRepository) getMission(ctx context.Context, visitID, missionType string) (*secondary.VisitMissionRecord, error) {
	record, err := scanMission(r.db.QueryRowContext(ctx,
		"SELECT "+missionColumns+" FROM visit_missions WHERE visit_id = ? AND mission_type = ?",
		visitID, missionType,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mission %s of visit %s not found", missionType, visitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mission: %w", err)
	}
	return record, nil
}

// UpdateMission stores the state of one mission of a visit.
// completed_at is stamped when the mission is stored completed.
//
// The update only applies to a mission not yet completed in storage, and a
// completion only while the visit's earned points plus the new points stay
// within its cap. Both are checked by the UPDATE itself, so separate
// processes finishing missions of one visit cannot overspend the cap.
func (r *VisitRepository) UpdateMission(ctx context.Context, mission *secondary.VisitMissionRecord) error {
	old, err := r.getMission(ctx, mission.VisitID, mission.MissionType)
	if err != nil {
		return err
	}

	var finalOutcome sql.NullString
	if mission.Completed {
		finalOutcome = sql.NullString{String: mission.FinalOutcome, Valid: true}
	}

	query := "UPDATE visit_missions SET answer = ?, started = ?, completed = ?, received_points = ?, final_outcome = ?, updated_at = CURRENT_TIMESTAMP"
	if mission.Completed {
		query += ", completed_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE visit_id = ? AND mission_type = ? AND completed = 0"
	args := []any{
		mission.Answer, mission.Started, mission.Completed, mission.ReceivedPoints, finalOutcome,
		mission.VisitID, mission.MissionType,
	}
	if mission.Completed {
		query += ` AND (SELECT COALESCE(SUM(received_points), 0) FROM visit_missions WHERE visit_id = ? AND completed = 1) + ?
			<= (SELECT points_cap FROM visits WHERE id = ?)`
		args = append(args, mission.VisitID, mission.ReceivedPoints, mission.VisitID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update mission: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		if old.Completed {
			return fmt.Errorf("%w: %s of visit %s is already completed", secondary.ErrMissionConflict, mission.MissionType, mission.VisitID)
		}
		return fmt.Errorf("%w: %d points for %s exceed what is left of visit %s, reload and finish again",
			secondary.ErrMissionConflict, mission.ReceivedPoints, mission.MissionType, mission.VisitID)
	}

	if r.logWriter != nil {
		r.logMissionChanges(ctx, old, mission)
	}

	return nil
}

func (r *VisitRepository) logMissionChanges(ctx context.Context, old, updated *secondary.VisitMissionRecord) {
	changes := []struct {
		field    string
		old, new string
	}{
		{"answer", old.Answer, updated.Answer},
		{"started", strconv.FormatBool(old.Started), strconv.FormatBool(updated.Started)},
		{"completed", strconv.FormatBool(old.Completed), strconv.FormatBool(updated.Completed)},
		{"received_points", strconv.Itoa(old.ReceivedPoints), strconv.Itoa(updated.ReceivedPoints)},
		{"final_outcome", old.FinalOutcome, updated.FinalOutcome},
	}
	for _, c := range changes {
		if c.old != c.new {
			_ = r.logWriter.LogUpdate(ctx, updated.VisitID, "mission", updated.MissionType, c.field, c.old, c.new)
		}
	}
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Ensure VisitRepository implements the interface.
var _ secondary.VisitRepository = (*VisitRepository)(nil)
