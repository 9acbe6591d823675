// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

// ErrMissionConflict is returned by UpdateMission when the stored mission was
// completed by someone else, or completing it would overspend the visit's cap.
var ErrMissionConflict = errors.New("mission was changed by another session")

// VisitRepository defines the secondary port for visit persistence.
type VisitRepository interface {
	// Create persists a new visit together with its missions.
	Create(ctx context.Context, visit *VisitRecord, missions []*VisitMissionRecord) error

	// GetByID retrieves a visit by its ID.
	GetByID(ctx context.Context, id string) (*VisitRecord, error)

	// List retrieves visits matching the given filters.
	List(ctx context.Context, filters VisitFilters) ([]*VisitRecord, error)

	// UpdateStatus changes the status of a visit, stamping submitted/closed times.
	UpdateStatus(ctx context.Context, id, status string) error

	// GetNextID returns the next available visit ID.
	GetNextID(ctx context.Context) (string, error)

	// ListMissions retrieves the missions of a visit.
	ListMissions(ctx context.Context, visitID string) ([]*VisitMissionRecord, error)

	// UpdateMission stores the state of one mission of a visit. Only missions
	// still pending in storage are updated, and a completion must fit the
	// visit's points cap; otherwise ErrMissionConflict is returned.
	UpdateMission(ctx context.Context, mission *VisitMissionRecord) error
}

// VisitRecord represents a visit as stored in persistence.
type VisitRecord struct {
	ID          string
	LocationID  string
	PlayerID    string
	Team        string
	PointsCap   int
	Status      string
	CreatedAt   string
	UpdatedAt   string
	SubmittedAt string
	ClosedAt    string
}

// VisitFilters contains filter options for querying visits.
type VisitFilters struct {
	LocationID string
	PlayerID   string
	Status     string
	Limit      int
}

// VisitMissionRecord represents one mission of a visit as stored in persistence.
// Answer and FinalOutcome hold JSON; FinalOutcome is empty until completion.
type VisitMissionRecord struct {
	VisitID        string
	MissionType    string
	Answer         string
	Started        bool
	Completed      bool
	ReceivedPoints int
	FinalOutcome   string
	CompletedAt    string
	SubmittedAt    string
}

// SubmissionRepository defines the secondary port for the submission outbox.
type SubmissionRepository interface {
	// CreateBatch stores the submissions and marks their missions submitted,
	// all in one transaction.
	CreateBatch(ctx context.Context, submissions []*SubmissionRecord) error

	// ListByVisit retrieves the submissions of a visit, oldest first.
	ListByVisit(ctx context.Context, visitID string) ([]*SubmissionRecord, error)
}

// SubmissionRecord is one mission payload queued for the backend.
type SubmissionRecord struct {
	ID          string
	BatchID     string
	VisitID     string
	MissionType string
	Team        string
	Points      int
	Payload     string // JSON {type, outcome, points}
	CreatedAt   string
}
