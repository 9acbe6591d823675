// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the CLI drives the application.
package primary

import "context"

// VisitService defines the primary port for visit and mission operations.
type VisitService interface {
	// StartVisit creates a visit with one mission per applicable type.
	StartVisit(ctx context.Context, req StartVisitRequest) (*StartVisitResponse, error)

	// GetVisit retrieves a visit with its missions.
	GetVisit(ctx context.Context, visitID string) (*Visit, error)

	// ListVisits retrieves visits matching the given filters.
	ListVisits(ctx context.Context, filters VisitFilters) ([]*Visit, error)

	// AnswerMission replaces the raw answer of a mission.
	AnswerMission(ctx context.Context, req AnswerMissionRequest) (*Mission, error)

	// ToggleMission starts or pauses a mission.
	ToggleMission(ctx context.Context, visitID, missionType string) (*Mission, error)

	// FinishMission completes a mission, awarding its points.
	FinishMission(ctx context.Context, visitID, missionType string) (*FinishMissionResponse, error)

	// SubmitVisit queues the completed, unsubmitted missions for the backend.
	SubmitVisit(ctx context.Context, visitID string) (*SubmitVisitResponse, error)

	// ListSubmissions retrieves the queued submissions of a visit.
	ListSubmissions(ctx context.Context, visitID string) ([]*Submission, error)

	// CloseVisit ends a visit; its missions can no longer change.
	CloseVisit(ctx context.Context, visitID string) error
}

// StartVisitRequest contains parameters for starting a visit.
// Empty PlayerID/Team fall back to the configured defaults.
type StartVisitRequest struct {
	LocationID   string
	PlayerID     string
	Team         string
	MissionTypes []string
}

// StartVisitResponse contains the result of starting a visit.
type StartVisitResponse struct {
	VisitID string
	Visit   *Visit
}

// AnswerMissionRequest contains parameters for answering a mission.
// Data is YAML or JSON in the mission type's answer shape.
type AnswerMissionRequest struct {
	VisitID     string
	MissionType string
	Data        string
}

// FinishMissionResponse contains the result of finishing a mission.
type FinishMissionResponse struct {
	Mission         *Mission
	AlreadyFinished bool
	RemainingPoints int
	NextMission     string // type of the next open mission, empty when done
}

// SubmitVisitResponse contains the result of submitting a visit.
type SubmitVisitResponse struct {
	BatchID     string
	Submissions []*Submission
	VisitStatus string
}

// Visit represents a visit at the port boundary.
type Visit struct {
	ID              string
	LocationID      string
	PlayerID        string
	Team            string
	Status          string
	PointsCap       int
	EarnedPoints    int
	RemainingPoints int
	Missions        []*Mission
	CreatedAt       string
	SubmittedAt     string
	ClosedAt        string
}

// Mission represents a mission of a visit at the port boundary.
type Mission struct {
	Type           string
	Order          int
	Points         int
	State          string // "pending", "started", "completed"
	CurrentPoints  int
	ReceivedPoints int
	Valid          bool
	Outcome        string // JSON
	Submitted      bool
}

// VisitFilters contains filter options for querying visits.
type VisitFilters struct {
	LocationID string
	PlayerID   string
	Status     string
}

// Submission represents a queued backend payload at the port boundary.
type Submission struct {
	ID          string
	BatchID     string
	VisitID     string
	MissionType string
	Team        string
	Points      int
	Payload     string
	CreatedAt   string
}
