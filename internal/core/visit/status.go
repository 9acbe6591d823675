package visit

import (
	"fmt"
	"time"
)

// Status represents the possible states of a visit.
type Status string

const (
	StatusActive    Status = "active"
	StatusSubmitted Status = "submitted"
	StatusClosed    Status = "closed"
)

// InitialStatus returns the initial status for a new visit.
func InitialStatus() Status {
	return StatusActive
}

// IsOpen reports whether missions of a visit in this status may change.
func (s Status) IsOpen() bool {
	return s == StatusActive
}

// GenerateVisitID generates a visit ID from the current max number.
// The format is VISIT-XXX where XXX is a zero-padded 3-digit number.
func GenerateVisitID(currentMax int) string {
	return fmt.Sprintf("VISIT-%03d", currentMax+1)
}

// ParseVisitNumber extracts the numeric portion from a visit ID.
// Returns -1 if the ID format is invalid.
func ParseVisitNumber(id string) int {
	var num int
	_, err := fmt.Sscanf(id, "VISIT-%d", &num)
	if err != nil {
		return -1
	}
	return num
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SubmitContext provides context for visit submission guards.
type SubmitContext struct {
	VisitID        string
	Status         Status
	CompletedCount int
	PendingRecords int // completed missions not submitted yet
}

// CanSubmitVisit evaluates whether a visit has anything to submit.
// Rules:
// - Closed visits cannot be submitted
// - At least one completed mission must be waiting for submission
func CanSubmitVisit(ctx SubmitContext) GuardResult {
	if ctx.Status == StatusClosed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s is closed", ctx.VisitID),
		}
	}
	if ctx.CompletedCount == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s has no completed missions to submit", ctx.VisitID),
		}
	}
	if ctx.PendingRecords == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s has nothing new to submit", ctx.VisitID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanCloseVisit evaluates whether a visit can be closed.
// Rule: a visit can only be closed once.
func CanCloseVisit(visitID string, status Status) GuardResult {
	if status == StatusClosed {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("visit %s is already closed", visitID),
		}
	}
	return GuardResult{Allowed: true}
}

// StatusTransitionResult captures the new status and any timestamp the
// transition sets.
type StatusTransitionResult struct {
	NewStatus   Status
	SubmittedAt *time.Time
	ClosedAt    *time.Time
}

// ApplyStatusTransition applies a status transition and returns the result.
// The caller passes the current time to enable testing.
func ApplyStatusTransition(newStatus Status, now time.Time) StatusTransitionResult {
	result := StatusTransitionResult{NewStatus: newStatus}
	switch newStatus {
	case StatusSubmitted:
		result.SubmittedAt = &now
	case StatusClosed:
		result.ClosedAt = &now
	}
	return result
}
