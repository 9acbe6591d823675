package mission

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOutcome is returned by FinishValid when the current outcome
	// may not be submitted.
	ErrInvalidOutcome = errors.New("mission outcome is not valid")
	// ErrAnswerMismatch is returned when an answer of one variant is given to
	// a mission of another.
	ErrAnswerMismatch = errors.New("answer does not match mission type")
)

// Budget is the narrow view a mission has of its owning visit.
type Budget interface {
	// RemainingAvailablePoints returns the points the visit can still award.
	RemainingAvailablePoints() int

	// MissionFinished is called exactly once, when m becomes completed.
	MissionFinished(m *Mission)
}

// State is the lifecycle position of a mission.
type State string

const (
	StatePending   State = "pending"
	StateStarted   State = "started"
	StateCompleted State = "completed"
)

// Mission is one typed micro-task within a visit.
//
// Missions are not safe for concurrent use. Callers sharing a visit across
// goroutines must serialize every call on that visit's missions.
type Mission struct {
	answer Answer
	budget Budget

	started        bool
	completed      bool
	receivedPoints int
	finalOutcome   Outcome
}

// New creates a pending mission of type t drawing points from budget.
// A nil budget places no cap on the mission's points.
func New(t Type, budget Budget) (*Mission, error) {
	answer, err := NewAnswer(t)
	if err != nil {
		return nil, err
	}
	return &Mission{answer: answer, budget: budget}, nil
}

// Type returns the mission variant.
func (m *Mission) Type() Type {
	return m.answer.Type()
}

// Order returns the display priority of the mission.
func (m *Mission) Order() int {
	return m.Type().Order()
}

// Points returns the maximum number of points the mission can award.
func (m *Mission) Points() int {
	return m.Type().Points()
}

// Answer returns the current raw answer.
func (m *Mission) Answer() Answer {
	return m.answer
}

// SetAnswer replaces the raw answer. It is accepted after completion as
// well, but can no longer change the outcome or points.
func (m *Mission) SetAnswer(a Answer) error {
	if a == nil || a.Type() != m.Type() {
		return fmt.Errorf("%w: %s", ErrAnswerMismatch, m.Type())
	}
	m.answer = a
	return nil
}

// Started reports whether the participant has opened the mission.
func (m *Mission) Started() bool {
	return m.started
}

// Completed reports whether the mission has been finished.
func (m *Mission) Completed() bool {
	return m.completed
}

// State returns the lifecycle state.
func (m *Mission) State() State {
	switch {
	case m.completed:
		return StateCompleted
	case m.started:
		return StateStarted
	default:
		return StatePending
	}
}

// ReceivedPoints returns the awarded points; 0 until completed.
func (m *Mission) ReceivedPoints() int {
	return m.receivedPoints
}

// ToggleStarted flips the started flag. No-op once completed.
func (m *Mission) ToggleStarted() {
	if !m.completed {
		m.started = !m.started
	}
}

// Outcome returns the frozen outcome of a completed mission, or the outcome
// computed from the current answer otherwise.
func (m *Mission) Outcome() Outcome {
	if m.completed {
		return m.finalOutcome
	}
	return m.answer.outcome()
}

// HasValidOutcome reports whether the outcome may be submitted.
func (m *Mission) HasValidOutcome() bool {
	return m.answer.valid(m.Outcome())
}

// CurrentPoints returns the awarded points of a completed mission, or the
// points it would award if finished now.
func (m *Mission) CurrentPoints() int {
	if m.completed {
		return m.receivedPoints
	}
	points := m.Points()
	if m.budget == nil {
		return points
	}
	remaining := m.budget.RemainingAvailablePoints()
	if remaining < 0 {
		remaining = 0
	}
	return min(points, remaining)
}

// Finish completes the mission, freezing its outcome and points and
// notifying the budget owner. No-op if already completed. The outcome is
// not checked; see FinishValid.
func (m *Mission) Finish() {
	if m.completed {
		return
	}
	m.receivedPoints = m.CurrentPoints()
	m.finalOutcome = m.Outcome()
	m.completed = true

	if m.budget != nil {
		m.budget.MissionFinished(m)
	}
}

// FinishValid is Finish guarded by HasValidOutcome. Completed missions are
// left untouched and return nil.
func (m *Mission) FinishValid() error {
	if m.completed {
		return nil
	}
	if !m.HasValidOutcome() {
		return fmt.Errorf("%w: %s", ErrInvalidOutcome, m.Type())
	}
	m.Finish()
	return nil
}

// SubmissionRecord is the payload sent to the backend for one mission.
type SubmissionRecord struct {
	Type    Type           `json:"type"`
	Outcome Outcome        `json:"outcome"`
	Points  map[string]int `json:"points"`
}

// SubmissionRecord builds the backend payload, attributing the received
// points to team.
func (m *Mission) SubmissionRecord(team string) SubmissionRecord {
	return SubmissionRecord{
		Type:    m.Type(),
		Outcome: m.Outcome(),
		Points:  map[string]int{team: m.receivedPoints},
	}
}

// Snapshot is the full state of a mission, used to persist and restore it.
type Snapshot struct {
	Answer         Answer
	Started        bool
	Completed      bool
	ReceivedPoints int
	FinalOutcome   Outcome
}

// Snapshot captures the mission state.
func (m *Mission) Snapshot() Snapshot {
	return Snapshot{
		Answer:         m.answer,
		Started:        m.started,
		Completed:      m.completed,
		ReceivedPoints: m.receivedPoints,
		FinalOutcome:   m.finalOutcome,
	}
}

// Restore rebuilds a mission from a snapshot. The budget is not notified:
// a restored completed mission was already reported when it finished.
func Restore(s Snapshot, budget Budget) (*Mission, error) {
	if s.Answer == nil {
		return nil, fmt.Errorf("snapshot has no answer")
	}
	t := s.Answer.Type()
	if s.ReceivedPoints < 0 || s.ReceivedPoints > t.Points() {
		return nil, fmt.Errorf("%s: received points %d outside [0, %d]", t, s.ReceivedPoints, t.Points())
	}
	if !s.Completed && s.ReceivedPoints != 0 {
		return nil, fmt.Errorf("%s: pending mission cannot hold received points", t)
	}
	m := &Mission{
		answer:    s.Answer,
		budget:    budget,
		started:   s.Started,
		completed: s.Completed,
	}
	if s.Completed {
		m.receivedPoints = s.ReceivedPoints
		m.finalOutcome = s.FinalOutcome
	}
	return m, nil
}
