package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	coremission "github.com/example/veganaut/internal/core/mission"
	corevisit "github.com/example/veganaut/internal/core/visit"
	"github.com/example/veganaut/internal/ports/primary"
	"github.com/example/veganaut/internal/ports/secondary"
)

// visitLocks serializes mutations per visit. Each visit gets its own mutex;
// the engine itself is not safe for concurrent use.
type visitLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newVisitLocks() *visitLocks {
	return &visitLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *visitLocks) lock(visitID string) func() {
	l.mu.Lock()
	m, ok := l.locks[visitID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[visitID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (s *VisitServiceImpl) now() time.Time {
	return time.Now()
}

// load reads a visit and its missions and rebuilds the in-memory visit.
func (s *VisitServiceImpl) load(ctx context.Context, visitID string) (*loadedVisit, error) {
	record, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	return s.loadRecord(ctx, record)
}

func (s *VisitServiceImpl) loadRecord(ctx context.Context, record *secondary.VisitRecord) (*loadedVisit, error) {
	missionRecords, err := s.visitRepo.ListMissions(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions of %s: %w", record.ID, err)
	}

	byType := make(map[coremission.Type]*secondary.VisitMissionRecord, len(missionRecords))
	snapshots := make([]coremission.Snapshot, 0, len(missionRecords))
	for _, mr := range missionRecords {
		snap, err := recordToSnapshot(mr)
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", record.ID, err)
		}
		byType[coremission.Type(mr.MissionType)] = mr
		snapshots = append(snapshots, snap)
	}

	v, err := corevisit.Restore(corevisit.Params{
		ID:         record.ID,
		LocationID: record.LocationID,
		PlayerID:   record.PlayerID,
		Team:       record.Team,
		PointsCap:  record.PointsCap,
	}, snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to restore visit %s: %w", record.ID, err)
	}

	return &loadedVisit{record: record, visit: v, missions: byType}, nil
}

// loadMission loads a visit and resolves one of its missions by type name.
func (s *VisitServiceImpl) loadMission(ctx context.Context, visitID, missionType string) (*loadedVisit, *coremission.Mission, error) {
	t, err := coremission.ParseType(missionType)
	if err != nil {
		return nil, nil, err
	}
	loaded, err := s.load(ctx, visitID)
	if err != nil {
		return nil, nil, err
	}
	m, err := loaded.visit.Mission(t)
	if err != nil {
		return nil, nil, err
	}
	return loaded, m, nil
}

// saveMission writes the mission state back, keeping the stored
// submission stamp.
func (s *VisitServiceImpl) saveMission(ctx context.Context, loaded *loadedVisit, m *coremission.Mission) error {
	record, err := missionToRecord(loaded.visit.ID, m, loaded.missions[m.Type()])
	if err != nil {
		return err
	}
	if err := s.visitRepo.UpdateMission(ctx, record); err != nil {
		return fmt.Errorf("failed to update mission %s: %w", m.Type(), err)
	}
	loaded.missions[m.Type()] = record
	return nil
}

func recordToSnapshot(mr *secondary.VisitMissionRecord) (coremission.Snapshot, error) {
	t, err := coremission.ParseType(mr.MissionType)
	if err != nil {
		return coremission.Snapshot{}, err
	}
	answer, err := coremission.DecodeAnswer(t, []byte(mr.Answer))
	if err != nil {
		return coremission.Snapshot{}, err
	}
	var outcome coremission.Outcome
	if mr.Completed {
		outcome, err = coremission.DecodeOutcome(t, []byte(mr.FinalOutcome))
		if err != nil {
			return coremission.Snapshot{}, err
		}
	}
	return coremission.Snapshot{
		Answer:         answer,
		Started:        mr.Started,
		Completed:      mr.Completed,
		ReceivedPoints: mr.ReceivedPoints,
		FinalOutcome:   outcome,
	}, nil
}

func missionToRecord(visitID string, m *coremission.Mission, previous *secondary.VisitMissionRecord) (*secondary.VisitMissionRecord, error) {
	snap := m.Snapshot()
	answer, err := coremission.EncodeAnswer(snap.Answer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s answer: %w", m.Type(), err)
	}
	record := &secondary.VisitMissionRecord{
		VisitID:        visitID,
		MissionType:    string(m.Type()),
		Answer:         string(answer),
		Started:        snap.Started,
		Completed:      snap.Completed,
		ReceivedPoints: snap.ReceivedPoints,
	}
	if snap.Completed {
		outcome, err := coremission.EncodeOutcome(snap.FinalOutcome)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s outcome: %w", m.Type(), err)
		}
		record.FinalOutcome = string(outcome)
	}
	if previous != nil {
		record.CompletedAt = previous.CompletedAt
		record.SubmittedAt = previous.SubmittedAt
	}
	return record, nil
}

func (s *VisitServiceImpl) visitToPort(l *loadedVisit) *primary.Visit {
	missions := l.visit.Missions()
	out := &primary.Visit{
		ID:              l.record.ID,
		LocationID:      l.record.LocationID,
		PlayerID:        l.record.PlayerID,
		Team:            l.record.Team,
		Status:          l.record.Status,
		PointsCap:       l.visit.PointsCap(),
		EarnedPoints:    l.visit.EarnedPoints(),
		RemainingPoints: l.visit.RemainingAvailablePoints(),
		Missions:        make([]*primary.Mission, len(missions)),
		CreatedAt:       l.record.CreatedAt,
		SubmittedAt:     l.record.SubmittedAt,
		ClosedAt:        l.record.ClosedAt,
	}
	for i, m := range missions {
		out.Missions[i] = s.missionToPort(l, m)
	}
	return out
}

func (s *VisitServiceImpl) missionToPort(l *loadedVisit, m *coremission.Mission) *primary.Mission {
	outcome, err := coremission.EncodeOutcome(m.Outcome())
	if err != nil {
		outcome = []byte("null")
	}
	out := &primary.Mission{
		Type:           string(m.Type()),
		Order:          m.Order(),
		Points:         m.Points(),
		State:          string(m.State()),
		CurrentPoints:  m.CurrentPoints(),
		ReceivedPoints: m.ReceivedPoints(),
		Valid:          m.HasValidOutcome(),
		Outcome:        string(outcome),
	}
	if mr, ok := l.missions[m.Type()]; ok {
		out.Submitted = mr.SubmittedAt != ""
	}
	return out
}

func submissionToPort(r *secondary.SubmissionRecord) *primary.Submission {
	return &primary.Submission{
		ID:          r.ID,
		BatchID:     r.BatchID,
		VisitID:     r.VisitID,
		MissionType: r.MissionType,
		Team:        r.Team,
		Points:      r.Points,
		Payload:     r.Payload,
		CreatedAt:   r.CreatedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
