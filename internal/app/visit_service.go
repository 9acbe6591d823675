// Package app contains the application layer - service implementations.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	coremission "github.com/example/veganaut/internal/core/mission"
	corevisit "github.com/example/veganaut/internal/core/visit"
	"github.com/example/veganaut/internal/ports/primary"
	"github.com/example/veganaut/internal/ports/secondary"
)

// VisitSettings holds the configured defaults of the visit service.
type VisitSettings struct {
	PointsCap     int
	StrictFinish  bool
	DefaultPlayer string
	DefaultTeam   string
}

// VisitServiceImpl implements the VisitService interface.
type VisitServiceImpl struct {
	visitRepo      secondary.VisitRepository
	submissionRepo secondary.SubmissionRepository
	settings       VisitSettings
	locks          *visitLocks
	newID          func() string
}

// NewVisitService creates a new VisitService with injected dependencies.
func NewVisitService(
	visitRepo secondary.VisitRepository,
	submissionRepo secondary.SubmissionRepository,
	settings VisitSettings,
) *VisitServiceImpl {
	if settings.PointsCap <= 0 {
		settings.PointsCap = corevisit.DefaultPointsCap
	}
	return &VisitServiceImpl{
		visitRepo:      visitRepo,
		submissionRepo: submissionRepo,
		settings:       settings,
		locks:          newVisitLocks(),
		newID:          uuid.NewString,
	}
}

// loadedVisit bundles the stored and in-memory views of one visit.
type loadedVisit struct {
	record   *secondary.VisitRecord
	visit    *corevisit.Visit
	missions map[coremission.Type]*secondary.VisitMissionRecord
}

func (l *loadedVisit) status() corevisit.Status {
	return corevisit.Status(l.record.Status)
}

// StartVisit creates a visit with one mission per applicable type.
func (s *VisitServiceImpl) StartVisit(ctx context.Context, req primary.StartVisitRequest) (*primary.StartVisitResponse, error) {
	locationID := strings.TrimSpace(req.LocationID)
	if locationID == "" {
		return nil, fmt.Errorf("location is required")
	}
	playerID := firstNonEmpty(req.PlayerID, s.settings.DefaultPlayer)
	team := firstNonEmpty(req.Team, s.settings.DefaultTeam)
	if team == "" {
		return nil, fmt.Errorf("team is required to attribute points (set one with: veganaut init --team <team>)")
	}

	types := make([]coremission.Type, 0, len(req.MissionTypes))
	for _, raw := range req.MissionTypes {
		t, err := coremission.ParseType(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}

	nextID, err := s.visitRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate visit ID: %w", err)
	}

	v, err := corevisit.New(corevisit.Params{
		ID:         nextID,
		LocationID: locationID,
		PlayerID:   playerID,
		Team:       team,
		PointsCap:  s.settings.PointsCap,
		Types:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build visit: %w", err)
	}

	record := &secondary.VisitRecord{
		ID:         nextID,
		LocationID: locationID,
		PlayerID:   playerID,
		Team:       team,
		PointsCap:  s.settings.PointsCap,
		Status:     string(corevisit.InitialStatus()),
	}
	missionRecords := make([]*secondary.VisitMissionRecord, 0, len(v.Missions()))
	for _, m := range v.Missions() {
		mr, err := missionToRecord(nextID, m, nil)
		if err != nil {
			return nil, err
		}
		missionRecords = append(missionRecords, mr)
	}

	if err := s.visitRepo.Create(ctx, record, missionRecords); err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	created, err := s.load(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created visit: %w", err)
	}
	return &primary.StartVisitResponse{
		VisitID: nextID,
		Visit:   s.visitToPort(created),
	}, nil
}

// GetVisit retrieves a visit with its missions.
func (s *VisitServiceImpl) GetVisit(ctx context.Context, visitID string) (*primary.Visit, error) {
	loaded, err := s.load(ctx, visitID)
	if err != nil {
		return nil, err
	}
	return s.visitToPort(loaded), nil
}

// ListVisits retrieves visits matching the given filters.
func (s *VisitServiceImpl) ListVisits(ctx context.Context, filters primary.VisitFilters) ([]*primary.Visit, error) {
	records, err := s.visitRepo.List(ctx, secondary.VisitFilters{
		LocationID: filters.LocationID,
		PlayerID:   filters.PlayerID,
		Status:     filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	visits := make([]*primary.Visit, 0, len(records))
	for _, r := range records {
		loaded, err := s.loadRecord(ctx, r)
		if err != nil {
			return nil, err
		}
		visits = append(visits, s.visitToPort(loaded))
	}
	return visits, nil
}

// AnswerMission replaces the raw answer of a mission.
func (s *VisitServiceImpl) AnswerMission(ctx context.Context, req primary.AnswerMissionRequest) (*primary.Mission, error) {
	unlock := s.locks.lock(req.VisitID)
	defer unlock()

	loaded, m, err := s.loadMission(ctx, req.VisitID, req.MissionType)
	if err != nil {
		return nil, err
	}

	guard := coremission.CanAnswerMission(coremission.MissionContext{
		VisitID:     req.VisitID,
		MissionType: m.Type(),
		VisitOpen:   loaded.status().IsOpen(),
		Completed:   m.Completed(),
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	answer, err := coremission.DecodeAnswer(m.Type(), []byte(req.Data))
	if err != nil {
		return nil, err
	}
	if result := coremission.CheckAnswer(answer); !result.Allowed {
		return nil, result.Error()
	}
	if err := m.SetAnswer(answer); err != nil {
		return nil, err
	}

	if err := s.saveMission(ctx, loaded, m); err != nil {
		return nil, err
	}
	return s.missionToPort(loaded, m), nil
}

// ToggleMission starts or pauses a mission.
func (s *VisitServiceImpl) ToggleMission(ctx context.Context, visitID, missionType string) (*primary.Mission, error) {
	unlock := s.locks.lock(visitID)
	defer unlock()

	loaded, m, err := s.loadMission(ctx, visitID, missionType)
	if err != nil {
		return nil, err
	}

	guard := coremission.CanToggleMission(coremission.MissionContext{
		VisitID:     visitID,
		MissionType: m.Type(),
		VisitOpen:   loaded.status().IsOpen(),
		Completed:   m.Completed(),
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	before := m.Started()
	m.ToggleStarted()
	if m.Started() != before {
		if err := s.saveMission(ctx, loaded, m); err != nil {
			return nil, err
		}
	}
	return s.missionToPort(loaded, m), nil
}

// FinishMission completes a mission, awarding its points.
func (s *VisitServiceImpl) FinishMission(ctx context.Context, visitID, missionType string) (*primary.FinishMissionResponse, error) {
	unlock := s.locks.lock(visitID)
	defer unlock()

	loaded, m, err := s.loadMission(ctx, visitID, missionType)
	if err != nil {
		return nil, err
	}

	guard := coremission.CanFinishMission(coremission.FinishContext{
		MissionContext: coremission.MissionContext{
			VisitID:     visitID,
			MissionType: m.Type(),
			VisitOpen:   loaded.status().IsOpen(),
			Completed:   m.Completed(),
		},
		HasValidOutcome: m.HasValidOutcome(),
		Strict:          s.settings.StrictFinish,
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	var finished []*coremission.Mission
	loaded.visit.OnMissionFinished(func(done *coremission.Mission) {
		finished = append(finished, done)
	})

	m.Finish()

	for _, done := range finished {
		if err := s.saveMission(ctx, loaded, done); err != nil {
			return nil, err
		}
	}

	resp := &primary.FinishMissionResponse{
		Mission:         s.missionToPort(loaded, m),
		AlreadyFinished: len(finished) == 0,
		RemainingPoints: loaded.visit.RemainingAvailablePoints(),
	}
	if next := loaded.visit.NextMission(); next != nil {
		resp.NextMission = string(next.Type())
	}
	return resp, nil
}

// SubmitVisit queues the completed, unsubmitted missions for the backend.
func (s *VisitServiceImpl) SubmitVisit(ctx context.Context, visitID string) (*primary.SubmitVisitResponse, error) {
	unlock := s.locks.lock(visitID)
	defer unlock()

	loaded, err := s.load(ctx, visitID)
	if err != nil {
		return nil, err
	}

	completed := 0
	pending := make(map[coremission.Type]bool)
	for t, mr := range loaded.missions {
		if mr.Completed {
			completed++
			if mr.SubmittedAt == "" {
				pending[t] = true
			}
		}
	}

	guard := corevisit.CanSubmitVisit(corevisit.SubmitContext{
		VisitID:        visitID,
		Status:         loaded.status(),
		CompletedCount: completed,
		PendingRecords: len(pending),
	})
	if !guard.Allowed {
		return nil, guard.Error()
	}

	batchID := s.newID()
	var records []*secondary.SubmissionRecord
	for _, payload := range loaded.visit.SubmissionRecords() {
		if !pending[payload.Type] {
			continue
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s submission: %w", payload.Type, err)
		}
		records = append(records, &secondary.SubmissionRecord{
			ID:          s.newID(),
			BatchID:     batchID,
			VisitID:     visitID,
			MissionType: string(payload.Type),
			Team:        loaded.visit.Team,
			Points:      payload.Points[loaded.visit.Team],
			Payload:     string(data),
		})
	}

	if err := s.submissionRepo.CreateBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to queue submissions: %w", err)
	}

	status := loaded.status()
	if loaded.visit.AllCompleted() && status != corevisit.StatusSubmitted {
		status = corevisit.ApplyStatusTransition(corevisit.StatusSubmitted, s.now()).NewStatus
		if err := s.visitRepo.UpdateStatus(ctx, visitID, string(status)); err != nil {
			return nil, fmt.Errorf("failed to mark visit submitted: %w", err)
		}
	}

	submissions := make([]*primary.Submission, len(records))
	for i, r := range records {
		submissions[i] = submissionToPort(r)
	}
	return &primary.SubmitVisitResponse{
		BatchID:     batchID,
		Submissions: submissions,
		VisitStatus: string(status),
	}, nil
}

// ListSubmissions retrieves the queued submissions of a visit.
func (s *VisitServiceImpl) ListSubmissions(ctx context.Context, visitID string) ([]*primary.Submission, error) {
	if _, err := s.visitRepo.GetByID(ctx, visitID); err != nil {
		return nil, err
	}
	records, err := s.submissionRepo.ListByVisit(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	submissions := make([]*primary.Submission, len(records))
	for i, r := range records {
		submissions[i] = submissionToPort(r)
	}
	return submissions, nil
}

// CloseVisit ends a visit; its missions can no longer change.
func (s *VisitServiceImpl) CloseVisit(ctx context.Context, visitID string) error {
	unlock := s.locks.lock(visitID)
	defer unlock()

	record, err := s.visitRepo.GetByID(ctx, visitID)
	if err != nil {
		return err
	}
	if result := corevisit.CanCloseVisit(visitID, corevisit.Status(record.Status)); !result.Allowed {
		return result.Error()
	}
	return s.visitRepo.UpdateStatus(ctx, visitID, string(corevisit.StatusClosed))
}

// Ensure VisitServiceImpl implements the interface.
var _ primary.VisitService = (*VisitServiceImpl)(nil)
