package sqlite_test

import (
	"testing"

	"github.com/example/veganaut/internal/adapters/sqlite"
	"github.com/example/veganaut/internal/ports/secondary"
)

func completeMission(t *testing.T, repo *sqlite.VisitRepository, visitID, missionType string, points int) {
	t.Helper()
	err := repo.UpdateMission(actorContext(), &secondary.VisitMissionRecord{
		VisitID:        visitID,
		MissionType:    missionType,
		Answer:         "null",
		Completed:      true,
		ReceivedPoints: points,
		FinalOutcome:   "true",
	})
	if err != nil {
		t.Fatalf("failed to complete mission: %v", err)
	}
}

func TestSubmissionRepository_CreateBatch(t *testing.T) {
	testDB := setupTestDB(t)
	visitRepo, submissionRepo, logRepo := newTestRepos(testDB)
	ctx := actorContext()
	seedVisit(t, visitRepo, "VISIT-001")
	completeMission(t, visitRepo, "VISIT-001", "visitBonus", 50)

	err := submissionRepo.CreateBatch(ctx, []*secondary.SubmissionRecord{{
		ID:          "sub-1",
		BatchID:     "batch-1",
		VisitID:     "VISIT-001",
		MissionType: "visitBonus",
		Team:        "team1",
		Points:      50,
		Payload:     `{"type":"visitBonus","outcome":true,"points":{"team1":50}}`,
	}})
	if err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}

	subs, err := submissionRepo.ListByVisit(ctx, "VISIT-001")
	if err != nil {
		t.Fatalf("ListByVisit failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].BatchID != "batch-1" || subs[0].Points != 50 || subs[0].CreatedAt == "" {
		t.Errorf("unexpected submission %+v", subs[0])
	}

	missions, _ := visitRepo.ListMissions(ctx, "VISIT-001")
	for _, m := range missions {
		submitted := m.SubmittedAt != ""
		if submitted != (m.MissionType == "visitBonus") {
			t.Errorf("mission %s submitted = %v", m.MissionType, submitted)
		}
	}

	logs, _ := logRepo.List(ctx, secondary.VisitLogFilters{EntityType: "submission"})
	if len(logs) != 1 || logs[0].EntityID != "sub-1" {
		t.Errorf("expected one submission log entry, got %d", len(logs))
	}
}

func TestSubmissionRepository_CreateBatchIsAtomic(t *testing.T) {
	testDB := setupTestDB(t)
	visitRepo, submissionRepo, _ := newTestRepos(testDB)
	ctx := actorContext()
	seedVisit(t, visitRepo, "VISIT-001")
	completeMission(t, visitRepo, "VISIT-001", "visitBonus", 50)

	// giveFeedback is not completed, so the whole batch must fail
	err := submissionRepo.CreateBatch(ctx, []*secondary.SubmissionRecord{
		{ID: "sub-1", BatchID: "batch-1", VisitID: "VISIT-001", MissionType: "visitBonus", Team: "team1", Points: 50, Payload: "{}"},
		{ID: "sub-2", BatchID: "batch-1", VisitID: "VISIT-001", MissionType: "giveFeedback", Team: "team1", Points: 20, Payload: "{}"},
	})
	if err == nil {
		t.Fatal("expected error for uncompleted mission")
	}

	subs, _ := submissionRepo.ListByVisit(ctx, "VISIT-001")
	if len(subs) != 0 {
		t.Errorf("expected no submissions after rollback, got %d", len(subs))
	}
	missions, _ := visitRepo.ListMissions(ctx, "VISIT-001")
	for _, m := range missions {
		if m.SubmittedAt != "" {
			t.Errorf("mission %s should not be marked submitted", m.MissionType)
		}
	}
}

func TestSubmissionRepository_RejectsDuplicateMission(t *testing.T) {
	testDB := setupTestDB(t)
	visitRepo, submissionRepo, _ := newTestRepos(testDB)
	ctx := actorContext()
	seedVisit(t, visitRepo, "VISIT-001")
	completeMission(t, visitRepo, "VISIT-001", "visitBonus", 50)

	batch := func(id string) []*secondary.SubmissionRecord {
		return []*secondary.SubmissionRecord{{ID: id, BatchID: id, VisitID: "VISIT-001", MissionType: "visitBonus", Team: "team1", Points: 50, Payload: "{}"}}
	}
	if err := submissionRepo.CreateBatch(ctx, batch("sub-1")); err != nil {
		t.Fatalf("CreateBatch failed: %v", err)
	}
	if err := submissionRepo.CreateBatch(ctx, batch("sub-2")); err == nil {
		t.Error("expected a mission to be submitted only once")
	}
}

func TestSubmissionRepository_EmptyBatch(t *testing.T) {
	testDB := setupTestDB(t)
	_, submissionRepo, _ := newTestRepos(testDB)

	if err := submissionRepo.CreateBatch(actorContext(), nil); err != nil {
		t.Errorf("expected empty batch to be a no-op, got %v", err)
	}
}
