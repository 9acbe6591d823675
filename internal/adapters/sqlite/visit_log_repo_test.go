package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/veganaut/internal/adapters/sqlite"
	"github.com/example/veganaut/internal/ports/secondary"
)

func TestVisitLogRepository_CreateAndList(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewVisitLogRepository(testDB)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "VL-0001" {
		t.Errorf("expected VL-0001, got %s", id)
	}

	entries := []*secondary.VisitLogRecord{
		{ID: "VL-0001", VisitID: "VISIT-001", ActorID: "alice", EntityType: "visit", EntityID: "VISIT-001", Action: "create"},
		{ID: "VL-0002", VisitID: "VISIT-001", EntityType: "mission", EntityID: "visitBonus", Action: "update", FieldName: "completed", OldValue: "false", NewValue: "true"},
		{ID: "VL-0003", VisitID: "VISIT-002", ActorID: "bob", EntityType: "visit", EntityID: "VISIT-002", Action: "create"},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	id, _ = repo.GetNextID(ctx)
	if id != "VL-0004" {
		t.Errorf("expected VL-0004, got %s", id)
	}

	all, err := repo.List(ctx, secondary.VisitLogFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	// newest first; same-second entries fall back to ID order
	if all[0].ID != "VL-0003" {
		t.Errorf("expected VL-0003 first, got %s", all[0].ID)
	}

	byVisit, _ := repo.List(ctx, secondary.VisitLogFilters{VisitID: "VISIT-001"})
	if len(byVisit) != 2 {
		t.Errorf("expected 2 entries for VISIT-001, got %d", len(byVisit))
	}

	byActor, _ := repo.List(ctx, secondary.VisitLogFilters{ActorID: "bob"})
	if len(byActor) != 1 {
		t.Errorf("expected 1 entry for bob, got %d", len(byActor))
	}

	updates, _ := repo.List(ctx, secondary.VisitLogFilters{EntityType: "mission"})
	if len(updates) != 1 || updates[0].OldValue != "false" || updates[0].NewValue != "true" || updates[0].ActorID != "" {
		t.Errorf("unexpected mission entries %+v", updates)
	}

	byMission, _ := repo.List(ctx, secondary.VisitLogFilters{MissionType: "visitBonus"})
	if len(byMission) != 1 || byMission[0].ID != "VL-0002" {
		t.Errorf("expected only VL-0002 for visitBonus, got %+v", byMission)
	}

	byOtherMission, _ := repo.List(ctx, secondary.VisitLogFilters{VisitID: "VISIT-001", MissionType: "giveFeedback"})
	if len(byOtherMission) != 0 {
		t.Errorf("expected no giveFeedback entries, got %d", len(byOtherMission))
	}
}

func TestVisitLogRepository_PruneOlderThan(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewVisitLogRepository(testDB)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.VisitLogRecord{ID: "VL-0001", VisitID: "VISIT-001", EntityType: "visit", EntityID: "VISIT-001", Action: "create"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, &secondary.VisitLogRecord{ID: "VL-0002", VisitID: "VISIT-001", EntityType: "visit", EntityID: "VISIT-001", Action: "update"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := testDB.Exec("UPDATE visit_log SET created_at = datetime('now', '-40 days') WHERE id = 'VL-0001'"); err != nil {
		t.Fatalf("failed to age entry: %v", err)
	}

	count, err := repo.PruneOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PruneOlderThan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 pruned entry, got %d", count)
	}

	remaining, _ := repo.List(ctx, secondary.VisitLogFilters{})
	if len(remaining) != 1 || remaining[0].ID != "VL-0002" {
		t.Errorf("expected only VL-0002 left, got %d entries", len(remaining))
	}
}

func TestLogWriterAdapter_SkipsEntriesWithoutVisit(t *testing.T) {
	testDB := setupTestDB(t)
	logRepo := sqlite.NewVisitLogRepository(testDB)
	writer := sqlite.NewLogWriterAdapter(logRepo)
	ctx := actorContext()

	if err := writer.LogCreate(ctx, "", "visit", "VISIT-001"); err != nil {
		t.Fatalf("LogCreate failed: %v", err)
	}
	if err := writer.LogUpdate(ctx, "VISIT-001", "visit", "VISIT-001", "status", "active", "closed"); err != nil {
		t.Fatalf("LogUpdate failed: %v", err)
	}

	logs, _ := logRepo.List(ctx, secondary.VisitLogFilters{})
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(logs))
	}
	if logs[0].ActorID != "alice" || logs[0].FieldName != "status" || logs[0].NewValue != "closed" {
		t.Errorf("unexpected entry %+v", logs[0])
	}
}
