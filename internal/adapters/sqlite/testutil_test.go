// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
// Do not hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/veganaut/internal/adapters/sqlite"
	"github.com/example/veganaut/internal/ctxutil"
	"github.com/example/veganaut/internal/db"
	"github.com/example/veganaut/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// every connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// newTestRepos wires the repositories the way the application does.
func newTestRepos(testDB *sql.DB) (*sqlite.VisitRepository, *sqlite.SubmissionRepository, *sqlite.VisitLogRepository) {
	logRepo := sqlite.NewVisitLogRepository(testDB)
	logWriter := sqlite.NewLogWriterAdapter(logRepo)
	return sqlite.NewVisitRepository(testDB, logWriter), sqlite.NewSubmissionRepository(testDB, logWriter), logRepo
}

func actorContext() context.Context {
	return ctxutil.WithActorID(context.Background(), "alice")
}

// seedVisit creates a visit with the given mission types through the repository.
func seedVisit(t *testing.T, repo *sqlite.VisitRepository, id string, missionTypes ...string) {
	t.Helper()
	if len(missionTypes) == 0 {
		missionTypes = []string{"visitBonus", "giveFeedback"}
	}

	missions := make([]*secondary.VisitMissionRecord, len(missionTypes))
	for i, mt := range missionTypes {
		missions[i] = &secondary.VisitMissionRecord{VisitID: id, MissionType: mt, Answer: "null"}
	}

	err := repo.Create(actorContext(), &secondary.VisitRecord{
		ID:         id,
		LocationID: "LOC-1",
		PlayerID:   "alice",
		Team:       "team1",
		PointsCap:  100,
		Status:     "active",
	}, missions)
	if err != nil {
		t.Fatalf("failed to seed visit: %v", err)
	}
}
