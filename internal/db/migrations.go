package db

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_visits_and_visit_missions",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_submissions_outbox",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_visit_log",
		Up:      migrationV3,
	},
}

func createVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}
	return runMigrations(db)
}

func runMigrations(db *sql.DB) error {
	if err := createVersionTable(db); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Printf("running migration %d: %s", migration.Version, migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the visit and per-mission state tables
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id TEXT PRIMARY KEY,
			location_id TEXT NOT NULL,
			player_id TEXT,
			team TEXT NOT NULL,
			points_cap INTEGER NOT NULL CHECK(points_cap >= 0),
			status TEXT NOT NULL CHECK(status IN ('active', 'submitted', 'closed')) DEFAULT 'active',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			submitted_at DATETIME,
			closed_at DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_visits_location ON visits(location_id);
		CREATE INDEX IF NOT EXISTS idx_visits_status ON visits(status);

		CREATE TABLE IF NOT EXISTS visit_missions (
			visit_id TEXT NOT NULL,
			mission_type TEXT NOT NULL CHECK(mission_type IN (
				'visitBonus', 'hasOptions', 'wantVegan', 'whatOptions', 'buyOptions',
				'rateOptions', 'giveFeedback', 'offerQuality', 'effortValue'
			)),
			answer TEXT NOT NULL DEFAULT 'null',
			started INTEGER NOT NULL DEFAULT 0,
			completed INTEGER NOT NULL DEFAULT 0,
			received_points INTEGER NOT NULL DEFAULT 0 CHECK(received_points >= 0),
			final_outcome TEXT,
			completed_at DATETIME,
			submitted_at DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (visit_id, mission_type),
			FOREIGN KEY (visit_id) REFERENCES visits(id) ON DELETE CASCADE
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create visit tables: %w", err)
	}
	return nil
}

// migrationV2 adds the submissions outbox
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			batch_id TEXT NOT NULL,
			visit_id TEXT NOT NULL,
			mission_type TEXT NOT NULL,
			team TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			payload TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (visit_id) REFERENCES visits(id) ON DELETE CASCADE,
			UNIQUE(visit_id, mission_type)
		);
		CREATE INDEX IF NOT EXISTS idx_submissions_visit ON submissions(visit_id);
		CREATE INDEX IF NOT EXISTS idx_submissions_batch ON submissions(batch_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create submissions table: %w", err)
	}
	return nil
}

// migrationV3 adds the visit audit log
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS visit_log (
			id TEXT PRIMARY KEY,
			visit_id TEXT NOT NULL,
			actor_id TEXT,
			entity_type TEXT NOT NULL CHECK(entity_type IN ('visit', 'mission', 'submission')),
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('create', 'update')),
			field_name TEXT,
			old_value TEXT,
			new_value TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_visit_log_visit ON visit_log(visit_id);
		CREATE INDEX IF NOT EXISTS idx_visit_log_created ON visit_log(created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create visit_log table: %w", err)
	}
	return nil
}
