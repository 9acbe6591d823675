package db

// SchemaSQL is the complete schema for fresh veganaut installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(), so a repository referencing a column that
// doesn't exist here fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Visits (one session of missions at a location)
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

-- Visit missions (one row per mission type of a visit)
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

-- Submissions (outbox of mission payloads for the backend)
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

-- Visit log (audit trail of visit and mission changes)
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
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Completely fresh install - create the schema directly
		if _, err := db.Exec(SchemaSQL); err != nil {
			return err
		}
		if err := createVersionTable(db); err != nil {
			return err
		}
		// Mark all migrations as applied for fresh installs
		for _, m := range migrations {
			if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
