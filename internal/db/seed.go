package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: one fresh
// visit, one half-done visit and one closed visit.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	visits := []struct {
		id, location, player, team, status string
		cap                                int
	}{
		{"VISIT-001", "LOC-kitchen-42", "alice", "team1", "active", 100},
		{"VISIT-002", "LOC-falafel-7", "alice", "team1", "active", 60},
		{"VISIT-003", "LOC-bakery-3", "bob", "team2", "closed", 100},
	}
	for _, v := range visits {
		if _, err := database.Exec(
			"INSERT INTO visits (id, location_id, player_id, team, points_cap, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			v.id, v.location, v.player, v.team, v.cap, v.status, now,
		); err != nil {
			return fmt.Errorf("seed visits: %w", err)
		}
	}

	allTypes := []string{
		"visitBonus", "hasOptions", "wantVegan", "whatOptions", "buyOptions",
		"rateOptions", "giveFeedback", "offerQuality", "effortValue",
	}
	initialAnswers := map[string]string{
		"visitBonus":   "{}",
		"hasOptions":   "{}",
		"wantVegan":    `{"builtin":{},"custom":[]}`,
		"whatOptions":  "[]",
		"buyOptions":   "{}",
		"rateOptions":  "{}",
		"giveFeedback": `""`,
		"offerQuality": "{}",
		"effortValue":  `""`,
	}
	for _, v := range visits {
		for _, mt := range allTypes {
			if _, err := database.Exec(
				"INSERT INTO visit_missions (visit_id, mission_type, answer) VALUES (?, ?, ?)",
				v.id, mt, initialAnswers[mt],
			); err != nil {
				return fmt.Errorf("seed visit missions: %w", err)
			}
		}
	}

	// VISIT-002: bonus finished, hasOptions answered and finished, wantVegan in progress
	progress := []struct {
		missionType, answer, outcome string
		started, completed           bool
		points                       int
	}{
		{"visitBonus", "{}", "true", false, true, 50},
		{"hasOptions", `{"first":"yes"}`, `"yes"`, true, true, 10},
		{"wantVegan", `{"builtin":{"vegan":true},"custom":[]}`, "", true, false, 0},
	}
	for _, p := range progress {
		var outcome, completedAt sql.NullString
		if p.completed {
			outcome = sql.NullString{String: p.outcome, Valid: true}
			completedAt = sql.NullString{String: now, Valid: true}
		}
		if _, err := database.Exec(
			"UPDATE visit_missions SET answer = ?, started = ?, completed = ?, received_points = ?, final_outcome = ?, completed_at = ? WHERE visit_id = 'VISIT-002' AND mission_type = ?",
			p.answer, p.started, p.completed, p.points, outcome, completedAt, p.missionType,
		); err != nil {
			return fmt.Errorf("seed mission progress: %w", err)
		}
	}

	if _, err := database.Exec(
		"UPDATE visits SET closed_at = ? WHERE id = 'VISIT-003'", now,
	); err != nil {
		return fmt.Errorf("seed closed visit: %w", err)
	}

	return nil
}
