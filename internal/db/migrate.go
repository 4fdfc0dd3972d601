package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Columns added by ALTER TABLE already exist on replay.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS deliverables (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL DEFAULT '',
		scope          TEXT NOT NULL DEFAULT '',
		fixed_hours    REAL NOT NULL DEFAULT 0 CHECK(fixed_hours >= 0),
		fixed_price    REAL NOT NULL DEFAULT 0 CHECK(fixed_price >= 0),
		point_estimate REAL NOT NULL DEFAULT 0 CHECK(point_estimate >= 0),
		active         INTEGER NOT NULL DEFAULT 1,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deliverables_active ON deliverables(active, category, name)`,

	`CREATE TABLE IF NOT EXISTS packages (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		slug        TEXT NOT NULL UNIQUE,
		tagline     TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		featured    INTEGER NOT NULL DEFAULT 0,
		sort_order  INTEGER NOT NULL DEFAULT 0,
		active      INTEGER NOT NULL DEFAULT 1,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS package_items (
		package_id     TEXT NOT NULL REFERENCES packages(id) ON DELETE CASCADE,
		deliverable_id TEXT NOT NULL REFERENCES deliverables(id) ON DELETE CASCADE,
		quantity       INTEGER NOT NULL DEFAULT 1 CHECK(quantity >= 1),
		sort_order     INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (package_id, deliverable_id)
	)`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL DEFAULT '',
		payload     TEXT NOT NULL,
		received_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id                TEXT PRIMARY KEY,
		title             TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'draft'
		                  CHECK(status IN ('draft','studio_review','sent','accepted','declined')),
		package_id        TEXT REFERENCES packages(id) ON DELETE SET NULL,
		submission_id     TEXT REFERENCES submissions(id) ON DELETE SET NULL,
		client_name       TEXT NOT NULL DEFAULT '',
		client_email      TEXT NOT NULL DEFAULT '',
		project_name      TEXT NOT NULL DEFAULT '',
		summary           TEXT NOT NULL DEFAULT '',
		total_points      REAL NOT NULL DEFAULT 0,
		total_hours       REAL NOT NULL DEFAULT 0,
		total_price       REAL NOT NULL DEFAULT 0,
		deliverable_count INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprints_submission ON sprints(submission_id)`,

	`CREATE TABLE IF NOT EXISTS sprint_lines (
		id                TEXT PRIMARY KEY,
		sprint_id         TEXT NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		deliverable_id    TEXT REFERENCES deliverables(id) ON DELETE SET NULL,
		name_snapshot     TEXT NOT NULL,
		category_snapshot TEXT NOT NULL DEFAULT '',
		scope_snapshot    TEXT NOT NULL DEFAULT '',
		base_points       REAL NOT NULL DEFAULT 0,
		base_hours        REAL NOT NULL DEFAULT 0,
		base_price        REAL NOT NULL DEFAULT 0,
		quantity          INTEGER NOT NULL DEFAULT 1 CHECK(quantity >= 1),
		complexity        REAL NOT NULL DEFAULT 1.0
		                  CHECK(complexity IN (0.75, 1.0, 1.5, 2.0)),
		custom_scope      TEXT NOT NULL DEFAULT '',
		notes             TEXT NOT NULL DEFAULT '',
		sort_order        INTEGER NOT NULL DEFAULT 0,
		custom_points     REAL NOT NULL DEFAULT 0,
		custom_hours      REAL NOT NULL DEFAULT 0,
		custom_price      REAL NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprint_lines_sprint ON sprint_lines(sprint_id, sort_order)`,

	`CREATE TABLE IF NOT EXISTS comp_plans (
		id              TEXT PRIMARY KEY,
		sprint_id       TEXT NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		is_deferred     INTEGER NOT NULL DEFAULT 0,
		upfront_payment REAL NOT NULL CHECK(upfront_payment >= 0 AND upfront_payment <= 1),
		upfront_timing  TEXT NOT NULL DEFAULT 'on_kickoff'
		                CHECK(upfront_timing IN ('on_signing','on_kickoff','net_15','net_30')),
		equity_split    REAL NOT NULL DEFAULT 0 CHECK(equity_split >= 0 AND equity_split <= 1),
		milestones_json TEXT NOT NULL DEFAULT '[]',
		miss_outcome    TEXT NOT NULL DEFAULT 'forgiven'
		                CHECK(miss_outcome IN ('forgiven','reduced-50','reduced-20','still-owed','renegotiate')),
		outputs_json    TEXT,
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_comp_plans_sprint ON comp_plans(sprint_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS proposal_runs (
		id                TEXT PRIMARY KEY,
		submission_id     TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		idempotency_key   TEXT NOT NULL UNIQUE,
		model             TEXT NOT NULL,
		status            TEXT NOT NULL DEFAULT 'pending'
		                  CHECK(status IN ('pending','succeeded','unusable','empty','failed')),
		raw_response      TEXT NOT NULL DEFAULT '',
		prompt_tokens     INTEGER NOT NULL DEFAULT 0,
		completion_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms        INTEGER NOT NULL DEFAULT 0,
		error             TEXT NOT NULL DEFAULT '',
		sprint_id         TEXT REFERENCES sprints(id) ON DELETE SET NULL,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_proposal_runs_submission ON proposal_runs(submission_id, created_at)`,
}
