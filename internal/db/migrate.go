package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement, then the data fixups. All steps
// are idempotent and run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN re-runs against tables that already
			// carry the column.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateLegacyTaskStatuses(db); err != nil {
		return fmt.Errorf("mapping legacy task statuses: %w", err)
	}
	if err := migrateBackfillItemSequences(db); err != nil {
		return fmt.Errorf("backfilling item number sequences: %w", err)
	}
	return nil
}

// ItemTables maps each work-item kind to its table.
var ItemTables = map[string]string{
	"task":      "tasks",
	"rfi":       "rfis",
	"submittal": "submittals",
	"milestone": "milestones",
}

// itemTableOrder fixes iteration order for the fixups.
var itemTableOrder = []string{"task", "rfi", "submittal", "milestone"}

// migrateLegacyTaskStatuses folds the retired task statuses into
// Awaiting Response.
func migrateLegacyTaskStatuses(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(),
		`UPDATE tasks SET status = 'Awaiting Response' WHERE status IN ('On Hold', 'Blocked')`)
	return err
}

// migrateBackfillItemSequences makes sure every (project, kind) pair that
// already has items has a sequence row at least one past its highest number.
func migrateBackfillItemSequences(db *sql.DB) error {
	ctx := context.Background()
	for _, kind := range itemTableOrder {
		query := `INSERT INTO item_sequences (project_id, kind, next_number)
			SELECT project_id, ?, MAX(number) + 1 FROM ` + ItemTables[kind] + `
			WHERE true
			GROUP BY project_id
			ON CONFLICT(project_id, kind) DO UPDATE
			SET next_number = MAX(item_sequences.next_number, excluded.next_number)`
		if _, err := db.ExecContext(ctx, query, kind); err != nil {
			return fmt.Errorf("backfilling %s sequences: %w", kind, err)
		}
	}
	return nil
}

// itemColumns are shared by every work-item table.
const itemColumns = `
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		number       INTEGER NOT NULL CHECK(number > 0),
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		priority     TEXT NOT NULL DEFAULT 'Medium'
		             CHECK(priority IN ('Low','Medium','High','Critical')),
		due_date     TEXT,
		assignee_id  TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		completed_at TEXT`

const recipientColumns = `
		recipient_kind     TEXT NOT NULL DEFAULT '',
		recipient_email    TEXT NOT NULL DEFAULT '',
		recipient_name     TEXT NOT NULL DEFAULT '',
		recipient_owner_id TEXT NOT NULL DEFAULT ''`

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                  TEXT PRIMARY KEY,
		number              TEXT NOT NULL,
		name                TEXT NOT NULL,
		client              TEXT NOT NULL DEFAULT '',
		factory             TEXT NOT NULL DEFAULT '',
		address             TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL DEFAULT 'Planning'
		                    CHECK(status IN ('Planning','Active','On Hold','Completed','Cancelled')),
		start_date          TEXT,
		target_offline_date TEXT,
		delivery_date       TEXT,
		target_online_date  TEXT,
		contract_value      TEXT NOT NULL DEFAULT '0',
		module_count        INTEGER NOT NULL DEFAULT 0 CHECK(module_count >= 0),
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_number ON projects(number)`,
	`ALTER TABLE projects ADD COLUMN project_manager_id TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS item_sequences (
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		kind        TEXT NOT NULL CHECK(kind IN ('task','rfi','submittal','milestone')),
		next_number INTEGER NOT NULL CHECK(next_number > 0),
		PRIMARY KEY (project_id, kind)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (` + itemColumns + `,
		UNIQUE(project_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS rfis (` + itemColumns + `,
		question TEXT NOT NULL DEFAULT '',
		answer   TEXT NOT NULL DEFAULT '',` + recipientColumns + `,
		UNIQUE(project_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS submittals (` + itemColumns + `,
		spec_section TEXT NOT NULL DEFAULT '',
		revision     INTEGER NOT NULL DEFAULT 0 CHECK(revision >= 0),` + recipientColumns + `,
		UNIQUE(project_id, number)
	)`,
	`CREATE TABLE IF NOT EXISTS milestones (` + itemColumns + `,
		UNIQUE(project_id, number)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rfis_project ON rfis(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rfis_assignee ON rfis(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submittals_project ON submittals(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_submittals_assignee ON submittals(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_milestones_assignee ON milestones(assignee_id)`,

	`CREATE TABLE IF NOT EXISTS attachments (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id      TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		rfi_id       TEXT REFERENCES rfis(id) ON DELETE CASCADE,
		submittal_id TEXT REFERENCES submittals(id) ON DELETE CASCADE,
		file_name    TEXT NOT NULL,
		storage_path TEXT NOT NULL,
		public_url   TEXT NOT NULL DEFAULT '',
		file_size    INTEGER NOT NULL DEFAULT 0,
		file_type    TEXT NOT NULL DEFAULT '',
		uploaded_by  TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		CHECK((task_id IS NOT NULL) + (rfi_id IS NOT NULL) + (submittal_id IS NOT NULL) <= 1)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_project ON attachments(project_id)`,

	`CREATE TABLE IF NOT EXISTS floor_plans (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		level        TEXT NOT NULL DEFAULT '',
		storage_path TEXT NOT NULL,
		public_url   TEXT NOT NULL DEFAULT '',
		file_type    TEXT NOT NULL DEFAULT '',
		is_active    INTEGER NOT NULL DEFAULT 1,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_floor_plans_project ON floor_plans(project_id)`,
	`CREATE TABLE IF NOT EXISTS floor_plan_markers (
		id            TEXT PRIMARY KEY,
		floor_plan_id TEXT NOT NULL REFERENCES floor_plans(id) ON DELETE CASCADE,
		x             REAL NOT NULL CHECK(x >= 0 AND x <= 1),
		y             REAL NOT NULL CHECK(y >= 0 AND y <= 1),
		label         TEXT NOT NULL DEFAULT '',
		item_kind     TEXT NOT NULL DEFAULT '',
		item_id       TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_markers_plan ON floor_plan_markers(floor_plan_id)`,

	`CREATE TABLE IF NOT EXISTS modules (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		tag        TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'Design'
		           CHECK(status IN ('Design','In Production','QC Hold','Complete','Shipped','Set')),
		station    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(project_id, tag)
	)`,
	`CREATE TABLE IF NOT EXISTS qc_records (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		module_id    TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		inspection   TEXT NOT NULL,
		result       TEXT NOT NULL CHECK(result IN ('Pass','Fail','Conditional')),
		inspector    TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		inspected_at TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_qc_records_module ON qc_records(module_id)`,
}
