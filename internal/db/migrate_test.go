package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const ts = "2026-01-14T10:00:00Z"

func insertProject(t *testing.T, db *sql.DB, id, number string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, number, name, created_at, updated_at) VALUES (?, ?, 'Test', ?, ?)`,
		id, number, ts, ts)
	require.NoError(t, err)
}

func insertTask(t *testing.T, db *sql.DB, id, projectID string, number int, status string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tasks (id, project_id, number, title, status, created_at, updated_at)
		VALUES (?, ?, ?, 'Task', ?, ?, ?)`, id, projectID, number, status, ts, ts)
	require.NoError(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"projects", "item_sequences", "tasks", "rfis", "submittals", "milestones",
		"attachments", "floor_plans", "floor_plan_markers", "modules", "qc_records",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err := db.Exec(`INSERT INTO tasks (id, project_id, number, title, status, created_at, updated_at)
		VALUES ('t1', 'missing', 1, 'Orphan', 'Not Started', ?, ?)`, ts, ts)
	assert.Error(t, err, "task without a project should violate the foreign key")
}

func TestMigrate_ProjectManagerColumnAdded(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(projects)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "project_manager_id" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMigrate_ProjectConstraints(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-2041")

	_, err := db.Exec(`INSERT INTO projects (id, number, name, created_at, updated_at) VALUES ('p2', 'MB-2041', 'Dup', ?, ?)`, ts, ts)
	assert.Error(t, err, "project numbers are unique")

	_, err = db.Exec(`INSERT INTO projects (id, number, name, status, created_at, updated_at) VALUES ('p3', 'MB-2042', 'Bad', 'archived', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown project status")
}

func TestMigrate_ItemNumbersUniquePerProject(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-01")
	insertProject(t, db, "p2", "MB-02")

	insertTask(t, db, "t1", "p1", 1, "Not Started")
	insertTask(t, db, "t2", "p2", 1, "Not Started")

	_, err := db.Exec(`INSERT INTO tasks (id, project_id, number, title, status, created_at, updated_at)
		VALUES ('t3', 'p1', 1, 'Dup', 'Not Started', ?, ?)`, ts, ts)
	assert.Error(t, err)
}

func TestMigrate_AttachmentBindsToAtMostOneItem(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-01")
	insertTask(t, db, "t1", "p1", 1, "Not Started")
	_, err := db.Exec(`INSERT INTO rfis (id, project_id, number, title, status, created_at, updated_at)
		VALUES ('r1', 'p1', 1, 'RFI', 'Open', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO attachments (id, project_id, file_name, storage_path, created_at)
		VALUES ('a1', 'p1', 'site.jpg', 'projects/p1/general/x-site.jpg', ?)`, ts)
	assert.NoError(t, err, "project-level attachment")

	_, err = db.Exec(`INSERT INTO attachments (id, project_id, task_id, file_name, storage_path, created_at)
		VALUES ('a2', 'p1', 't1', 'wall.pdf', 'k', ?)`, ts)
	assert.NoError(t, err)

	_, err = db.Exec(`INSERT INTO attachments (id, project_id, task_id, rfi_id, file_name, storage_path, created_at)
		VALUES ('a3', 'p1', 't1', 'r1', 'both.pdf', 'k', ?)`, ts)
	assert.Error(t, err, "an attachment cannot bind to two items")
}

func TestMigrate_MarkerCoordinatesBounded(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-01")
	_, err := db.Exec(`INSERT INTO floor_plans (id, project_id, name, storage_path, created_at, updated_at)
		VALUES ('f1', 'p1', 'Level 1', 'k', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO floor_plan_markers (id, floor_plan_id, x, y, created_at) VALUES ('m1', 'f1', 0.5, 1.2, ?)`, ts)
	assert.Error(t, err)
}

func TestMigrate_LegacyTaskStatusesMapped(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-01")
	insertTask(t, db, "t1", "p1", 1, "On Hold")
	insertTask(t, db, "t2", "p1", 2, "Blocked")
	insertTask(t, db, "t3", "p1", 3, "In Progress")

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT id, status FROM tasks ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	got := map[string]string{}
	for rows.Next() {
		var id, status string
		require.NoError(t, rows.Scan(&id, &status))
		got[id] = status
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, map[string]string{
		"t1": "Awaiting Response",
		"t2": "Awaiting Response",
		"t3": "In Progress",
	}, got)
}

func TestMigrate_BackfillsItemSequences(t *testing.T) {
	db := openTestDB(t)
	insertProject(t, db, "p1", "MB-01")
	insertTask(t, db, "t1", "p1", 4, "Not Started")
	insertTask(t, db, "t2", "p1", 9, "Completed")

	require.NoError(t, Migrate(db))

	var next int
	require.NoError(t, db.QueryRow(`SELECT next_number FROM item_sequences WHERE project_id = 'p1' AND kind = 'task'`).Scan(&next))
	assert.Equal(t, 10, next)

	// An allocator that already moved past the data is not pulled back.
	_, err := db.Exec(`UPDATE item_sequences SET next_number = 20 WHERE project_id = 'p1' AND kind = 'task'`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.QueryRow(`SELECT next_number FROM item_sequences WHERE project_id = 'p1' AND kind = 'task'`).Scan(&next))
	assert.Equal(t, 20, next)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM item_sequences WHERE kind = 'rfi'`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpenDB_FileDatabaseUsesWAL(t *testing.T) {
	path := t.TempDir() + "/nested/modtrack.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
