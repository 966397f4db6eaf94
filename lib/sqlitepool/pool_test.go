// Copyright 2026 The Supportdesk Authors
// SPDX-License-Identifier: Apache-2.0

package sqlitepool_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/supportdesk/supportdesk/lib/sqlitepool"
)

var migrations = []string{
	`CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL);`,
	`ALTER TABLE notes ADD COLUMN author TEXT NOT NULL DEFAULT '';`,
}

func openPool(t *testing.T, path string, migrations []string) *sqlitepool.Pool {
	t.Helper()
	pool, err := sqlitepool.Open(context.Background(), sqlitepool.Config{
		Path:       path,
		Migrations: migrations,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return pool
}

func queryText(t *testing.T, conn *sqlite.Conn, query string) string {
	t.Helper()
	var result string
	err := sqlitex.ExecuteTransient(conn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			result = stmt.ColumnText(0)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("%s: %v", query, err)
	}
	return result
}

func TestPragmas(t *testing.T) {
	pool := openPool(t, filepath.Join(t.TempDir(), "state.db"), nil)
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	defer pool.Put(conn)

	if mode := queryText(t, conn, "PRAGMA journal_mode"); mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	if keys := queryText(t, conn, "PRAGMA foreign_keys"); keys != "1" {
		t.Errorf("foreign_keys = %q, want 1", keys)
	}
}

func TestMigrationsApplyOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	pool := openPool(t, path, migrations[:1])
	if version, err := pool.SchemaVersion(ctx); err != nil || version != 1 {
		t.Fatalf("SchemaVersion = %d, %v; want 1", version, err)
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := sqlitex.Execute(conn, "INSERT INTO notes (body) VALUES (?)", &sqlitex.ExecOptions{
		Args: []any{"first"},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	pool.Put(conn)
	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening with an extra migration applies only the new one.
	pool = openPool(t, path, migrations)
	defer pool.Close()
	if version, err := pool.SchemaVersion(ctx); err != nil || version != 2 {
		t.Fatalf("SchemaVersion = %d, %v; want 2", version, err)
	}
	conn, err = pool.Take(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Put(conn)
	if body := queryText(t, conn, "SELECT body || '/' || author FROM notes"); body != "first/" {
		t.Errorf("row = %q, want data kept across migration", body)
	}
}

func TestNewerSchemaIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	pool := openPool(t, path, migrations)
	pool.Close()

	_, err := sqlitepool.Open(context.Background(), sqlitepool.Config{Path: path, Migrations: migrations[:1]})
	if err == nil || !strings.Contains(err.Error(), "newer than this build") {
		t.Errorf("Open with older migration list = %v", err)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	broken := []string{
		migrations[0],
		`CREATE TABLE extra (id INTEGER); THIS IS NOT SQL;`,
	}

	if _, err := sqlitepool.Open(ctx, sqlitepool.Config{Path: path, Migrations: broken}); err == nil {
		t.Fatal("Open with a broken migration succeeded")
	}

	pool := openPool(t, path, migrations[:1])
	defer pool.Close()
	if version, _ := pool.SchemaVersion(ctx); version != 1 {
		t.Errorf("SchemaVersion = %d, want 1 after failed second migration", version)
	}
	conn, err := pool.Take(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Put(conn)
	if count := queryText(t, conn, "SELECT count(*) FROM sqlite_master WHERE name = 'extra'"); count != "0" {
		t.Errorf("partial migration left table behind")
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := sqlitepool.Open(context.Background(), sqlitepool.Config{}); err == nil {
		t.Error("Open without Path succeeded")
	}
}
