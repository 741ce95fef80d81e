package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/tahirturgut/exchange/internal/database"
)

// SetupTestDB creates a migrated SQLite database in a temporary directory.
// A file is used rather than :memory: so that every pooled connection sees
// the same data and concurrent transactions contend for the same lock.
// The database is closed and removed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "exchange_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// InjectFault makes every statement of the given kind on table fail by
// installing a trigger that aborts it. event is INSERT, UPDATE or DELETE.
//
// Example usage:
//
//	testutil.InjectFault(t, db, "portfolio", "DELETE")
//	// any DELETE FROM portfolio now fails and rolls back its transaction
func InjectFault(t *testing.T, db *sql.DB, table, event string) {
	t.Helper()

	//#nosec G201 -- table and event are fixed by the calling test
	stmt := fmt.Sprintf(
		`CREATE TRIGGER fault_%[1]s_%[2]s BEFORE %[2]s ON "%[1]s" BEGIN SELECT RAISE(ABORT, 'injected fault'); END`,
		table, event,
	)
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("Failed to inject fault: %v", err)
	}
}

// CountRows returns the number of rows in table matching where (may be empty).
func CountRows(t *testing.T, db *sql.DB, table, where string, args ...any) int {
	t.Helper()

	//#nosec G202 -- table and predicate are fixed by the calling test
	query := `SELECT COUNT(*) FROM "` + table + `"`
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s rows: %v", table, err)
	}
	return n
}
