package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/database"
)

var (
	testDBOnce sync.Once
	testDB     *database.DB
	testDBErr  error
)

// NewTestDatabase connects to TEST_DATABASE_URL and migrates it once per
// test binary. Tests are skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database integration test")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = database.NewPostgreSQLDB(context.Background(), dsn)
		if testDBErr != nil {
			testDBErr = fmt.Errorf("failed to connect to test database: %w", testDBErr)
			return
		}
		testDBErr = database.MigrateUp(testDB)
	})
	if testDBErr != nil {
		t.Fatal(testDBErr)
	}

	TruncateAllTables(t, testDB)
	return testDB
}

// TruncateAllTables empties every table except departments, which keeps
// the seeded default row.
func TruncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()

	tables := []string{
		"webhook_logs",
		"refresh_tokens",
		"activity_reports",
		"attendances",
		"shifts",
		"employees",
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(context.Background(), query); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
