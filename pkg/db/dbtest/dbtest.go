// Package dbtest opens throwaway migrated stores for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelmondragon/counterpos/pkg/config"
	"github.com/angelmondragon/counterpos/pkg/db"
	"github.com/angelmondragon/counterpos/pkg/migrate"
)

// Open creates a store file under t.TempDir, applies the embedded migrations
// and closes the client when the test ends.
func Open(t testing.TB) *db.Client {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.db")
	dsn := config.BuildSQLiteDSN(path, 5*time.Second, "WAL", "NORMAL")

	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}

	if _, err := migrate.Up(context.Background(), sqlDB); err != nil {
		t.Fatalf("migrate store: %v", err)
	}

	client := db.NewFromGorm(conn, path)
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
