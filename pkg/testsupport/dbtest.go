package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/goliatone/go-anchorlink/internal/storage"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBCounter atomic.Int64

// NewSQLiteMemoryDB opens a private in-memory sqlite database. Each call gets
// its own named database so tests in the same package do not share rows.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("anchorlink_test_%d", memoryDBCounter.Add(1))
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunDB returns a bun handle over a fresh in-memory database with the post
// schema in place. The database is closed when the test ends.
func NewBunDB(tb testing.TB) *bun.DB {
	tb.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		tb.Fatalf("new sqlite db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = db.Close()
	})
	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		tb.Fatalf("ensure schema: %v", err)
	}
	return db
}
