package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/internal/runtimeconfig"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var ErrUnsupportedProvider = errors.New("storage: unsupported provider")

// Open connects to the configured database and wraps it with the matching
// bun dialect. The connection is verified with a ping.
func Open(ctx context.Context, cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	driver, err := driverFor(provider)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", provider, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", provider, err)
	}
	return Wrap(sqlDB, provider)
}

// Wrap attaches the bun dialect for provider to an existing connection.
func Wrap(sqlDB *sql.DB, provider string) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case runtimeconfig.StorageSQLite:
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case runtimeconfig.StoragePostgres:
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

func driverFor(provider string) (string, error) {
	switch provider {
	case runtimeconfig.StorageSQLite:
		return "sqlite3", nil
	case runtimeconfig.StoragePostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}

// EnsureSchema creates the post tables and indexes when missing. It never
// alters existing tables.
func EnsureSchema(ctx context.Context, db bun.IDB) error {
	for _, model := range []any{(*posts.Post)(nil), (*posts.Meta)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table: %w", err)
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
		unique  bool
	}{
		{(*posts.Meta)(nil), "post_meta_post_key_idx", []string{"post_id", "meta_key"}, true},
		{(*posts.Meta)(nil), "post_meta_key_value_idx", []string{"meta_key", "meta_value"}, false},
		{(*posts.Post)(nil), "posts_type_modified_idx", []string{"type", "modified_at"}, false},
		{(*posts.Post)(nil), "posts_guid_idx", []string{"guid"}, true},
		{(*posts.Post)(nil), "posts_parent_idx", []string{"parent_id"}, false},
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
