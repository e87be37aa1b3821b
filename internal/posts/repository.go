package posts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostRepository persists post records.
type PostRepository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	GetByGUID(ctx context.Context, guid uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, postType, slug string) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
}

// MetaRepository is the per-post attribute store. UpsertMeta and DeleteMeta
// are each a single write.
type MetaRepository interface {
	GetMeta(ctx context.Context, postID int64, key string) (string, bool, error)
	UpsertMeta(ctx context.Context, postID int64, key, value string) error
	DeleteMeta(ctx context.Context, postID int64, key string) error
}

// FlaggedRepository answers flagged-content queries. Results are ordered by
// modification time, newest first, then by id.
type FlaggedRepository interface {
	FindFlagged(ctx context.Context, query FlaggedQuery) ([]int64, error)
}

// Store bundles the repositories backed by the same storage.
type Store interface {
	PostRepository
	MetaRepository
	FlaggedRepository
}

func validateQuery(query FlaggedQuery) error {
	if len(query.Types) == 0 {
		return ErrQueryTypes
	}
	if query.MetaKey == "" {
		return ErrMetaKeyRequired
	}
	return nil
}

func normalizeTime(ts time.Time) time.Time {
	return ts.UTC().Truncate(time.Second)
}
