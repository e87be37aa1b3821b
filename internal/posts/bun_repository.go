package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewPostRepository returns the generic repository for posts keyed by GUID.
func NewPostRepository(db *bun.DB) repository.Repository[*Post] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(post *Post) uuid.UUID {
			return post.GUID
		},
		SetID: func(post *Post, id uuid.UUID) {
			post.GUID = id
		},
		GetIdentifier: func() string {
			return "guid"
		},
		GetIdentifierValue: func(post *Post) string {
			return post.GUID.String()
		},
	})
}

// BunStore implements Store on top of bun. GUID and slug lookups go through
// the generic repository (optionally cached); writes, listings and the
// flagged query use bun directly.
type BunStore struct {
	db   *bun.DB
	repo repository.Repository[*Post]
}

var _ Store = (*BunStore)(nil)

// NewBunStore creates a store without caching.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache creates a store with caching support for GUID lookups.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStore {
	base := NewPostRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunStore{db: db, repo: base}
}

func (s *BunStore) Create(ctx context.Context, post *Post) (*Post, error) {
	record := clonePost(post)
	if record.GUID == uuid.Nil {
		record.GUID = uuid.New()
	}
	record.CreatedAt = normalizeTime(record.CreatedAt)
	record.ModifiedAt = normalizeTime(record.ModifiedAt)
	if _, err := s.db.NewInsert().Model(record).Returning("id").Exec(ctx); err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return record, nil
}

func (s *BunStore) Update(ctx context.Context, post *Post) (*Post, error) {
	record := clonePost(post)
	record.CreatedAt = normalizeTime(record.CreatedAt)
	record.ModifiedAt = normalizeTime(record.ModifiedAt)
	res, err := s.db.NewUpdate().
		Model(record).
		Column("type", "status", "title", "slug", "content", "parent_id", "modified_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, &NotFoundError{Resource: "post", Key: strconv.FormatInt(record.ID, 10)}
	}
	return record, nil
}

func (s *BunStore) GetByID(ctx context.Context, id int64) (*Post, error) {
	record := &Post{}
	err := s.db.NewSelect().Model(record).Where("?TableAlias.id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, mapStoreError(err, "post", strconv.FormatInt(id, 10))
	}
	return record, nil
}

func (s *BunStore) GetByGUID(ctx context.Context, guid uuid.UUID) (*Post, error) {
	record, err := s.repo.GetByIdentifier(ctx, guid.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", guid.String())
	}
	return record, nil
}

func (s *BunStore) GetBySlug(ctx context.Context, postType, slug string) (*Post, error) {
	records, _, err := s.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.type = ?", postType).
				Where("?TableAlias.slug = ?", slug).
				OrderExpr("?TableAlias.id ASC")
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slug)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Resource: "post", Key: slug}
	}
	return records[0], nil
}

func (s *BunStore) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	records := make([]*Post, 0)
	q := s.db.NewSelect().Model(&records)
	if len(opts.Types) > 0 {
		q = q.Where("?TableAlias.type IN (?)", bun.In(opts.Types))
	}
	if opts.Parent != nil {
		q = q.Where("?TableAlias.parent_id = ?", *opts.Parent)
	}
	if err := q.OrderExpr("?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("post repository error: %w", err)
	}
	return records, nil
}

func (s *BunStore) GetMeta(ctx context.Context, postID int64, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrMetaKeyRequired
	}
	record := &Meta{}
	err := s.db.NewSelect().
		Model(record).
		Where("?TableAlias.post_id = ?", postID).
		Where("?TableAlias.meta_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("meta repository error: %w", err)
	}
	return record.Value, true, nil
}

// UpsertMeta writes the value with a single insert-or-update statement.
func (s *BunStore) UpsertMeta(ctx context.Context, postID int64, key, value string) error {
	if key == "" {
		return ErrMetaKeyRequired
	}
	record := &Meta{PostID: postID, Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (post_id, meta_key) DO UPDATE").
		Set("meta_value = EXCLUDED.meta_value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("meta repository error: %w", err)
	}
	return nil
}

func (s *BunStore) DeleteMeta(ctx context.Context, postID int64, key string) error {
	if key == "" {
		return ErrMetaKeyRequired
	}
	_, err := s.db.NewDelete().
		Model((*Meta)(nil)).
		Where("post_id = ?", postID).
		Where("meta_key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("meta repository error: %w", err)
	}
	return nil
}

// FindFlagged runs a single select joining posts to post_meta. Bounds are
// compared in UTC at second precision, matching how timestamps are persisted.
func (s *BunStore) FindFlagged(ctx context.Context, query FlaggedQuery) ([]int64, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	q := s.db.NewSelect().
		Model((*Post)(nil)).
		Column("p.id").
		Join("JOIN post_meta AS pm ON pm.post_id = p.id").
		Where("pm.meta_key = ?", query.MetaKey).
		Where("pm.meta_value = ?", query.MetaValue).
		Where("p.type IN (?)", bun.In(query.Types)).
		Where("p.modified_at >= ?", normalizeTime(query.After)).
		Where("p.modified_at <= ?", normalizeTime(query.Before))
	if len(query.Statuses) > 0 {
		q = q.Where("p.status IN (?)", bun.In(query.Statuses))
	}

	ids := make([]int64, 0)
	if err := q.OrderExpr("p.modified_at DESC, p.id DESC").Scan(ctx, &ids); err != nil {
		return nil, fmt.Errorf("flagged query error: %w", err)
	}
	return ids, nil
}

func mapStoreError(err error, resource, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
