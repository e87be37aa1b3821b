package search_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/internal/search"
	"github.com/goliatone/go-anchorlink/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)

type seedPost struct {
	typ      string
	status   string
	modified time.Time
	flagged  bool
}

func seed(t *testing.T, store posts.Store, entries []seedPost) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		status := entry.status
		if status == "" {
			status = posts.StatusPublish
		}
		created, err := store.Create(ctx, &posts.Post{
			Type:       entry.typ,
			Status:     status,
			Title:      "seed",
			Slug:       "seed",
			CreatedAt:  entry.modified,
			ModifiedAt: entry.modified,
		})
		require.NoError(t, err)
		if entry.flagged {
			require.NoError(t, store.UpsertMeta(ctx, created.ID, "dmg-read-more", "1"))
		}
		ids = append(ids, created.ID)
	}
	return ids
}

func newService(store posts.FlaggedRepository, opts ...search.Option) search.Service {
	opts = append([]search.Option{
		search.WithClock(func() time.Time { return now }),
		search.WithRangeOptions(search.RangeOptions{Location: time.UTC}),
	}, opts...)
	return search.NewService(store, opts...)
}

func stores(t *testing.T) map[string]posts.Store {
	return map[string]posts.Store{
		"memory": posts.NewMemoryStore(),
		"bun":    posts.NewBunStore(testsupport.NewBunDB(t)),
	}
}

func TestSearchDefaultsToPostsAndPagesInLastThirtyDays(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, store, []seedPost{
				{typ: posts.TypePost, modified: now.AddDate(0, 0, -1), flagged: true},  // 1
				{typ: posts.TypePage, modified: now.AddDate(0, 0, -2), flagged: true},  // 2
				{typ: posts.TypePost, modified: now.AddDate(0, 0, -3), flagged: false}, // 3
				{typ: "product", modified: now.AddDate(0, 0, -1), flagged: true},       // 4
				{typ: posts.TypePost, modified: now.AddDate(0, 0, -40), flagged: true}, // 5
			})

			result, err := newService(store).Search(context.Background(), search.Request{})
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 2}, result.IDs)
			assert.Equal(t, 2, result.Total)
			assert.False(t, result.Empty())
			assert.Equal(t, []string{"post", "page"}, result.PostTypes)
		})
	}
}

func TestSearchRestrictsToRequestedPostType(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, store, []seedPost{
				{typ: posts.TypePost, modified: now.AddDate(0, 0, -1), flagged: true},
				{typ: posts.TypePage, modified: now.AddDate(0, 0, -1), flagged: true},
			})

			result, err := newService(store).Search(context.Background(), search.Request{PostTypes: "post"})
			require.NoError(t, err)
			assert.Equal(t, []int64{1}, result.IDs)
		})
	}
}

func TestSearchBoundsAreInclusive(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, store, []seedPost{
				{typ: posts.TypePost, modified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), flagged: true},
				{typ: posts.TypePost, modified: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC), flagged: true},
				{typ: posts.TypePost, modified: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), flagged: true},
				{typ: posts.TypePost, modified: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), flagged: true},
			})

			result, err := newService(store).Search(context.Background(), search.Request{
				DateAfter:  "01-01-2024",
				DateBefore: "31-01-2024",
			})
			require.NoError(t, err)
			assert.Equal(t, []int64{2, 1}, result.IDs)
		})
	}
}

func TestSearchEmptyIsNotAnError(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			result, err := newService(store).Search(context.Background(), search.Request{})
			require.NoError(t, err)
			assert.True(t, result.Empty())
			assert.Empty(t, result.IDs)
		})
	}
}

func TestSearchMalformedDateFailsBeforeQuery(t *testing.T) {
	store := &failingStore{err: errors.New("must not be called")}
	_, err := newService(store).Search(context.Background(), search.Request{DateBefore: "2024-03-15"})
	assert.ErrorIs(t, err, search.ErrInvalidDate)
	assert.Zero(t, store.calls)
}

func TestSearchPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("database is locked")
	store := &failingStore{err: boom}
	_, err := newService(store).Search(context.Background(), search.Request{})
	assert.Same(t, boom, err)
	assert.Equal(t, 1, store.calls)
}

func TestSearchStatusesAndMetaOverrides(t *testing.T) {
	store := posts.NewMemoryStore()
	seed(t, store, []seedPost{
		{typ: posts.TypePost, status: posts.StatusDraft, modified: now.AddDate(0, 0, -1), flagged: true},
		{typ: posts.TypePost, status: posts.StatusPublish, modified: now.AddDate(0, 0, -1), flagged: true},
	})

	result, err := newService(store, search.WithStatuses([]string{posts.StatusPublish})).Search(context.Background(), search.Request{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, result.IDs)

	result, err = newService(store, search.WithMeta("other-flag", "1")).Search(context.Background(), search.Request{})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestParsePostTypes(t *testing.T) {
	defaults := []string{"post", "page"}
	assert.Equal(t, defaults, search.ParsePostTypes("", defaults))
	assert.Equal(t, []string{"post"}, search.ParsePostTypes("post", defaults))
	assert.Equal(t, []string{"post", " page"}, search.ParsePostTypes("post, page", defaults))
	assert.Equal(t, []string{"product"}, search.ParsePostTypes(",product,", defaults))
	assert.Equal(t, defaults, search.ParsePostTypes(",,", defaults))
}

func TestFormatIDs(t *testing.T) {
	assert.Equal(t, "10, 22, 47", search.FormatIDs([]int64{10, 22, 47}))
	assert.Equal(t, "", search.FormatIDs(nil))
}

type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) FindFlagged(context.Context, posts.FlaggedQuery) ([]int64, error) {
	f.calls++
	return nil, f.err
}
