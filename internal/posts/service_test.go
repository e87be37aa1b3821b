package posts_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type savedEvent struct {
	id     int64
	typ    string
	slug   string
	update bool
}

func newRecordingService(t *testing.T, opts ...posts.ServiceOption) (posts.Service, *[]savedEvent) {
	t.Helper()
	events := &[]savedEvent{}
	fixed := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	opts = append([]posts.ServiceOption{
		posts.WithClock(func() time.Time { return fixed }),
		posts.WithHooks(func(_ context.Context, id int64, post *posts.Post, update bool) error {
			*events = append(*events, savedEvent{id: id, typ: post.Type, slug: post.Slug, update: update})
			return nil
		}),
	}, opts...)
	return posts.NewService(posts.NewMemoryStore(), opts...), events
}

func TestServiceCreateNotifiesInsert(t *testing.T) {
	svc, events := newRecordingService(t)

	created, err := svc.Create(context.Background(), posts.CreatePostRequest{Title: "Hello World", Content: "body"})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", created.Slug)
	assert.Equal(t, posts.TypePost, created.Type)
	assert.Equal(t, posts.StatusDraft, created.Status)
	assert.Equal(t, []savedEvent{{id: created.ID, typ: posts.TypePost, slug: "hello-world", update: false}}, *events)
}

func TestServiceUpdateWritesRevisionThenUpdate(t *testing.T) {
	svc, events := newRecordingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Hello", Type: posts.TypePage})
	require.NoError(t, err)
	*events = nil

	content := "<!-- wp:create-block/dmg-anchor-link /-->"
	updated, err := svc.Update(ctx, posts.UpdatePostRequest{ID: created.ID, Content: &content})
	require.NoError(t, err)
	assert.Equal(t, content, updated.Content)

	require.Len(t, *events, 2)
	revision := (*events)[0]
	assert.Equal(t, posts.TypeRevision, revision.typ)
	assert.False(t, revision.update)
	assert.Equal(t, "1-revision-v1", revision.slug)
	assert.Equal(t, savedEvent{id: created.ID, typ: posts.TypePage, slug: "hello", update: true}, (*events)[1])

	revisions, err := svc.List(ctx, posts.ListOptions{Types: []string{posts.TypeRevision}, Parent: &created.ID})
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, content, revisions[0].Content)
	assert.Equal(t, posts.StatusInherit, revisions[0].Status)
}

func TestServiceUpdateWithoutRevisions(t *testing.T) {
	svc, events := newRecordingService(t, posts.WithRevisions(false))
	ctx := context.Background()

	created, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Hello"})
	require.NoError(t, err)
	*events = nil

	_, err = svc.Update(ctx, posts.UpdatePostRequest{ID: created.ID})
	require.NoError(t, err)
	require.Len(t, *events, 1)
	assert.True(t, (*events)[0].update)
}

func TestServiceAutosaveInsertsThenOverwrites(t *testing.T) {
	svc, events := newRecordingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Draft"})
	require.NoError(t, err)
	*events = nil

	first, err := svc.Autosave(ctx, posts.AutosaveRequest{PostID: created.ID, Title: "Draft", Content: "one"})
	require.NoError(t, err)
	second, err := svc.Autosave(ctx, posts.AutosaveRequest{PostID: created.ID, Title: "Draft", Content: "two"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, posts.IsAutosave(second))
	require.Len(t, *events, 2)
	assert.False(t, (*events)[0].update)
	assert.True(t, (*events)[1].update)
	assert.Equal(t, "1-autosave-v1", (*events)[1].slug)

	parent, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, parent.Content)
}

func TestServiceUniqueSlugs(t *testing.T) {
	svc, _ := newRecordingService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Same Title"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Same Title"})
	require.NoError(t, err)
	page, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Same Title", Type: posts.TypePage})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
	assert.Equal(t, "same-title", page.Slug)
}

func TestServiceSourceKeyGivesStableGUID(t *testing.T) {
	svc, _ := newRecordingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, posts.CreatePostRequest{Title: "Imported", SourceKey: "content/imported.md"})
	require.NoError(t, err)

	found, err := svc.GetByGUID(ctx, created.GUID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	other, _ := newRecordingService(t)
	again, err := other.Create(ctx, posts.CreatePostRequest{Title: "Imported", SourceKey: "content/imported.md"})
	require.NoError(t, err)
	assert.Equal(t, created.GUID, again.GUID)
}

func TestServiceRejectsInvalidRequests(t *testing.T) {
	svc, _ := newRecordingService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, posts.CreatePostRequest{})
	assert.ErrorIs(t, err, posts.ErrTitleRequired)

	_, err = svc.Create(ctx, posts.CreatePostRequest{Title: "x", Type: posts.TypeRevision})
	assert.ErrorIs(t, err, posts.ErrRevisionReadOnly)

	_, err = svc.Update(ctx, posts.UpdatePostRequest{})
	assert.ErrorIs(t, err, posts.ErrPostIDRequired)

	_, err = svc.Update(ctx, posts.UpdatePostRequest{ID: 42})
	assert.True(t, posts.IsNotFound(err))
}

func TestServiceHookErrorSurfacesAfterPersist(t *testing.T) {
	boom := errors.New("hook failed")
	store := posts.NewMemoryStore()
	svc := posts.NewService(store, posts.WithHooks(func(context.Context, int64, *posts.Post, bool) error {
		return boom
	}))

	created, err := svc.Create(context.Background(), posts.CreatePostRequest{Title: "Hello"})
	require.ErrorIs(t, err, boom)
	require.NotNil(t, created)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Slug)
}
