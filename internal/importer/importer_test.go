package importer_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-anchorlink/internal/blocks"
	"github.com/goliatone/go-anchorlink/internal/importer"
	"github.com/goliatone/go-anchorlink/internal/metasync"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linkedDoc = `---
title: Linked Post
type: post
date: 2024-03-10T09:00:00Z
read_more:
  id: 22
  title: Second post
  link: https://example.com/second-post/
---
# Heading

Some *markdown* body.
`

const plainDoc = `---
title: Plain Page
type: page
---
Just text.
`

func newFixture() (*importer.Importer, *posts.MemoryStore, fstest.MapFS) {
	store := posts.NewMemoryStore()
	sync := metasync.New(store)
	svc := posts.NewService(store, posts.WithHooks(sync.Hook()))
	fsys := fstest.MapFS{
		"content/linked.md":      {Data: []byte(linkedDoc), ModTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		"content/pages/plain.md": {Data: []byte(plainDoc), ModTime: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		"content/notes.txt":      {Data: []byte("ignored")},
	}
	return importer.New(importer.Config{Posts: svc}), store, fsys
}

func TestImportDirectoryCreatesAndFlags(t *testing.T) {
	ctx := context.Background()
	imp, store, fsys := newFixture()

	report, err := imp.ImportDirectory(ctx, fsys, "content", importer.Options{Recursive: true})
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	assert.Equal(t, 2, report.Created)

	linked := report.Items[0]
	assert.Equal(t, "content/linked.md", linked.Path)
	assert.True(t, linked.ReadMore)
	assert.Equal(t, int64(22), linked.Target)

	value, ok, err := store.GetMeta(ctx, linked.PostID, metasync.DefaultMetaKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", value)

	post, err := store.GetByID(ctx, linked.PostID)
	require.NoError(t, err)
	assert.Equal(t, "linked-post", post.Slug)
	assert.True(t, post.ModifiedAt.Equal(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.Contains(t, post.Content, "<!-- wp:html -->")
	assert.Contains(t, post.Content, "<h1 id=\"heading\">Heading</h1>")
	link, err := blocks.ExtractAnchorLink(post.Content)
	require.NoError(t, err)
	assert.Equal(t, int64(22), link.SelectedPost.ID)

	plain := report.Items[1]
	assert.False(t, plain.ReadMore)
	assert.Zero(t, plain.Target)
	_, ok, err = store.GetMeta(ctx, plain.PostID, metasync.DefaultMetaKey)
	require.NoError(t, err)
	assert.False(t, ok)
	page, err := store.GetByID(ctx, plain.PostID)
	require.NoError(t, err)
	assert.Equal(t, posts.TypePage, page.Type)
}

func TestImportDirectoryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	imp, _, fsys := newFixture()

	first, err := imp.ImportDirectory(ctx, fsys, "content", importer.Options{Recursive: true})
	require.NoError(t, err)
	second, err := imp.ImportDirectory(ctx, fsys, "content", importer.Options{Recursive: true})
	require.NoError(t, err)

	assert.Equal(t, 2, second.Updated)
	assert.Zero(t, second.Created)
	for i := range first.Items {
		assert.Equal(t, first.Items[i].PostID, second.Items[i].PostID)
		assert.Equal(t, importer.ActionUpdated, second.Items[i].Action)
	}
}

func TestImportDirectoryDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	imp, store, fsys := newFixture()

	report, err := imp.ImportDirectory(ctx, fsys, "content", importer.Options{Recursive: true, DryRun: true})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Created)

	all, err := store.List(ctx, posts.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportDirectoryNonRecursive(t *testing.T) {
	imp, _, fsys := newFixture()
	report, err := imp.ImportDirectory(context.Background(), fsys, "content", importer.Options{})
	require.NoError(t, err)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "content/linked.md", report.Items[0].Path)
}

func TestImportRejectsInvalidReadMore(t *testing.T) {
	imp, _, _ := newFixture()
	fsys := fstest.MapFS{
		"bad.md": {Data: []byte("---\ntitle: Bad\nread_more:\n  title: Nowhere\n---\nbody\n")},
	}
	_, err := imp.ImportDirectory(context.Background(), fsys, ".", importer.Options{})
	assert.ErrorIs(t, err, blocks.ErrSelectedPostMissing)
}

func TestImporterRequiresPostService(t *testing.T) {
	imp := importer.New(importer.Config{})
	_, err := imp.ImportDirectory(context.Background(), fstest.MapFS{}, ".", importer.Options{})
	assert.ErrorIs(t, err, importer.ErrPostServiceRequired)
}

func TestParseDocument(t *testing.T) {
	doc, err := importer.ParseDocument("a.md", []byte("---\ntitle: A\ndraft: true\n---\nbody\n"), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "A", doc.Title)
	assert.Equal(t, "draft", doc.Status)
	assert.Nil(t, doc.ReadMore)
	assert.Equal(t, "body", strings.TrimSpace(string(doc.Body)))
}
