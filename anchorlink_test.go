package anchorlink_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	anchorlink "github.com/goliatone/go-anchorlink"
	"github.com/goliatone/go-anchorlink/internal/di"
	"github.com/goliatone/go-anchorlink/internal/posts"
)

const linkedBody = `<!-- wp:paragraph --><p>Read on</p><!-- /wp:paragraph -->
<!-- wp:create-block/dmg-anchor-link {"selectedPost":{"id":9,"title":{"rendered":"Nine"},"link":"https://example.com/nine/"}} /-->`

func TestConfigValidateRejectsUnknownStorage(t *testing.T) {
	cfg := anchorlink.DefaultConfig()
	cfg.Storage.Provider = "oracle"
	if err := cfg.Validate(); !errors.Is(err, anchorlink.ErrStorageProviderUnknown) {
		t.Fatalf("expected ErrStorageProviderUnknown, got %v", err)
	}
}

func TestConfigValidateRequiresMetaKey(t *testing.T) {
	cfg := anchorlink.DefaultConfig()
	cfg.Meta.Key = " "
	if err := cfg.Validate(); !errors.Is(err, anchorlink.ErrMetaKeyRequired) {
		t.Fatalf("expected ErrMetaKeyRequired, got %v", err)
	}
}

func TestOpenRunsSaveToSearchFlow(t *testing.T) {
	ctx := context.Background()
	cfg := anchorlink.DefaultConfig()
	cfg.Storage.DSN = fmt.Sprintf("file:%s?_fk=1", filepath.Join(t.TempDir(), "anchorlink.db"))
	cfg.Search.Timezone = "UTC"

	now := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	module, err := anchorlink.Open(ctx, cfg, di.WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	post, err := module.Posts().Create(ctx, posts.CreatePostRequest{Type: posts.TypePost, Title: "Linked"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := module.Search().Search(ctx, anchorlink.SearchRequest{})
	if err != nil {
		t.Fatalf("search before update: %v", err)
	}
	if !result.Empty() {
		t.Fatalf("creation must not flag the post, got %v", result.IDs)
	}

	body := linkedBody
	if _, err := module.Posts().Update(ctx, posts.UpdatePostRequest{ID: post.ID, Content: &body}); err != nil {
		t.Fatalf("update: %v", err)
	}
	result, err = module.Search().Search(ctx, anchorlink.SearchRequest{DateBefore: "02-05-2024"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if result.Total != 1 || result.IDs[0] != post.ID {
		t.Fatalf("expected [%d], got %v", post.ID, result.IDs)
	}

	empty := ""
	if _, err := module.Posts().Update(ctx, posts.UpdatePostRequest{ID: post.ID, Content: &empty}); err != nil {
		t.Fatalf("clear update: %v", err)
	}
	result, err = module.Search().Search(ctx, anchorlink.SearchRequest{})
	if err != nil {
		t.Fatalf("search after clear: %v", err)
	}
	if !result.Empty() {
		t.Fatalf("expected flag cleared, got %v", result.IDs)
	}
}

func TestNewDefaultsToMemory(t *testing.T) {
	module, err := anchorlink.New(anchorlink.DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if module.Container().BunDB() != nil {
		t.Fatal("expected in-memory module")
	}
	if module.Blocks() == nil || module.Importer() == nil || module.Synchronizer() == nil {
		t.Fatal("expected services wired")
	}
	if err := module.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
