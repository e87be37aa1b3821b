package importcmd

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-anchorlink/internal/importer"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/metasync"
	"github.com/goliatone/go-anchorlink/internal/posts"
)

const doc = `---
title: Imported
read_more:
  id: 5
  title: Five
  link: https://example.com/five/
---
Body text.
`

type stubImporter struct {
	calls []importer.Options
	err   error
}

func (s *stubImporter) ImportDirectory(_ context.Context, _ fs.FS, root string, opts importer.Options) (*importer.Report, error) {
	s.calls = append(s.calls, opts)
	if s.err != nil {
		return nil, s.err
	}
	return &importer.Report{DryRun: opts.DryRun}, nil
}

func TestImportMarkdownHandlerImportsAndReports(t *testing.T) {
	ctx := context.Background()
	store := posts.NewMemoryStore()
	sync := metasync.New(store)
	service := posts.NewService(store, posts.WithHooks(sync.Hook()))
	imp := importer.New(importer.Config{Posts: service})

	fsys := fstest.MapFS{"drafts/imported.md": {Data: []byte(doc)}}
	var opened string
	var report *importer.Report
	handler := NewImportMarkdownHandler(imp, logging.NoOp(),
		WithFS(func(dir string) fs.FS {
			opened = dir
			return fsys
		}),
		WithReporter(func(r *importer.Report) { report = r }),
	)

	if err := handler.Execute(ctx, ImportMarkdownCommand{Directory: "content", Recursive: true}); err != nil {
		t.Fatalf("execute import: %v", err)
	}
	if opened != "content" {
		t.Fatalf("expected directory content to be opened, got %q", opened)
	}
	if report == nil || report.Created != 1 || len(report.Items) != 1 {
		t.Fatalf("unexpected report %#v", report)
	}
	item := report.Items[0]
	if !item.ReadMore {
		t.Fatalf("expected read more block in imported post")
	}
	value, ok, err := store.GetMeta(ctx, item.PostID, metasync.DefaultMetaKey)
	if err != nil || !ok || value != "1" {
		t.Fatalf("expected flag set, got %q %v %v", value, ok, err)
	}
}

func TestImportMarkdownHandlerAppliesDefaultPattern(t *testing.T) {
	stub := &stubImporter{}
	handler := NewImportMarkdownHandler(stub, nil,
		WithFS(func(string) fs.FS { return fstest.MapFS{} }),
		WithDefaultPattern("*.markdown"),
	)

	if err := handler.Execute(context.Background(), ImportMarkdownCommand{Directory: "content", DryRun: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(stub.calls) != 1 {
		t.Fatalf("expected one import call, got %d", len(stub.calls))
	}
	if stub.calls[0].Pattern != "*.markdown" || !stub.calls[0].DryRun || stub.calls[0].Recursive {
		t.Fatalf("unexpected options %#v", stub.calls[0])
	}

	if err := handler.Execute(context.Background(), ImportMarkdownCommand{Directory: "content", Pattern: "*.md"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stub.calls[1].Pattern != "*.md" {
		t.Fatalf("expected explicit pattern to win, got %q", stub.calls[1].Pattern)
	}
}

func TestImportMarkdownHandlerPropagatesErrors(t *testing.T) {
	boom := errors.New("disk gone")
	handler := NewImportMarkdownHandler(&stubImporter{err: boom}, nil,
		WithFS(func(string) fs.FS { return fstest.MapFS{} }),
	)
	err := handler.Execute(context.Background(), ImportMarkdownCommand{Directory: "content"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected importer error, got %v", err)
	}
}

func TestImportMarkdownCommandValidate(t *testing.T) {
	if err := (ImportMarkdownCommand{}).Validate(); err == nil {
		t.Fatal("expected error when directory missing")
	}
	if err := (ImportMarkdownCommand{Directory: "   "}).Validate(); err == nil {
		t.Fatal("expected error when directory blank")
	}
	if err := (ImportMarkdownCommand{Directory: "content"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
