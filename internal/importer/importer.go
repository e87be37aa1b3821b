package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-anchorlink/internal/blocks"
	"github.com/goliatone/go-anchorlink/internal/identity"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

var ErrPostServiceRequired = errors.New("markdown importer: post service is required")

// Action describes what happened to a document.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
)

// ItemResult reports one imported document.
type ItemResult struct {
	Path     string
	PostID   int64
	Action   Action
	ReadMore bool
	// Target is the post the anchor-link block points at, zero when unset.
	Target int64
}

// Report summarises a directory import.
type Report struct {
	Items   []ItemResult
	Created int
	Updated int
	DryRun  bool
}

// Options control a directory import.
type Options struct {
	Pattern   string
	Recursive bool
	DryRun    bool
}

// Config encapsulates dependencies required to persist markdown documents.
type Config struct {
	Posts    posts.Service
	Registry *blocks.Registry
	Renderer *Renderer
	Logger   interfaces.Logger
}

// Importer turns markdown files into posts through the save pipeline, so save
// hooks observe imports the same way they observe editor saves.
type Importer struct {
	posts    posts.Service
	registry *blocks.Registry
	renderer *Renderer
	logger   interfaces.Logger
}

// New builds an Importer from cfg.
func New(cfg Config) *Importer {
	imp := &Importer{
		posts:    cfg.Posts,
		registry: cfg.Registry,
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
	}
	if imp.registry == nil {
		imp.registry = blocks.NewDefaultRegistry()
	}
	if imp.renderer == nil {
		imp.renderer = NewRenderer()
	}
	if imp.logger == nil {
		imp.logger = logging.NoOp()
	}
	return imp
}

// ImportDirectory loads every matching document under root and imports them
// in path order. The first failing document aborts the import.
func (i *Importer) ImportDirectory(ctx context.Context, fsys fs.FS, root string, opts Options) (*Report, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	docs, err := LoadDirectory(ctx, fsys, root, opts.Pattern, opts.Recursive)
	if err != nil {
		return nil, err
	}

	report := &Report{DryRun: opts.DryRun}
	for _, doc := range docs {
		item, err := i.ImportDocument(ctx, doc, opts.DryRun)
		if err != nil {
			return report, err
		}
		report.Items = append(report.Items, item)
		switch item.Action {
		case ActionCreated:
			report.Created++
		case ActionUpdated:
			report.Updated++
		}
	}
	i.logger.Info("importer.completed", "created", report.Created, "updated", report.Updated, "dry_run", opts.DryRun)
	return report, nil
}

// ImportDocument renders doc and stores it. New documents are created and
// then saved once more, mirroring an editor's create-then-save sequence;
// documents seen before (matched by source path) are updated in place.
func (i *Importer) ImportDocument(ctx context.Context, doc *Document, dryRun bool) (ItemResult, error) {
	if i.posts == nil {
		return ItemResult{}, ErrPostServiceRequired
	}
	logger := logging.WithSourceContext(i.logger, doc.Path)

	content, err := i.renderer.Render(doc)
	if err != nil {
		return ItemResult{}, err
	}
	if err := i.registry.ValidateBody(content); err != nil {
		return ItemResult{}, fmt.Errorf("markdown importer %s: %w", doc.Path, err)
	}

	item := ItemResult{
		Path:     doc.Path,
		ReadMore: blocks.Has(content, blocks.AnchorLinkName),
	}
	if item.ReadMore {
		link, err := blocks.ExtractAnchorLink(content)
		if err != nil {
			return ItemResult{}, fmt.Errorf("markdown importer %s: %w", doc.Path, err)
		}
		if link.SelectedPost != nil {
			item.Target = link.SelectedPost.ID
		}
	}

	existing, err := i.posts.GetByGUID(ctx, identity.PostUUID(doc.Path))
	switch {
	case err == nil:
		item.Action = ActionUpdated
		item.PostID = existing.ID
	case posts.IsNotFound(err):
		item.Action = ActionCreated
	default:
		return ItemResult{}, err
	}

	if dryRun {
		logger.Debug("importer.planned", "action", string(item.Action))
		return item, nil
	}

	if item.Action == ActionCreated {
		created, err := i.posts.Create(ctx, posts.CreatePostRequest{
			Type:      doc.Type,
			Status:    doc.Status,
			Title:     doc.Title,
			Slug:      doc.Slug,
			Content:   content,
			SourceKey: doc.Path,
		})
		if err != nil {
			return ItemResult{}, err
		}
		item.PostID = created.ID
	}

	modified := doc.ModifiedAt()
	req := posts.UpdatePostRequest{
		ID:      item.PostID,
		Title:   &doc.Title,
		Status:  &doc.Status,
		Content: &content,
	}
	if !modified.IsZero() {
		req.ModifiedAt = &modified
	}
	if doc.Slug != "" && item.Action == ActionUpdated {
		req.Slug = &doc.Slug
	}
	if _, err := i.posts.Update(ctx, req); err != nil {
		return ItemResult{}, err
	}

	logging.WithPostContext(logger, item.PostID, doc.Type).Info("importer."+string(item.Action), "read_more", item.ReadMore)
	return item, nil
}
