package anchorlink

import (
	"context"

	"github.com/goliatone/go-anchorlink/internal/blocks"
	"github.com/goliatone/go-anchorlink/internal/di"
	"github.com/goliatone/go-anchorlink/internal/importer"
	"github.com/goliatone/go-anchorlink/internal/metasync"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/internal/search"
	"github.com/goliatone/go-anchorlink/internal/storage"
)

// PostService exports the post save pipeline contract.
type PostService = posts.Service

// Synchronizer exports the read-more meta synchronizer contract.
type Synchronizer = metasync.Synchronizer

// SearchService exports the flagged-content search contract.
type SearchService = search.Service

// SearchRequest exports the search input.
type SearchRequest = search.Request

// SearchResult exports the search output.
type SearchResult = search.Result

// Importer exports the markdown importer.
type Importer = *importer.Importer

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI
// overrides. Without di.WithBunDB every store is in memory.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Open connects to the configured database, creates missing tables and
// builds a module backed by it. Close releases the connection.
func Open(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	module, err := New(cfg, append([]di.Option{di.WithBunDB(db)}, opts...)...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return module, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Posts returns the post service. Saves through it keep the read-more flag in sync.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Synchronizer returns the meta synchronizer.
func (m *Module) Synchronizer() Synchronizer {
	return m.container.Synchronizer()
}

// Search returns the flagged-content search service.
func (m *Module) Search() SearchService {
	return m.container.SearchService()
}

// Importer returns the markdown importer.
func (m *Module) Importer() Importer {
	return m.container.Importer()
}

// Blocks returns the block registry.
func (m *Module) Blocks() *blocks.Registry {
	return m.container.BlockRegistry()
}

// Close releases the database connection, if any.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
