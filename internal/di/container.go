package di

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-anchorlink/internal/blocks"
	"github.com/goliatone/go-anchorlink/internal/commands"
	importcmd "github.com/goliatone/go-anchorlink/internal/commands/importer"
	metasynccmd "github.com/goliatone/go-anchorlink/internal/commands/metasync"
	searchcmd "github.com/goliatone/go-anchorlink/internal/commands/search"
	"github.com/goliatone/go-anchorlink/internal/importer"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/logging/console"
	"github.com/goliatone/go-anchorlink/internal/logging/gologger"
	"github.com/goliatone/go-anchorlink/internal/metasync"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/internal/runtimeconfig"
	"github.com/goliatone/go-anchorlink/internal/search"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// Container wires module dependencies. Without a bun database every store is
// in memory.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	clock          func() time.Time

	store    posts.Store
	registry *blocks.Registry

	postSvc   posts.Service
	syncer    metasync.Synchronizer
	searchSvc search.Service
	importer  *importer.Importer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB switches the post store to the bun implementation.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service used by bun lookups.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithClock overrides the time source shared by the post and search services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPostStore overrides the post store.
func WithPostStore(store posts.Store) Option {
	return func(c *Container) {
		c.store = store
	}
}

// WithPostService overrides the default post service binding. The
// synchronizer hook is still attached to it.
func WithPostService(svc posts.Service) Option {
	return func(c *Container) {
		c.postSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.TTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
		clock:    time.Now,
		registry: blocks.NewDefaultRegistry(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()

	if err := c.configureServices(); err != nil {
		return nil, err
	}
	logging.FromProvider(c.loggerProvider).Debug("container.ready",
		"bun", c.bunDB != nil,
		"cache", c.cacheService != nil,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		} else {
			logging.StorageLogger(c.loggerProvider).Warn("cache.disabled", "error", err)
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.store != nil {
		return
	}
	if c.bunDB == nil {
		c.store = posts.NewMemoryStore()
		return
	}
	if c.cacheService != nil {
		c.store = posts.NewBunStoreWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.store = posts.NewBunStore(c.bunDB)
}

func (c *Container) configureServices() error {
	metaCfg := c.Config.Meta

	c.syncer = metasync.New(c.store,
		metasync.WithDetector(blocks.NewAnchorLinkDetector(metaCfg.BlockName)),
		metasync.WithMeta(metaCfg.Key, metaCfg.Value),
		metasync.WithLogger(logging.MetaSyncLogger(c.loggerProvider)),
	)

	if c.postSvc == nil {
		c.postSvc = posts.NewService(c.store,
			posts.WithClock(c.clock),
			posts.WithRevisions(c.Config.Posts.Revisions),
			posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
		)
	}
	c.postSvc.AddHook(c.syncer.Hook())

	searchCfg := c.Config.Search
	location, err := searchCfg.Location()
	if err != nil {
		return fmt.Errorf("di: search timezone: %w", err)
	}
	c.searchSvc = search.NewService(c.store,
		search.WithClock(c.clock),
		search.WithRangeOptions(search.RangeOptions{
			Layout:     searchCfg.DateLayout,
			WindowDays: searchCfg.WindowDays,
			Location:   location,
		}),
		search.WithDefaultPostTypes(searchCfg.DefaultPostTypes),
		search.WithStatuses(searchCfg.Statuses),
		search.WithMeta(metaCfg.Key, metaCfg.Value),
		search.WithLogger(logging.SearchLogger(c.loggerProvider)),
	)

	c.importer = importer.New(importer.Config{
		Posts:    c.postSvc,
		Registry: c.registry,
		Logger:   logging.ImporterLogger(c.loggerProvider),
	})
	return nil
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// BunDB exposes the bun database, nil for in-memory containers.
func (c *Container) BunDB() *bun.DB {
	return c.bunDB
}

// PostStore exposes the configured post store.
func (c *Container) PostStore() posts.Store {
	return c.store
}

// BlockRegistry exposes the block registry.
func (c *Container) BlockRegistry() *blocks.Registry {
	return c.registry
}

// PostService returns the post service with the synchronizer hook attached.
func (c *Container) PostService() posts.Service {
	return c.postSvc
}

// Synchronizer returns the meta synchronizer.
func (c *Container) Synchronizer() metasync.Synchronizer {
	return c.syncer
}

// SearchService returns the flagged-content search service.
func (c *Container) SearchService() search.Service {
	return c.searchSvc
}

// Importer returns the markdown importer.
func (c *Container) Importer() *importer.Importer {
	return c.importer
}

// SearchHandler builds the read-more search command handler writing to printer.
func (c *Container) SearchHandler(printer searchcmd.Printer, opts ...commands.HandlerOption[searchcmd.ReadMoreSearchCommand]) *searchcmd.ReadMoreSearchHandler {
	return searchcmd.NewReadMoreSearchHandler(c.searchSvc, printer,
		commands.CommandLogger(c.loggerProvider, "search"), opts...)
}

// ResyncHandler builds the read-more resync command handler.
func (c *Container) ResyncHandler(opts ...metasynccmd.HandlerOption) *metasynccmd.ResyncPostMetaHandler {
	return metasynccmd.NewResyncPostMetaHandler(c.postSvc, c.syncer,
		commands.CommandLogger(c.loggerProvider, "metasync"), opts...)
}

// ImportHandler builds the markdown import command handler.
func (c *Container) ImportHandler(opts ...importcmd.HandlerOption) *importcmd.ImportMarkdownHandler {
	opts = append([]importcmd.HandlerOption{importcmd.WithDefaultPattern(c.Config.Import.Pattern)}, opts...)
	return importcmd.NewImportMarkdownHandler(c.importer,
		commands.CommandLogger(c.loggerProvider, "import"), opts...)
}

// Close releases the database handle when one is attached.
func (c *Container) Close() error {
	if c.bunDB == nil {
		return nil
	}
	return c.bunDB.Close()
}
