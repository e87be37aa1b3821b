package importcmd

import (
	"context"
	"io/fs"
	"os"

	"github.com/goliatone/go-anchorlink/internal/commands"
	"github.com/goliatone/go-anchorlink/internal/importer"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const importOperation = "markdown.import"

// DirectoryImporter is the importer surface used by the handler.
type DirectoryImporter interface {
	ImportDirectory(ctx context.Context, fsys fs.FS, root string, opts importer.Options) (*importer.Report, error)
}

// HandlerOption configures the import handler.
type HandlerOption func(*ImportMarkdownHandler)

// WithFS replaces the directory opener. Defaults to os.DirFS.
func WithFS(open func(dir string) fs.FS) HandlerOption {
	return func(h *ImportMarkdownHandler) {
		if open != nil {
			h.open = open
		}
	}
}

// WithReporter registers a callback receiving the import report.
func WithReporter(report func(*importer.Report)) HandlerOption {
	return func(h *ImportMarkdownHandler) {
		h.report = report
	}
}

// WithDefaultPattern sets the file pattern used when the command omits one.
func WithDefaultPattern(pattern string) HandlerOption {
	return func(h *ImportMarkdownHandler) {
		h.defaultPattern = pattern
	}
}

var _ command.Commander[ImportMarkdownCommand] = (*ImportMarkdownHandler)(nil)

// ImportMarkdownHandler runs a directory import.
type ImportMarkdownHandler struct {
	importer       DirectoryImporter
	logger         interfaces.Logger
	open           func(dir string) fs.FS
	report         func(*importer.Report)
	defaultPattern string
	inner          *commands.Handler[ImportMarkdownCommand]
}

// NewImportMarkdownHandler creates an import handler.
func NewImportMarkdownHandler(imp DirectoryImporter, logger interfaces.Logger, opts ...HandlerOption) *ImportMarkdownHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	h := &ImportMarkdownHandler{
		importer: imp,
		logger:   logger,
		open:     os.DirFS,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.inner = commands.NewHandler[ImportMarkdownCommand](h.exec,
		commands.WithLogger[ImportMarkdownCommand](logger),
		commands.WithOperation[ImportMarkdownCommand](importOperation),
		// imports walk whole trees; the caller's context bounds them
		commands.WithTimeout[ImportMarkdownCommand](0),
	)
	return h
}

// Execute satisfies command.Commander[ImportMarkdownCommand].Execute.
func (h *ImportMarkdownHandler) Execute(ctx context.Context, msg ImportMarkdownCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ImportMarkdownHandler) exec(ctx context.Context, msg ImportMarkdownCommand) error {
	pattern := msg.Pattern
	if pattern == "" {
		pattern = h.defaultPattern
	}
	opts := importer.Options{
		Pattern:   pattern,
		Recursive: msg.Recursive,
		DryRun:    msg.DryRun,
	}

	report, err := h.importer.ImportDirectory(ctx, h.open(msg.Directory), ".", opts)
	if report != nil && h.report != nil {
		h.report(report)
	}
	if err != nil {
		return err
	}
	logging.WithFields(h.logger, map[string]any{
		"directory":     msg.Directory,
		"created_count": report.Created,
		"updated_count": report.Updated,
		"dry_run":       report.DryRun,
	}).Info("markdown.import.summary")
	return nil
}
