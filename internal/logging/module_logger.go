package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

const (
	rootModule     = "anchorlink"
	metaSyncModule = "anchorlink.metasync"
	searchModule   = "anchorlink.search"
	postsModule    = "anchorlink.posts"
	importerModule = "anchorlink.importer"
	storageModule  = "anchorlink.storage"
)

const (
	fieldPostID   = "post_id"
	fieldPostType = "post_type"
	fieldSource   = "source_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MetaSyncLogger returns the logger namespace reserved for the read-more meta synchronizer.
func MetaSyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, metaSyncModule)
}

// SearchLogger returns the logger namespace reserved for flagged-content search.
func SearchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, searchModule)
}

// PostsLogger returns the logger namespace reserved for the post save pipeline.
func PostsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postsModule)
}

// ImporterLogger returns the logger namespace reserved for markdown imports.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

// StorageLogger returns the logger namespace reserved for storage bootstrap.
func StorageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, storageModule)
}

// WithPostContext enriches the logger with the post identifier and type.
// Zero identifiers and blank types are ignored.
func WithPostContext(logger interfaces.Logger, postID int64, postType string) interfaces.Logger {
	fields := map[string]any{}
	if postID > 0 {
		fields[fieldPostID] = postID
	}
	if trimmed := strings.TrimSpace(postType); trimmed != "" {
		fields[fieldPostType] = trimmed
	}
	return WithFields(logger, fields)
}

// WithSourceContext attaches the source file path used by import workflows.
func WithSourceContext(logger interfaces.Logger, path string) interfaces.Logger {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldSource: trimmed})
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
