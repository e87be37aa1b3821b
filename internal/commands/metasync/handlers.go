package metasynccmd

import (
	"context"

	"github.com/goliatone/go-anchorlink/internal/commands"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/metasync"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const resyncOperation = "read_more.resync"

// PostReader loads the stored canonical post.
type PostReader interface {
	Get(ctx context.Context, id int64) (*posts.Post, error)
}

// Reporter receives the action taken for each post.
type Reporter func(postID int64, action metasync.Action)

// HandlerOption configures the resync handler.
type HandlerOption func(*ResyncPostMetaHandler)

// WithReporter registers a callback invoked after each post is processed.
func WithReporter(reporter Reporter) HandlerOption {
	return func(h *ResyncPostMetaHandler) {
		h.reporter = reporter
	}
}

// WithCommandOptions forwards options to the wrapped command handler.
func WithCommandOptions(opts ...commands.HandlerOption[ResyncPostMetaCommand]) HandlerOption {
	return func(h *ResyncPostMetaHandler) {
		h.commandOpts = append(h.commandOpts, opts...)
	}
}

var _ command.Commander[ResyncPostMetaCommand] = (*ResyncPostMetaHandler)(nil)

// ResyncPostMetaHandler replays the update path of the synchronizer for
// posts whose flag may be stale, e.g. content written before the hook was
// installed.
type ResyncPostMetaHandler struct {
	posts       PostReader
	sync        metasync.Synchronizer
	logger      interfaces.Logger
	reporter    Reporter
	commandOpts []commands.HandlerOption[ResyncPostMetaCommand]
	inner       *commands.Handler[ResyncPostMetaCommand]
}

// NewResyncPostMetaHandler creates a resync handler.
func NewResyncPostMetaHandler(reader PostReader, sync metasync.Synchronizer, logger interfaces.Logger, opts ...HandlerOption) *ResyncPostMetaHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	h := &ResyncPostMetaHandler{
		posts:  reader,
		sync:   sync,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	handlerOpts := []commands.HandlerOption[ResyncPostMetaCommand]{
		commands.WithLogger[ResyncPostMetaCommand](logger),
		commands.WithOperation[ResyncPostMetaCommand](resyncOperation),
	}
	handlerOpts = append(handlerOpts, h.commandOpts...)
	h.inner = commands.NewHandler[ResyncPostMetaCommand](h.exec, handlerOpts...)
	return h
}

// Execute satisfies command.Commander[ResyncPostMetaCommand].Execute.
func (h *ResyncPostMetaHandler) Execute(ctx context.Context, msg ResyncPostMetaCommand) error {
	return h.inner.Execute(ctx, msg)
}

func (h *ResyncPostMetaHandler) exec(ctx context.Context, msg ResyncPostMetaCommand) error {
	for _, id := range msg.PostIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		post, err := h.posts.Get(ctx, id)
		if err != nil {
			if posts.IsNotFound(err) {
				return commands.AsValidation(err)
			}
			return err
		}
		event := metasync.SaveEvent{PostID: post.ID, Post: post, Update: true}
		if err := h.sync.Sync(ctx, event); err != nil {
			return err
		}
		action := h.sync.Plan(event)
		logging.WithPostContext(h.logger, post.ID, post.Type).Debug("metasync.resync.post", "action", action.String())
		if h.reporter != nil {
			h.reporter(post.ID, action)
		}
	}
	return nil
}
