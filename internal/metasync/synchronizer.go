package metasync

import (
	"context"
	"errors"

	"github.com/goliatone/go-anchorlink/internal/blocks"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

const (
	DefaultMetaKey   = "dmg-read-more"
	DefaultMetaValue = "1"
)

var (
	ErrPostRequired   = errors.New("metasync: saved post required")
	ErrPostIDRequired = errors.New("metasync: post id required")
)

// MetaStore is the slice of the attribute store the synchronizer writes to.
type MetaStore interface {
	UpsertMeta(ctx context.Context, postID int64, key, value string) error
	DeleteMeta(ctx context.Context, postID int64, key string) error
}

// SaveEvent describes one persisted record. Update is false for inserts.
type SaveEvent struct {
	PostID int64
	Post   *posts.Post
	Update bool
}

// Action is the decision taken for a save event.
type Action int

const (
	ActionSkipCreate Action = iota
	ActionSkipRevision
	ActionSetFlag
	ActionClearFlag
)

func (a Action) String() string {
	switch a {
	case ActionSkipCreate:
		return "skip_create"
	case ActionSkipRevision:
		return "skip_revision"
	case ActionSetFlag:
		return "set"
	case ActionClearFlag:
		return "clear"
	default:
		return "unknown"
	}
}

// Writes reports whether the action touches the attribute store.
func (a Action) Writes() bool {
	return a == ActionSetFlag || a == ActionClearFlag
}

// Synchronizer keeps the read-more flag in step with the anchor-link block.
type Synchronizer interface {
	Plan(event SaveEvent) Action
	Sync(ctx context.Context, event SaveEvent) error
	Hook() posts.SaveHook
}

// Option configures the synchronizer.
type Option func(*synchronizer)

// WithDetector overrides block presence detection.
func WithDetector(detector interfaces.AnchorLinkDetector) Option {
	return func(s *synchronizer) {
		if detector != nil {
			s.detector = detector
		}
	}
}

// WithMeta overrides the flag key and value.
func WithMeta(key, value string) Option {
	return func(s *synchronizer) {
		if key != "" {
			s.key = key
		}
		if value != "" {
			s.value = value
		}
	}
}

// WithLogger sets the synchronizer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type synchronizer struct {
	store    MetaStore
	detector interfaces.AnchorLinkDetector
	key      string
	value    string
	logger   interfaces.Logger
}

// New returns a synchronizer writing to store.
func New(store MetaStore, opts ...Option) Synchronizer {
	s := &synchronizer{
		store:    store,
		detector: blocks.NewAnchorLinkDetector(blocks.AnchorLinkName),
		key:      DefaultMetaKey,
		value:    DefaultMetaValue,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan applies the short-circuit rules in order: inserts are skipped, then
// autosaves and revisions, then the body decides.
func (s *synchronizer) Plan(event SaveEvent) Action {
	if !event.Update {
		return ActionSkipCreate
	}
	if posts.IsAutosave(event.Post) || posts.IsRevision(event.Post) {
		return ActionSkipRevision
	}
	if event.Post != nil && s.detector.ContainsAnchorLinkBlock(event.Post.Content) {
		return ActionSetFlag
	}
	return ActionClearFlag
}

// Sync performs exactly one attribute write for qualifying saves. Store
// errors are returned unwrapped.
func (s *synchronizer) Sync(ctx context.Context, event SaveEvent) error {
	action := s.Plan(event)
	postType := ""
	if event.Post != nil {
		postType = event.Post.Type
	}
	logger := logging.WithPostContext(s.logger, event.PostID, postType)

	if !action.Writes() {
		logger.Debug("metasync.skipped", "action", action.String(), "update", event.Update)
		return nil
	}
	if event.Post == nil {
		return ErrPostRequired
	}
	if event.PostID <= 0 {
		return ErrPostIDRequired
	}

	var err error
	if action == ActionSetFlag {
		err = s.store.UpsertMeta(ctx, event.PostID, s.key, s.value)
	} else {
		err = s.store.DeleteMeta(ctx, event.PostID, s.key)
	}
	if err != nil {
		logger.Error("metasync.write.failed", "action", action.String(), "meta_key", s.key, "error", err)
		return err
	}
	logger.Info("metasync.flag."+action.String(), "meta_key", s.key)
	return nil
}

// Hook adapts Sync to the post save pipeline.
func (s *synchronizer) Hook() posts.SaveHook {
	return func(ctx context.Context, postID int64, post *posts.Post, update bool) error {
		return s.Sync(ctx, SaveEvent{PostID: postID, Post: post, Update: update})
	}
}
