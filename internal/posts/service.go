package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-anchorlink/internal/identity"
	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// SaveHook observes every persisted record, revisions included. update is
// false when the record was inserted and true when an existing record was
// overwritten.
type SaveHook func(ctx context.Context, postID int64, post *Post, update bool) error

// Service exposes the post save pipeline.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Autosave(ctx context.Context, req AutosaveRequest) (*Post, error)
	Get(ctx context.Context, id int64) (*Post, error)
	GetByGUID(ctx context.Context, guid uuid.UUID) (*Post, error)
	List(ctx context.Context, opts ListOptions) ([]*Post, error)
	AddHook(hook SaveHook)
}

// CreatePostRequest captures the fields of a new post. SourceKey, when set,
// yields a deterministic GUID so repeated imports resolve to the same post.
type CreatePostRequest struct {
	Type       string
	Status     string
	Title      string
	Slug       string
	Content    string
	SourceKey  string
	ModifiedAt *time.Time
}

// UpdatePostRequest carries a partial update; nil fields are left unchanged.
type UpdatePostRequest struct {
	ID         int64
	Title      *string
	Slug       *string
	Status     *string
	Content    *string
	ModifiedAt *time.Time
}

// AutosaveRequest stores unsaved editor state next to the post.
type AutosaveRequest struct {
	PostID  int64
	Title   string
	Content string
}

// ServiceOption configures the post service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRevisions toggles revision snapshots on update.
func WithRevisions(enabled bool) ServiceOption {
	return func(s *service) {
		s.revisions = enabled
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHooks registers save hooks at construction.
func WithHooks(hooks ...SaveHook) ServiceOption {
	return func(s *service) {
		for _, hook := range hooks {
			s.AddHook(hook)
		}
	}
}

type service struct {
	posts     PostRepository
	now       func() time.Time
	revisions bool
	logger    interfaces.Logger
	hooks     []SaveHook
}

// NewService constructs the save pipeline over repo.
func NewService(repo PostRepository, opts ...ServiceOption) Service {
	s := &service{
		posts:     repo,
		now:       time.Now,
		revisions: true,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) AddHook(hook SaveHook) {
	if hook != nil {
		s.hooks = append(s.hooks, hook)
	}
}

func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	postType := strings.TrimSpace(req.Type)
	if postType == "" {
		postType = TypePost
	}
	if postType == TypeRevision {
		return nil, ErrRevisionReadOnly
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = StatusDraft
	}

	base, err := s.baseSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}
	slugValue, err := s.uniqueSlug(ctx, postType, base, 0)
	if err != nil {
		return nil, err
	}

	now := s.now()
	modified := now
	if req.ModifiedAt != nil {
		modified = *req.ModifiedAt
	}
	guid := identity.PostUUID(req.SourceKey)
	if guid == uuid.Nil {
		guid = uuid.New()
	}

	created, err := s.posts.Create(ctx, &Post{
		GUID:       guid,
		Type:       postType,
		Status:     status,
		Title:      req.Title,
		Slug:       slugValue,
		Content:    req.Content,
		CreatedAt:  now,
		ModifiedAt: modified,
	})
	if err != nil {
		return nil, err
	}
	logging.WithPostContext(s.logger, created.ID, created.Type).Debug("posts.created", "slug", created.Slug)

	if err := s.notify(ctx, created, false); err != nil {
		return created, err
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID <= 0 {
		return nil, ErrPostIDRequired
	}
	existing, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if IsRevision(existing) {
		return nil, ErrRevisionReadOnly
	}

	if req.Title != nil {
		existing.Title = *req.Title
	}
	if req.Status != nil {
		existing.Status = strings.TrimSpace(*req.Status)
	}
	if req.Content != nil {
		existing.Content = *req.Content
	}
	if req.Slug != nil {
		base, err := s.baseSlug(*req.Slug, existing.Title)
		if err != nil {
			return nil, err
		}
		if existing.Slug, err = s.uniqueSlug(ctx, existing.Type, base, existing.ID); err != nil {
			return nil, err
		}
	}
	existing.ModifiedAt = s.now()
	if req.ModifiedAt != nil {
		existing.ModifiedAt = *req.ModifiedAt
	}

	updated, err := s.posts.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	logging.WithPostContext(s.logger, updated.ID, updated.Type).Debug("posts.updated")

	if s.revisions {
		revision, err := s.posts.Create(ctx, snapshot(updated, fmt.Sprintf(revisionSlugFormat, updated.ID), uuid.New(), updated.ModifiedAt))
		if err != nil {
			return updated, err
		}
		if err := s.notify(ctx, revision, false); err != nil {
			return updated, err
		}
	}

	if err := s.notify(ctx, updated, true); err != nil {
		return updated, err
	}
	return updated, nil
}

// Autosave keeps a single autosave revision per post. The first autosave is
// an insert, later ones overwrite it.
func (s *service) Autosave(ctx context.Context, req AutosaveRequest) (*Post, error) {
	if req.PostID <= 0 {
		return nil, ErrPostIDRequired
	}
	parent, err := s.posts.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if IsRevision(parent) {
		return nil, ErrRevisionReadOnly
	}

	guid := identity.AutosaveUUID(parent.GUID)
	now := s.now()
	current, err := s.posts.GetByGUID(ctx, guid)
	switch {
	case err == nil:
		current.Title = req.Title
		current.Content = req.Content
		current.ModifiedAt = now
		updated, err := s.posts.Update(ctx, current)
		if err != nil {
			return nil, err
		}
		return updated, s.notify(ctx, updated, true)
	case IsNotFound(err):
		draft := snapshot(parent, fmt.Sprintf(autosaveSlugFormat, parent.ID), guid, now)
		draft.Title = req.Title
		draft.Content = req.Content
		created, err := s.posts.Create(ctx, draft)
		if err != nil {
			return nil, err
		}
		return created, s.notify(ctx, created, false)
	default:
		return nil, err
	}
}

func (s *service) Get(ctx context.Context, id int64) (*Post, error) {
	if id <= 0 {
		return nil, ErrPostIDRequired
	}
	return s.posts.GetByID(ctx, id)
}

func (s *service) GetByGUID(ctx context.Context, guid uuid.UUID) (*Post, error) {
	return s.posts.GetByGUID(ctx, guid)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Post, error) {
	return s.posts.List(ctx, opts)
}

func (s *service) notify(ctx context.Context, post *Post, update bool) error {
	for _, hook := range s.hooks {
		if err := hook(ctx, post.ID, clonePost(post), update); err != nil {
			logging.WithPostContext(s.logger, post.ID, post.Type).Error("posts.hook.failed", "update", update, "error", err)
			return err
		}
	}
	return nil
}

func (s *service) baseSlug(candidate, title string) (string, error) {
	source := strings.TrimSpace(candidate)
	if source == "" {
		source = strings.TrimSpace(title)
	}
	if source == "" {
		return "", ErrTitleRequired
	}
	normalized, err := slug.Normalize(source)
	if err != nil {
		return "", fmt.Errorf("posts: normalize slug %q: %w", source, err)
	}
	if normalized == "" {
		return "", ErrTitleRequired
	}
	return normalized, nil
}

// uniqueSlug appends -2, -3, ... until no other post of the same type owns
// the slug.
func (s *service) uniqueSlug(ctx context.Context, postType, base string, selfID int64) (string, error) {
	candidate := base
	for suffix := 2; ; suffix++ {
		existing, err := s.posts.GetBySlug(ctx, postType, candidate)
		if IsNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func snapshot(parent *Post, slugValue string, guid uuid.UUID, at time.Time) *Post {
	return &Post{
		GUID:       guid,
		Type:       TypeRevision,
		Status:     StatusInherit,
		Title:      parent.Title,
		Slug:       slugValue,
		Content:    parent.Content,
		Parent:     parent.ID,
		CreatedAt:  at,
		ModifiedAt: at,
	}
}
