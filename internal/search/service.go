package search

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-anchorlink/internal/logging"
	"github.com/goliatone/go-anchorlink/internal/posts"
	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

// DefaultPostTypes are searched when the request names none.
var DefaultPostTypes = []string{posts.TypePost, posts.TypePage}

// Request carries the raw command-line style arguments.
type Request struct {
	DateBefore string
	DateAfter  string
	PostTypes  string
}

// Result lists matching post identifiers in store order.
type Result struct {
	IDs       []int64
	Total     int
	Range     DateRange
	PostTypes []string
}

// Empty is the "no results" signal; it is never reported as an error.
func (r *Result) Empty() bool {
	return r == nil || r.Total == 0
}

// Service runs flagged-content searches.
type Service interface {
	Search(ctx context.Context, req Request) (*Result, error)
}

// Option configures the search service.
type Option func(*service)

// WithClock overrides the time source used for defaulting.
func WithClock(clock func() time.Time) Option {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithRangeOptions sets the date layout, window and location.
func WithRangeOptions(opts RangeOptions) Option {
	return func(s *service) {
		s.rangeOpts = opts.withDefaults()
	}
}

// WithDefaultPostTypes overrides the types searched when none are requested.
func WithDefaultPostTypes(types []string) Option {
	return func(s *service) {
		if len(types) > 0 {
			s.defaultTypes = append([]string(nil), types...)
		}
	}
}

// WithStatuses restricts matches to the given post statuses.
func WithStatuses(statuses []string) Option {
	return func(s *service) {
		s.statuses = append([]string(nil), statuses...)
	}
}

// WithMeta overrides the flag key and value matched by the query.
func WithMeta(key, value string) Option {
	return func(s *service) {
		if key != "" {
			s.metaKey = key
		}
		if value != "" {
			s.metaValue = value
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo         posts.FlaggedRepository
	now          func() time.Time
	rangeOpts    RangeOptions
	defaultTypes []string
	statuses     []string
	metaKey      string
	metaValue    string
	logger       interfaces.Logger
}

// NewService returns a search service reading from repo.
func NewService(repo posts.FlaggedRepository, opts ...Option) Service {
	s := &service{
		repo:         repo,
		now:          time.Now,
		rangeOpts:    RangeOptions{}.withDefaults(),
		defaultTypes: DefaultPostTypes,
		metaKey:      "dmg-read-more",
		metaValue:    "1",
		logger:       logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search resolves the date range, runs a single uncapped query and returns
// every matching identifier.
func (s *service) Search(ctx context.Context, req Request) (*Result, error) {
	rng, err := ResolveRange(req.DateBefore, req.DateAfter, s.now(), s.rangeOpts)
	if err != nil {
		return nil, err
	}
	types := ParsePostTypes(req.PostTypes, s.defaultTypes)

	ids, err := s.repo.FindFlagged(ctx, posts.FlaggedQuery{
		Types:     types,
		Statuses:  s.statuses,
		MetaKey:   s.metaKey,
		MetaValue: s.metaValue,
		After:     rng.After,
		Before:    rng.Before,
	})
	if err != nil {
		s.logger.Error("search.query.failed", "error", err)
		return nil, err
	}

	result := &Result{
		IDs:       ids,
		Total:     len(ids),
		Range:     rng,
		PostTypes: types,
	}
	s.logger.Debug("search.completed",
		"total", result.Total,
		"after", rng.After.Format(time.DateTime),
		"before", rng.Before.Format(time.DateTime),
		"post_types", strings.Join(types, ","),
	)
	return result, nil
}

// ParsePostTypes splits a comma-separated list. Entries are kept verbatim;
// empty entries are dropped and an empty list falls back to defaults.
func ParsePostTypes(raw string, defaults []string) []string {
	if len(defaults) == 0 {
		defaults = DefaultPostTypes
	}
	if raw == "" {
		return append([]string(nil), defaults...)
	}
	var types []string
	for _, part := range strings.Split(raw, ",") {
		if part != "" {
			types = append(types, part)
		}
	}
	if len(types) == 0 {
		return append([]string(nil), defaults...)
	}
	return types
}

// FormatIDs renders identifiers as a comma-and-space separated line.
func FormatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
