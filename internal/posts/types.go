package posts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Well-known post types. The set is open; hosts may store any type tag.
const (
	TypePost     = "post"
	TypePage     = "page"
	TypeRevision = "revision"
)

// Post statuses understood by the save pipeline.
const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
	StatusInherit = "inherit"
)

const (
	revisionSlugFormat = "%d-revision-v1"
	autosaveSlugFormat = "%d-autosave-v1"
)

// Post is the canonical content record. Revisions and autosaves are stored as
// posts of type revision whose Parent points at the owning post.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	GUID       uuid.UUID `bun:"guid,type:uuid,notnull" json:"guid"`
	Type       string    `bun:"type,notnull" json:"type"`
	Status     string    `bun:"status,notnull" json:"status"`
	Title      string    `bun:"title,notnull" json:"title"`
	Slug       string    `bun:"slug,notnull" json:"slug"`
	Content    string    `bun:"content,notnull" json:"content"`
	Parent     int64     `bun:"parent_id,notnull,default:0" json:"parent_id"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
	ModifiedAt time.Time `bun:"modified_at,notnull" json:"modified_at"`
}

// Meta is a single named value attached to a post.
type Meta struct {
	bun.BaseModel `bun:"table:post_meta,alias:pm"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	PostID int64  `bun:"post_id,notnull" json:"post_id"`
	Key    string `bun:"meta_key,notnull" json:"meta_key"`
	Value  string `bun:"meta_value,notnull" json:"meta_value"`
}

// IsRevision reports whether the record is a revision snapshot, autosaves included.
func IsRevision(post *Post) bool {
	return post != nil && post.Type == TypeRevision
}

// IsAutosave reports whether the record is the autosave revision of its parent.
func IsAutosave(post *Post) bool {
	if !IsRevision(post) {
		return false
	}
	return strings.Contains(post.Slug, fmt.Sprintf("%d-autosave", post.Parent))
}

// FlaggedQuery selects posts carrying an exact meta value within an inclusive
// modification window.
type FlaggedQuery struct {
	Types     []string
	Statuses  []string
	MetaKey   string
	MetaValue string
	After     time.Time
	Before    time.Time
}

// Matches reports whether post satisfies the type, status and date filters.
// The meta filter is evaluated by the caller.
func (q FlaggedQuery) Matches(post *Post) bool {
	if post == nil {
		return false
	}
	if !contains(q.Types, post.Type) {
		return false
	}
	if len(q.Statuses) > 0 && !contains(q.Statuses, post.Status) {
		return false
	}
	modified := normalizeTime(post.ModifiedAt)
	return !modified.Before(normalizeTime(q.After)) && !modified.After(normalizeTime(q.Before))
}

// ListOptions narrows repository listings.
type ListOptions struct {
	Types  []string
	Parent *int64
}

func (o ListOptions) matches(post *Post) bool {
	if len(o.Types) > 0 && !contains(o.Types, post.Type) {
		return false
	}
	if o.Parent != nil && post.Parent != *o.Parent {
		return false
	}
	return true
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

func clonePost(src *Post) *Post {
	if src == nil {
		return nil
	}
	copied := *src
	return &copied
}
