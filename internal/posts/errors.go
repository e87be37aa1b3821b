package posts

import (
	"errors"
	"fmt"
)

var (
	ErrPostIDRequired   = errors.New("posts: post id required")
	ErrTitleRequired    = errors.New("posts: title or slug required")
	ErrTypeRequired     = errors.New("posts: post type required")
	ErrRevisionReadOnly = errors.New("posts: revisions cannot be updated directly")
	ErrMetaKeyRequired  = errors.New("posts: meta key required")
	ErrQueryTypes       = errors.New("posts: at least one post type required")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
