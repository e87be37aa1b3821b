package posts

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory post and meta store for scaffolding/tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	posts  map[int64]*Post
	meta   map[int64]map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs the store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts: make(map[int64]*Post),
		meta:  make(map[int64]map[string]string),
	}
}

// Create inserts the supplied post and assigns the next identifier when unset.
func (m *MemoryStore) Create(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := clonePost(record)
	if copied.ID == 0 {
		m.nextID++
		copied.ID = m.nextID
	} else if copied.ID > m.nextID {
		m.nextID = copied.ID
	}
	if copied.GUID == uuid.Nil {
		copied.GUID = uuid.New()
	}
	copied.CreatedAt = normalizeTime(copied.CreatedAt)
	copied.ModifiedAt = normalizeTime(copied.ModifiedAt)
	m.posts[copied.ID] = copied
	return clonePost(copied), nil
}

// Update replaces an existing post.
func (m *MemoryStore) Update(_ context.Context, record *Post) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[record.ID]; !ok {
		return nil, &NotFoundError{Resource: "post", Key: strconv.FormatInt(record.ID, 10)}
	}
	copied := clonePost(record)
	copied.CreatedAt = normalizeTime(copied.CreatedAt)
	copied.ModifiedAt = normalizeTime(copied.ModifiedAt)
	m.posts[copied.ID] = copied
	return clonePost(copied), nil
}

// GetByID retrieves a post by identifier.
func (m *MemoryStore) GetByID(_ context.Context, id int64) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, &NotFoundError{Resource: "post", Key: strconv.FormatInt(id, 10)}
	}
	return clonePost(post), nil
}

// GetByGUID retrieves a post by its stable GUID.
func (m *MemoryStore) GetByGUID(_ context.Context, guid uuid.UUID) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, post := range m.posts {
		if post.GUID == guid {
			return clonePost(post), nil
		}
	}
	return nil, &NotFoundError{Resource: "post", Key: guid.String()}
}

// GetBySlug retrieves a post of the given type by slug.
func (m *MemoryStore) GetBySlug(_ context.Context, postType, slug string) (*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, post := range m.sortedLocked() {
		if post.Type == postType && post.Slug == slug {
			return clonePost(post), nil
		}
	}
	return nil, &NotFoundError{Resource: "post", Key: slug}
}

// List returns posts ordered by identifier.
func (m *MemoryStore) List(_ context.Context, opts ListOptions) ([]*Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Post, 0, len(m.posts))
	for _, post := range m.sortedLocked() {
		if opts.matches(post) {
			out = append(out, clonePost(post))
		}
	}
	return out, nil
}

// GetMeta returns the stored value and whether the key exists.
func (m *MemoryStore) GetMeta(_ context.Context, postID int64, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrMetaKeyRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.meta[postID][key]
	return value, ok, nil
}

// UpsertMeta sets key to value for the post.
func (m *MemoryStore) UpsertMeta(_ context.Context, postID int64, key, value string) error {
	if key == "" {
		return ErrMetaKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, ok := m.meta[postID]
	if !ok {
		entries = make(map[string]string)
		m.meta[postID] = entries
	}
	entries[key] = value
	return nil
}

// DeleteMeta removes key from the post. Missing keys are not an error.
func (m *MemoryStore) DeleteMeta(_ context.Context, postID int64, key string) error {
	if key == "" {
		return ErrMetaKeyRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meta[postID], key)
	if len(m.meta[postID]) == 0 {
		delete(m.meta, postID)
	}
	return nil
}

// FindFlagged returns the identifiers of posts matching query.
func (m *MemoryStore) FindFlagged(_ context.Context, query FlaggedQuery) ([]int64, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Post
	for _, post := range m.posts {
		if !query.Matches(post) {
			continue
		}
		value, ok := m.meta[post.ID][query.MetaKey]
		if !ok || value != query.MetaValue {
			continue
		}
		matched = append(matched, post)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ModifiedAt.Equal(matched[j].ModifiedAt) {
			return matched[i].ModifiedAt.After(matched[j].ModifiedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	ids := make([]int64, 0, len(matched))
	for _, post := range matched {
		ids = append(ids, post.ID)
	}
	return ids, nil
}

func (m *MemoryStore) sortedLocked() []*Post {
	out := make([]*Post, 0, len(m.posts))
	for _, post := range m.posts {
		out = append(out, post)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
