package blocks

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-anchorlink/internal/validation"
)

// BlockType describes a block that the editor can insert and the server can
// validate.
type BlockType struct {
	Name        string
	Title       string
	Description string
	Category    string
	Attributes  map[string]any
}

type registryEntry struct {
	blockType BlockType
	schema    *validation.Schema
}

// Registry stores block types keyed by normalized name.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
}

// NewRegistry constructs an empty block registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// NewDefaultRegistry returns a registry with the anchor-link block registered.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	if err := registry.Register(AnchorLinkType()); err != nil {
		panic(fmt.Sprintf("blocks: register anchor link: %v", err))
	}
	return registry
}

// AnchorLinkType is the block type definition of the anchor-link block.
func AnchorLinkType() BlockType {
	return BlockType{
		Name:        AnchorLinkName,
		Title:       "DMG Anchor Link",
		Description: "Add a stylized anchor link.",
		Category:    "widgets",
		Attributes:  AnchorLinkSchema(),
	}
}

// Register adds a block type. Names must carry a namespace and be unique.
func (r *Registry) Register(blockType BlockType) error {
	name := strings.ToLower(strings.TrimSpace(blockType.Name))
	if name == "" {
		return ErrBlockNameRequired
	}
	if parts := strings.Split(name, "/"); len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: %q", ErrBlockNameInvalid, blockType.Name)
	}
	blockType.Name = name

	var schema *validation.Schema
	if len(blockType.Attributes) > 0 {
		compiled, err := validation.Compile(strings.ReplaceAll(name, "/", "."), blockType.Attributes)
		if err != nil {
			return fmt.Errorf("blocks: %s: %w", name, err)
		}
		schema = compiled
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrBlockTypeExists, name)
	}
	r.entries[name] = registryEntry{blockType: blockType, schema: schema}
	return nil
}

// Lookup returns a registered block type.
func (r *Registry) Lookup(name string) (BlockType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[NormalizeName(name)]
	return entry.blockType, ok
}

// List returns the registered block types sorted by name.
func (r *Registry) List() []BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]BlockType, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry.blockType)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateAttributes validates attrs against the registered schema of name.
func (r *Registry) ValidateAttributes(name string, attrs map[string]any) error {
	r.mu.RLock()
	entry, ok := r.entries[NormalizeName(name)]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockTypeNotFound, name)
	}
	if entry.schema == nil {
		return nil
	}
	if attrs == nil {
		attrs = map[string]any{}
	}
	if err := entry.schema.Validate(attrs); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAttributesInvalid, entry.blockType.Name, err)
	}
	return nil
}

// ValidateBody validates every registered block found in body. Unregistered
// blocks and freeform HTML are ignored.
func (r *Registry) ValidateBody(body string) error {
	var firstErr error
	Walk(Parse(body), func(block Block) bool {
		if block.IsFreeform() {
			return true
		}
		if _, ok := r.Lookup(block.Name); !ok {
			return true
		}
		if err := r.ValidateAttributes(block.Name, block.Attrs); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}
