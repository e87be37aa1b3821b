package blocks

import "errors"

const (
	// AnchorLinkName is the registered name of the anchor-link block.
	AnchorLinkName = "create-block/dmg-anchor-link"
	// AnchorLinkAttribute holds the post chosen by the author.
	AnchorLinkAttribute = "selectedPost"

	defaultNamespace = "core"
	freeformName     = ""
)

var (
	ErrBlockNameRequired   = errors.New("blocks: block name is required")
	ErrBlockNameInvalid    = errors.New("blocks: block name must be namespace/name")
	ErrBlockTypeExists     = errors.New("blocks: block type already registered")
	ErrBlockTypeNotFound   = errors.New("blocks: block type not registered")
	ErrAttributesInvalid   = errors.New("blocks: block attributes invalid")
	ErrAnchorLinkMissing   = errors.New("blocks: anchor link block not found")
	ErrSelectedPostMissing = errors.New("blocks: anchor link has no selected post")
)

// Block is a parsed block delimiter pair (or void delimiter) from a post body.
// Freeform HTML between delimiters is kept as a Block with an empty Name.
type Block struct {
	Name        string
	Attrs       map[string]any
	InnerBlocks []Block
	InnerHTML   string
}

// IsFreeform reports whether the block is plain HTML outside any delimiter.
func (b Block) IsFreeform() bool {
	return b.Name == freeformName
}

// Title mirrors the rendered title object stored by the editor.
type Title struct {
	Rendered string `json:"rendered"`
}

// SelectedPost is the link target an author picks in the editor.
type SelectedPost struct {
	ID    int64  `json:"id"`
	Title Title  `json:"title"`
	Link  string `json:"link"`
}

// AnchorLink is the decoded attribute set of the anchor-link block.
type AnchorLink struct {
	SelectedPost *SelectedPost `json:"selectedPost,omitempty"`
}
