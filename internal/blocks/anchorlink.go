package blocks

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-anchorlink/pkg/interfaces"
)

// AnchorLinkDetector tests post bodies for the anchor-link block.
type AnchorLinkDetector struct {
	name string
}

var _ interfaces.AnchorLinkDetector = AnchorLinkDetector{}

// NewAnchorLinkDetector returns a detector for the given block name, falling
// back to AnchorLinkName when blank.
func NewAnchorLinkDetector(name string) AnchorLinkDetector {
	if strings.TrimSpace(name) == "" {
		name = AnchorLinkName
	}
	return AnchorLinkDetector{name: NormalizeName(name)}
}

// ContainsAnchorLinkBlock reports presence only; multiple occurrences count once.
func (d AnchorLinkDetector) ContainsAnchorLinkBlock(body string) bool {
	name := d.name
	if name == "" {
		name = AnchorLinkName
	}
	return Has(body, name)
}

// ExtractAnchorLink decodes the first anchor-link block found in body.
func ExtractAnchorLink(body string) (AnchorLink, error) {
	block, ok := Find(Parse(body), AnchorLinkName)
	if !ok {
		return AnchorLink{}, ErrAnchorLinkMissing
	}
	return DecodeAnchorLink(block.Attrs)
}

// DecodeAnchorLink converts raw block attributes into an AnchorLink.
func DecodeAnchorLink(attrs map[string]any) (AnchorLink, error) {
	var link AnchorLink
	if len(attrs) == 0 {
		return link, nil
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return link, fmt.Errorf("%w: %v", ErrAttributesInvalid, err)
	}
	if err := json.Unmarshal(encoded, &link); err != nil {
		return link, fmt.Errorf("%w: %v", ErrAttributesInvalid, err)
	}
	return link, nil
}

// AnchorLinkMarkup serializes an anchor-link block pointing at target.
func AnchorLinkMarkup(target SelectedPost) (string, error) {
	if target.ID <= 0 {
		return "", ErrSelectedPostMissing
	}
	return Serialize(AnchorLinkName, map[string]any{
		AnchorLinkAttribute: map[string]any{
			"id":    target.ID,
			"title": map[string]any{"rendered": target.Title.Rendered},
			"link":  target.Link,
		},
	})
}

// AnchorLinkSchema is the attribute schema registered for the anchor-link block.
func AnchorLinkSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			AnchorLinkAttribute: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id": map[string]any{"type": "integer", "minimum": 1},
					"title": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"rendered": map[string]any{"type": "string"},
						},
					},
					"link": map[string]any{"type": "string"},
				},
				"required": []any{"id", "link"},
			},
		},
	}
}
