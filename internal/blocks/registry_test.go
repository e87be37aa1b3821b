package blocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryKnowsAnchorLink(t *testing.T) {
	registry := NewDefaultRegistry()

	blockType, ok := registry.Lookup(AnchorLinkName)
	require.True(t, ok)
	assert.Equal(t, "DMG Anchor Link", blockType.Title)
	assert.Len(t, registry.List(), 1)
}

func TestRegistryRejectsInvalidNames(t *testing.T) {
	registry := NewRegistry()

	assert.ErrorIs(t, registry.Register(BlockType{}), ErrBlockNameRequired)
	assert.ErrorIs(t, registry.Register(BlockType{Name: "paragraph"}), ErrBlockNameInvalid)
	require.NoError(t, registry.Register(BlockType{Name: "acme/card"}))
	assert.ErrorIs(t, registry.Register(BlockType{Name: "ACME/card"}), ErrBlockTypeExists)
}

func TestRegistryValidateBody(t *testing.T) {
	registry := NewDefaultRegistry()

	require.NoError(t, registry.ValidateBody(sampleBody))
	require.NoError(t, registry.ValidateBody(`<!-- wp:create-block/dmg-anchor-link /-->`))

	invalid := `<!-- wp:create-block/dmg-anchor-link {"selectedPost":{"id":"abc","link":"x"}} /-->`
	assert.ErrorIs(t, registry.ValidateBody(invalid), ErrAttributesInvalid)

	missingLink := `<!-- wp:create-block/dmg-anchor-link {"selectedPost":{"id":3}} /-->`
	assert.ErrorIs(t, registry.ValidateBody(missingLink), ErrAttributesInvalid)
}

func TestRegistryValidateAttributesUnknownType(t *testing.T) {
	registry := NewRegistry()
	assert.ErrorIs(t, registry.ValidateAttributes("acme/missing", nil), ErrBlockTypeNotFound)
}
