package blocks

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `<!-- wp:paragraph -->
<p>Intro</p>
<!-- /wp:paragraph -->

<!-- wp:group {"layout":{"type":"constrained"}} -->
<div class="wp-block-group"><!-- wp:create-block/dmg-anchor-link {"selectedPost":{"id":22,"title":{"rendered":"Second post"},"link":"https://example.com/second-post/"}} /--></div>
<!-- /wp:group -->`

func TestParseBuildsNestedTree(t *testing.T) {
	parsed := Parse(sampleBody)

	require.Len(t, parsed, 2)
	assert.Equal(t, "core/paragraph", parsed[0].Name)
	assert.Contains(t, parsed[0].InnerHTML, "<p>Intro</p>")

	group := parsed[1]
	assert.Equal(t, "core/group", group.Name)
	require.Len(t, group.InnerBlocks, 1)
	assert.Equal(t, AnchorLinkName, group.InnerBlocks[0].Name)
	assert.Contains(t, group.InnerHTML, `<div class="wp-block-group">`)

	layout, ok := group.Attrs["layout"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "constrained", layout["type"])
}

func TestParseKeepsFreeformHTML(t *testing.T) {
	parsed := Parse("<p>classic editor content</p>")
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].IsFreeform())

	assert.Nil(t, Parse("   \n"))
}

func TestParseClosesUnbalancedBlocks(t *testing.T) {
	parsed := Parse(`<!-- wp:quote --><p>open</p><!-- /wp:paragraph -->`)
	require.Len(t, parsed, 1)
	assert.Equal(t, "core/quote", parsed[0].Name)
	assert.Equal(t, "<p>open</p>", parsed[0].InnerHTML)
}

func TestHas(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{name: "nested void block", body: sampleBody, want: true},
		{name: "paired block", body: `<!-- wp:create-block/dmg-anchor-link --><p>x</p><!-- /wp:create-block/dmg-anchor-link -->`, want: true},
		{name: "absent", body: `<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->`, want: false},
		{name: "prefix only", body: `<!-- wp:create-block/dmg-anchor-link-legacy /-->`, want: false},
		{name: "plain text mention", body: `<p>wp:create-block/dmg-anchor-link</p>`, want: false},
		{name: "empty", body: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Has(tc.body, AnchorLinkName))
		})
	}
}

func TestHasResolvesCoreNamespace(t *testing.T) {
	body := `<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->`
	assert.True(t, Has(body, "paragraph"))
	assert.True(t, Has(body, "core/paragraph"))
}

func TestSerializeEscapesCommentTerminators(t *testing.T) {
	markup, err := Serialize(AnchorLinkName, map[string]any{
		"selectedPost": map[string]any{"id": 3, "title": map[string]any{"rendered": "a --> b"}},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(markup, "<!-- wp:create-block/dmg-anchor-link {"))
	assert.True(t, strings.HasSuffix(markup, " /-->"))
	assert.NotContains(t, markup[len("<!-- "):len(markup)-len(" /-->")], "-->")

	parsed := Parse(markup)
	require.Len(t, parsed, 1)
	selected := parsed[0].Attrs["selectedPost"].(map[string]any)
	assert.Equal(t, json.Number("3"), selected["id"])
	assert.Equal(t, "a --> b", selected["title"].(map[string]any)["rendered"])
}

func TestSerializeCoreBlockDropsNamespace(t *testing.T) {
	markup, err := Serialize("core/separator", nil)
	require.NoError(t, err)
	assert.Equal(t, "<!-- wp:separator /-->", markup)

	_, err = Serialize(" ", nil)
	assert.ErrorIs(t, err, ErrBlockNameRequired)
}
