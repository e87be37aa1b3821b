package blocks

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

const delimiterPrefix = "<!-- wp:"

// delimiterPattern matches opening, closing and void block comment delimiters:
//
//	<!-- wp:namespace/name {"attr":1} -->
//	<!-- /wp:namespace/name -->
//	<!-- wp:name /-->
var delimiterPattern = regexp.MustCompile(`(?s)<!--\s+(/)?wp:([a-z][a-z0-9_-]*/)?([a-z][a-z0-9_-]*)\s+(\{.*?\}\s+)?(/)?-->`)

type delimiterKind int

const (
	delimiterOpen delimiterKind = iota
	delimiterClose
	delimiterVoid
)

type delimiter struct {
	kind  delimiterKind
	name  string
	attrs map[string]any
	start int
	end   int
}

type frame struct {
	block Block
}

// Parse splits a serialized post body into its block tree. Unbalanced closers
// are ignored and unclosed openers are closed at the end of the body.
func Parse(body string) []Block {
	if !strings.Contains(body, delimiterPrefix) {
		if strings.TrimSpace(body) == "" {
			return nil
		}
		return []Block{{Name: freeformName, InnerHTML: body}}
	}

	var (
		output []Block
		stack  []*frame
		offset int
	)

	appendBlock := func(block Block) {
		if len(stack) == 0 {
			output = append(output, block)
			return
		}
		parent := stack[len(stack)-1]
		parent.block.InnerBlocks = append(parent.block.InnerBlocks, block)
	}

	appendFreeform := func(html string) {
		if len(stack) > 0 {
			stack[len(stack)-1].block.InnerHTML += html
			return
		}
		if strings.TrimSpace(html) != "" {
			output = append(output, Block{Name: freeformName, InnerHTML: html})
		}
	}

	for _, token := range tokenize(body) {
		appendFreeform(body[offset:token.start])
		offset = token.end

		switch token.kind {
		case delimiterVoid:
			appendBlock(Block{Name: token.name, Attrs: token.attrs})
		case delimiterOpen:
			stack = append(stack, &frame{block: Block{Name: token.name, Attrs: token.attrs}})
		case delimiterClose:
			idx := indexOfOpen(stack, token.name)
			if idx < 0 {
				continue
			}
			for len(stack) > idx {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				appendBlock(top.block)
			}
		}
	}

	appendFreeform(body[offset:])
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		appendBlock(top.block)
	}
	return output
}

// Has reports whether a block with the given name appears anywhere in the
// body, nested blocks included. Names without a namespace resolve to core/.
func Has(body, name string) bool {
	name = NormalizeName(name)
	if name == "" || !strings.Contains(body, delimiterPrefix) {
		return false
	}
	for _, token := range tokenize(body) {
		if token.kind != delimiterClose && token.name == name {
			return true
		}
	}
	return false
}

// Find returns the first block with the given name in document order.
func Find(blocks []Block, name string) (Block, bool) {
	name = NormalizeName(name)
	for _, block := range blocks {
		if block.Name == name {
			return block, true
		}
		if found, ok := Find(block.InnerBlocks, name); ok {
			return found, true
		}
	}
	return Block{}, false
}

// Walk visits every block depth-first until fn returns false.
func Walk(blocks []Block, fn func(Block) bool) bool {
	for _, block := range blocks {
		if !fn(block) {
			return false
		}
		if !Walk(block.InnerBlocks, fn) {
			return false
		}
	}
	return true
}

// NormalizeName lowercases the name and adds the core/ namespace when missing.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	if !strings.Contains(name, "/") {
		return defaultNamespace + "/" + name
	}
	return name
}

// Serialize renders a void block delimiter. Attribute JSON is escaped so it
// can never terminate the surrounding HTML comment.
func Serialize(name string, attrs map[string]any) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", ErrBlockNameRequired
	}
	serializedName := strings.TrimPrefix(name, defaultNamespace+"/")
	if len(attrs) == 0 {
		return delimiterPrefix + serializedName + " /-->", nil
	}
	encoded, err := encodeAttributes(attrs)
	if err != nil {
		return "", err
	}
	return delimiterPrefix + serializedName + " " + encoded + " /-->", nil
}

func tokenize(body string) []delimiter {
	matches := delimiterPattern.FindAllStringSubmatchIndex(body, -1)
	tokens := make([]delimiter, 0, len(matches))
	for _, m := range matches {
		namespace := defaultNamespace + "/"
		if m[4] >= 0 {
			namespace = body[m[4]:m[5]]
		}
		token := delimiter{
			name:  namespace + body[m[6]:m[7]],
			start: m[0],
			end:   m[1],
		}
		switch {
		case m[2] >= 0:
			token.kind = delimiterClose
		case m[10] >= 0:
			token.kind = delimiterVoid
		default:
			token.kind = delimiterOpen
		}
		if token.kind != delimiterClose && m[8] >= 0 {
			token.attrs = decodeAttributes(body[m[8]:m[9]])
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// decodeAttributes keeps numbers as json.Number so post identifiers survive
// without float rounding. Malformed JSON yields nil attributes.
func decodeAttributes(raw string) map[string]any {
	decoder := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	decoder.UseNumber()
	var attrs map[string]any
	if err := decoder.Decode(&attrs); err != nil {
		return nil
	}
	return attrs
}

func encodeAttributes(attrs map[string]any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(attrs); err != nil {
		return "", err
	}
	encoded := strings.TrimSuffix(buf.String(), "\n")
	encoded = strings.ReplaceAll(encoded, "--", `\u002d\u002d`)
	return encoded, nil
}

func indexOfOpen(stack []*frame, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].block.Name == name {
			return i
		}
	}
	return -1
}
