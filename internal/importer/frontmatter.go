package importer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-anchorlink/internal/blocks"
)

// Document is a parsed markdown source file.
type Document struct {
	Path     string
	Title    string
	Slug     string
	Type     string
	Status   string
	Date     time.Time
	ReadMore *blocks.SelectedPost
	Body     []byte
	Modified time.Time
}

type frontMatterEnvelope struct {
	Title    string            `yaml:"title"`
	Slug     string            `yaml:"slug"`
	Type     string            `yaml:"type"`
	Status   string            `yaml:"status"`
	Date     time.Time         `yaml:"date"`
	Draft    bool              `yaml:"draft"`
	ReadMore *readMoreEnvelope `yaml:"read_more"`
}

type readMoreEnvelope struct {
	ID    int64  `yaml:"id"`
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}

// ParseDocument extracts frontmatter and the markdown body from source.
func ParseDocument(path string, source []byte, modified time.Time) (*Document, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter %s: %w", path, err)
	}

	doc := &Document{
		Path:     path,
		Title:    strings.TrimSpace(meta.Title),
		Slug:     strings.TrimSpace(meta.Slug),
		Type:     strings.TrimSpace(meta.Type),
		Status:   strings.TrimSpace(meta.Status),
		Date:     meta.Date,
		Body:     body,
		Modified: modified,
	}
	if doc.Status == "" {
		doc.Status = "publish"
		if meta.Draft {
			doc.Status = "draft"
		}
	}
	if meta.ReadMore != nil {
		doc.ReadMore = &blocks.SelectedPost{
			ID:    meta.ReadMore.ID,
			Title: blocks.Title{Rendered: meta.ReadMore.Title},
			Link:  strings.TrimSpace(meta.ReadMore.Link),
		}
	}
	return doc, nil
}

// ModifiedAt prefers the frontmatter date over the file modification time.
func (d *Document) ModifiedAt() time.Time {
	if !d.Date.IsZero() {
		return d.Date
	}
	return d.Modified
}
