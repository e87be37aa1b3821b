package importer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDirectory parses every file under root matching pattern. Paths in the
// returned documents are slash-separated and relative to fsys.
func LoadDirectory(ctx context.Context, fsys fs.FS, root, pattern string, recursive bool) ([]*Document, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	root = filepath.ToSlash(filepath.Clean(root))

	var docs []*Document
	walkErr := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesPattern(path, pattern) {
			return nil
		}

		doc, err := LoadFile(fsys, path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// LoadFile reads and parses a single markdown document.
func LoadFile(fsys fs.FS, path string) (*Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", path, err)
	}
	info, err := fs.Stat(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", path, err)
	}
	return ParseDocument(path, data, info.ModTime())
}

func matchesPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := filepath.Base(path)
	if strings.Contains(pattern, "/") {
		target = path
	}
	match, err := filepath.Match(pattern, target)
	return err == nil && match
}
