// Package content models the content repository layout: items identified by
// a (type, slug) pair living under <content root>/<type>/<slug>/, each made
// of a metadata document (index.json) and a companion body document
// (index.mdx). The content root is the content directory itself; its name
// ("content" by default) is configurable and resolved by the caller.
package content

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/mdsync/internal/errors"
)

const (
	// ContentDirName is the default name of the directory at the repository
	// root that holds all content items. Overridable via the content_dir
	// config key.
	ContentDirName = "content"

	// MetadataFileName is the exact name of an item's metadata document.
	MetadataFileName = "index.json"

	// BodyFileName is the exact name of an item's body document.
	BodyFileName = "index.mdx"
)

// Item identifies one content unit by its type and slug.
type Item struct {
	Type string
	Slug string
}

func (i Item) String() string {
	return i.Type + "/" + i.Slug
}

// Dir returns the item's directory under the content root.
func (i Item) Dir(contentRoot string) string {
	return filepath.Join(contentRoot, i.Type, i.Slug)
}

// MetadataPath returns the absolute path of the item's metadata document.
func (i Item) MetadataPath(contentRoot string) string {
	return filepath.Join(i.Dir(contentRoot), MetadataFileName)
}

// BodyPath returns the absolute path of the item's body document.
func (i Item) BodyPath(contentRoot string) string {
	return filepath.Join(i.Dir(contentRoot), BodyFileName)
}

// IsMetadataFile reports whether path names a metadata document.
func IsMetadataFile(path string) bool {
	return filepath.Base(path) == MetadataFileName
}

// IsBodyFile reports whether path names a body document.
func IsBodyFile(path string) bool {
	return filepath.Base(path) == BodyFileName
}

// ItemFromPath derives the (type, slug) pair for a file under the content
// root. The path, relative to the content root, must have at least a type
// and a slug segment; otherwise ErrInvalidPath is returned.
func ItemFromPath(contentRoot, path string) (Item, error) {
	rel, err := filepath.Rel(contentRoot, path)
	if err != nil {
		return Item{}, errors.Wrap(errors.ErrInvalidPath, err.Error())
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 || parts[0] == ".." || parts[0] == "." {
		return Item{}, errors.Wrapf(errors.ErrInvalidPath, "%s is not under <type>/<slug>", rel)
	}
	return Item{Type: parts[0], Slug: parts[1]}, nil
}

// Discover walks the content root and returns every item that has a
// metadata document, sorted by type then slug. A missing content root
// yields an empty list without error.
func Discover(contentRoot string) ([]Item, error) {
	if _, err := os.Stat(contentRoot); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading content directory")
	}

	var items []Item
	err := filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != MetadataFileName {
			return nil
		}
		item, derr := ItemFromPath(contentRoot, path)
		if derr != nil {
			return nil // metadata file outside the expected layout; skip
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking content directory")
	}

	sort.Slice(items, func(a, b int) bool {
		if items[a].Type != items[b].Type {
			return items[a].Type < items[b].Type
		}
		return items[a].Slug < items[b].Slug
	})
	return items, nil
}
