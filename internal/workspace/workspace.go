// Package workspace locates the content repository root that mdsync
// operates on.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/mdsync/internal/content"
	"github.com/thoreinstein/mdsync/internal/errors"
)

// LocalConfigName is the repo-local configuration file that also marks the
// repository root.
const LocalConfigName = ".mdsync.toml"

// Workspace is a resolved content repository.
type Workspace struct {
	// Root is the absolute path of the repository root.
	Root string

	// ContentDirName is the name of the content directory under Root.
	// Defaults to content.ContentDirName; the content_dir config key may
	// rename it.
	ContentDirName string
}

// ContentDir returns the absolute path of the content directory.
func (w *Workspace) ContentDir() string {
	return filepath.Join(w.Root, w.ContentDirName)
}

// LocalConfigPath returns the absolute path of the repo-local config file.
// The file may not exist.
func (w *Workspace) LocalConfigPath() string {
	return filepath.Join(w.Root, LocalConfigName)
}

// Find walks up from start until it finds a directory containing either a
// content directory or a repo-local config file. contentDirName overrides
// the directory name used as the marker; empty means the default. Returns
// ErrNoContentRoot when no marker is found before the filesystem root.
func Find(start, contentDirName string) (*Workspace, error) {
	if contentDirName == "" {
		contentDirName = content.ContentDirName
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, errors.Wrap(err, "resolving start directory")
	}

	for {
		if isRoot(dir, contentDirName) {
			return &Workspace{Root: dir, ContentDirName: contentDirName}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, errors.Wrapf(errors.ErrNoContentRoot, "searched from %s", start)
		}
		dir = parent
	}
}

// At returns a workspace rooted at the given directory without searching.
// The directory must exist; the content directory may not (validators treat
// a missing content root as an empty repository).
func At(dir string) (*Workspace, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving directory")
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(err, "reading directory")
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrInvalidPath, "%s is not a directory", dir)
	}
	return &Workspace{Root: abs, ContentDirName: content.ContentDirName}, nil
}

func isRoot(dir, contentDirName string) bool {
	if info, err := os.Stat(filepath.Join(dir, contentDirName)); err == nil && info.IsDir() {
		return true
	}
	if _, err := os.Stat(filepath.Join(dir, LocalConfigName)); err == nil {
		return true
	}
	return false
}
