package content

import (
	"io/fs"
	"path/filepath"

	"github.com/thoreinstein/mdsync/internal/errors"
)

// FilesByName walks the content root depth-first and returns every file
// whose base name exactly matches one of names, in walk order. A missing
// content root yields an empty list without error.
func FilesByName(contentRoot string, names ...string) ([]string, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var files []string
	err := filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && wanted[d.Name()] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "walking content directory")
	}
	return files, nil
}
