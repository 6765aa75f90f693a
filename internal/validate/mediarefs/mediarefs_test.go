package mediarefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/internal/logging"
)

var markers = []string{"/api/media/"}

func writeFile(t *testing.T, root, rel, body string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateFile_Body(t *testing.T) {
	t.Run("missing local asset", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.mdx",
			"# Trip\n\n![view](./photo.png)\n")

		v := New(contentRoot, logging.ForTest(t), markers)
		result := v.ValidateFile(path)

		if result.Count() != 1 {
			t.Fatalf("problems = %v, want one", result.Problems)
		}
		p := result.Problems[0]
		if p.Message != "Media file not found: photo.png" {
			t.Errorf("message = %q", p.Message)
		}
		if p.Severity != diag.SeverityWarning {
			t.Errorf("severity = %v, want warning", p.Severity)
		}
		// Positioned at the first occurrence of the basename (line 2).
		if p.Range.Start.Line != 2 {
			t.Errorf("line = %d, want 2", p.Range.Start.Line)
		}
	})

	t.Run("existing local asset", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.mdx",
			"# Trip\n\n![view](./photo.png)\n")
		writeFile(t, contentRoot, "blog/trip/photo.png", "png-bytes")

		v := New(contentRoot, logging.ForTest(t), markers)
		if result := v.ValidateFile(path); result.Count() != 0 {
			t.Errorf("problems = %v, want none", result.Problems)
		}
	})

	t.Run("remote urls are never checked", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.mdx",
			"# Trip\n\n![a](http://example.com/gone.png)\n![b](HTTPS://example.com/also-gone.jpg)\n")

		v := New(contentRoot, logging.ForTest(t), markers)
		if result := v.ValidateFile(path); result.Count() != 0 {
			t.Errorf("problems = %v, want none", result.Problems)
		}
	})

	t.Run("media endpoint marker resolves to item directory", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.mdx",
			"# Trip\n\n![c](/api/media/cover.jpg)\n")

		v := New(contentRoot, logging.ForTest(t), markers)
		result := v.ValidateFile(path)
		if result.Count() != 1 || result.Problems[0].Message != "Media file not found: cover.jpg" {
			t.Fatalf("problems = %v", result.Problems)
		}

		// Creating blog/trip/cover.jpg satisfies the reference.
		writeFile(t, contentRoot, "blog/trip/cover.jpg", "jpg")
		if result := v.ValidateFile(path); result.Count() != 0 {
			t.Errorf("problems after creating asset = %v", result.Problems)
		}
	})

	t.Run("absolute filesystem path used as-is", func(t *testing.T) {
		contentRoot := t.TempDir()
		asset := writeFile(t, contentRoot, "shared/logo.svg", "svg")
		path := writeFile(t, contentRoot, "blog/trip/index.mdx",
			"# Trip\n\n![logo]("+filepath.ToSlash(asset)+")\n")

		v := New(contentRoot, logging.ForTest(t), markers)
		if result := v.ValidateFile(path); result.Count() != 0 {
			t.Errorf("problems = %v, want none", result.Problems)
		}
	})
}

func TestValidateFile_Metadata(t *testing.T) {
	t.Run("missing cover image", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.json",
			`{"title": "Trip", "cover": "./cover.png"}`)

		v := New(contentRoot, logging.ForTest(t), markers)
		result := v.ValidateFile(path)
		if result.Count() != 1 || result.Problems[0].Message != "Media file not found: cover.png" {
			t.Fatalf("problems = %v", result.Problems)
		}
	})

	t.Run("unparseable metadata silently ignored", func(t *testing.T) {
		contentRoot := t.TempDir()
		path := writeFile(t, contentRoot, "blog/trip/index.json", `{"cover": `)

		v := New(contentRoot, logging.ForTest(t), markers)
		if result := v.ValidateFile(path); result.Count() != 0 {
			t.Errorf("problems = %v, want none (other rule-sets report parse errors)", result.Problems)
		}
	})
}

func TestValidateFile_OutsideContentLayout(t *testing.T) {
	contentRoot := t.TempDir()
	// index.mdx directly under the content root has no (type, slug) to
	// resolve assets against.
	path := writeFile(t, contentRoot, "index.mdx", "# Stray\n\n![x](./pic.png)\n")

	v := New(contentRoot, logging.ForTest(t), markers)
	if result := v.ValidateFile(path); result.Count() != 0 {
		t.Errorf("problems = %v, want none (layout cannot be derived)", result.Problems)
	}
}

func TestValidateFile_NoReferences(t *testing.T) {
	contentRoot := t.TempDir()
	path := writeFile(t, contentRoot, "blog/trip/index.mdx", "# Trip\n\nNo media here.\n")

	v := New(contentRoot, logging.ForTest(t), markers)
	if result := v.ValidateFile(path); result.Count() != 0 {
		t.Errorf("problems = %v, want none", result.Problems)
	}
}

func TestValidateAll(t *testing.T) {
	contentRoot := t.TempDir()
	writeFile(t, contentRoot, "blog/a/index.mdx", "# A\n\n![x](./missing.png)\n")
	writeFile(t, contentRoot, "blog/b/index.mdx", "# B\n\n![y](./found.png)\n")
	writeFile(t, contentRoot, "blog/b/found.png", "png")

	v := New(contentRoot, logging.ForTest(t), markers)
	result := v.ValidateAll()
	if result.Count() != 1 {
		t.Fatalf("problems = %v, want one", result.Problems)
	}
	if filepath.Base(filepath.Dir(result.Problems[0].File)) != "a" {
		t.Errorf("problem attributed to wrong item: %+v", result.Problems[0])
	}
}

func TestStatFailureTreatedAsMissing(t *testing.T) {
	contentRoot := t.TempDir()
	path := writeFile(t, contentRoot, "blog/a/index.mdx", "# A\n\n![x](./asset.png)\n")

	v := New(contentRoot, logging.ForTest(t), markers,
		WithExists(func(string) bool { return false }))
	result := v.ValidateFile(path)
	if result.Count() != 1 {
		t.Errorf("stat failures should fail safe as missing: %v", result.Problems)
	}
}
