package validate

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/internal/logging"
)

// fakeValidator returns canned problems keyed by path, or everything for
// ValidateAll.
type fakeValidator struct {
	id       string
	problems []diag.Problem
	panics   bool
}

func (f *fakeValidator) ID() string   { return f.id }
func (f *fakeValidator) Name() string { return f.id }

func (f *fakeValidator) ValidateAll() diag.Result {
	if f.panics {
		panic("rule-set defect")
	}
	return diag.Result{Problems: f.problems}
}

func (f *fakeValidator) ValidateFile(path string) diag.Result {
	if f.panics {
		panic("rule-set defect")
	}
	var result diag.Result
	for _, p := range f.problems {
		if p.File == path {
			result.Add(p)
		}
	}
	return result
}

func problem(file, source, msg string) diag.Problem {
	return diag.Problem{File: file, Message: msg, Severity: diag.SeverityError, Source: source}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(logging.ForTest(t)),
		withExists(func(string) bool { return true }),
	}
	return NewEngine("/repo", append(base, opts...)...)
}

func TestValidateAll_MergesInRegistrationOrder(t *testing.T) {
	a := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem("/repo/content/blog/x/index.json", "alpha", "a1"),
	}}
	b := &fakeValidator{id: "beta", problems: []diag.Problem{
		problem("/repo/content/blog/x/index.json", "beta", "b1"),
		problem("/repo/content/blog/y/index.mdx", "beta", "b2"),
	}}

	e := newTestEngine(t)
	e.Register(a, b)

	result := e.ValidateAll()
	require.Equal(t, 3, result.Count())

	var sources []string
	for _, p := range result.Problems {
		sources = append(sources, p.Source)
	}
	assert.Equal(t, []string{"alpha", "beta", "beta"}, sources,
		"problems must keep rule-set registration order")

	// Outputs are additive, never deduplicated across rule-sets.
	assert.Len(t, e.Store().ForFile("/repo/content/blog/x/index.json"), 2)
}

func TestValidateAll_Idempotent(t *testing.T) {
	v := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem("/repo/content/blog/x/index.json", "alpha", "a1"),
	}}

	e := newTestEngine(t)
	e.Register(v)

	first := e.ValidateAll()
	second := e.ValidateAll()
	assert.True(t, reflect.DeepEqual(first, second),
		"re-running with no changes must produce an identical problem set")
	assert.Equal(t, 1, e.Store().Count())
}

func TestValidateAll_FaultIsolation(t *testing.T) {
	broken := &fakeValidator{id: "broken", panics: true}
	healthy := &fakeValidator{id: "healthy", problems: []diag.Problem{
		problem("/repo/content/blog/x/index.json", "healthy", "still works"),
	}}

	e := newTestEngine(t)
	e.Register(broken, healthy)

	result := e.ValidateAll()
	require.Equal(t, 1, result.Count(), "a defect in one rule-set must not abort the others")
	assert.Equal(t, "healthy", result.Problems[0].Source)
}

func TestValidateAll_ReplacesStalePresentation(t *testing.T) {
	v := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem("/repo/content/blog/old/index.json", "alpha", "old"),
	}}

	e := newTestEngine(t)
	e.Register(v)
	e.ValidateAll()
	require.Equal(t, 1, e.Store().Count())

	// The next run reports a different file; the old entry must vanish even
	// though nothing explicitly cleared it.
	v.problems = []diag.Problem{problem("/repo/content/blog/new/index.json", "alpha", "new")}
	e.ValidateAll()

	assert.Empty(t, e.Store().ForFile("/repo/content/blog/old/index.json"))
	assert.Len(t, e.Store().ForFile("/repo/content/blog/new/index.json"), 1)
}

func TestValidateAll_DropsProblemsForMissingFiles(t *testing.T) {
	gone := "/repo/content/blog/gone/index.json"
	kept := "/repo/content/blog/kept/index.json"
	v := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem(gone, "alpha", "stale"),
		problem(kept, "alpha", "fresh"),
	}}

	e := newTestEngine(t, withExists(func(path string) bool { return path == kept }))
	e.Register(v)

	result := e.ValidateAll()
	require.Equal(t, 1, result.Count())
	assert.Equal(t, kept, result.Problems[0].File)
	assert.Empty(t, e.Store().ForFile(gone))
}

func TestValidateFile_ReplacesSingleEntry(t *testing.T) {
	x := "/repo/content/blog/x/index.json"
	y := "/repo/content/blog/y/index.json"
	v := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem(x, "alpha", "x problem"),
		problem(y, "alpha", "y problem"),
	}}

	e := newTestEngine(t)
	e.Register(v)
	e.ValidateAll()
	require.Equal(t, 2, e.Store().Count())

	// Fixing x and revalidating only x removes its entry but leaves y alone.
	v.problems = []diag.Problem{problem(y, "alpha", "y problem")}
	result := e.ValidateFile(x)

	assert.Zero(t, result.Count())
	assert.Empty(t, e.Store().ForFile(x))
	assert.Len(t, e.Store().ForFile(y), 1, "single-file runs must not disturb other files")
}

func TestValidateFile_DeletionInvariant(t *testing.T) {
	// A real file this time: validators report nothing for it once deleted,
	// and the engine must clear its presentation entry.
	dir := t.TempDir()
	file := filepath.Join(dir, "content", "blog", "x", "index.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o755))
	require.NoError(t, os.WriteFile(file, []byte(`{}`), 0o644))

	v := &fakeValidator{id: "alpha", problems: []diag.Problem{
		problem(file, "alpha", "missing title"),
	}}

	e := NewEngine(dir, WithLogger(logging.ForTest(t)))
	e.Register(v)
	e.ValidateAll()
	require.Len(t, e.Store().ForFile(file), 1)

	// Delete the file; the rule-set may still report a stale problem, but
	// the publish step drops it and clears the entry.
	require.NoError(t, os.Remove(file))
	e.ValidateFile(file)
	assert.Empty(t, e.Store().ForFile(file))
}

func TestValidateBeforeSync(t *testing.T) {
	t.Run("clean run proceeds without confirmation", func(t *testing.T) {
		confirmed := false
		e := newTestEngine(t, WithConfirmer(ConfirmerFunc(func(int) (bool, error) {
			confirmed = true
			return false, nil
		})))
		e.Register(&fakeValidator{id: "alpha"})

		assert.True(t, e.ValidateBeforeSync())
		assert.False(t, confirmed, "confirmer must not be consulted when count is zero")
	})

	t.Run("problems and user confirms", func(t *testing.T) {
		var gotCount int
		e := newTestEngine(t, WithConfirmer(ConfirmerFunc(func(count int) (bool, error) {
			gotCount = count
			return true, nil
		})))
		e.Register(&fakeValidator{id: "alpha", problems: []diag.Problem{
			problem("/repo/content/blog/x/index.json", "alpha", "p1"),
			problem("/repo/content/blog/x/index.json", "alpha", "p2"),
		}})

		assert.True(t, e.ValidateBeforeSync())
		assert.Equal(t, 2, gotCount)
	})

	t.Run("problems and user declines", func(t *testing.T) {
		e := newTestEngine(t, WithConfirmer(ConfirmerFunc(func(int) (bool, error) {
			return false, nil
		})))
		e.Register(&fakeValidator{id: "alpha", problems: []diag.Problem{
			problem("/repo/content/blog/x/index.json", "alpha", "p1"),
		}})

		assert.False(t, e.ValidateBeforeSync())
	})

	t.Run("confirmer error cancels", func(t *testing.T) {
		e := newTestEngine(t, WithConfirmer(ConfirmerFunc(func(int) (bool, error) {
			return true, assert.AnError
		})))
		e.Register(&fakeValidator{id: "alpha", problems: []diag.Problem{
			problem("/repo/content/blog/x/index.json", "alpha", "p1"),
		}})

		assert.False(t, e.ValidateBeforeSync())
	})

	t.Run("no confirmer cancels", func(t *testing.T) {
		e := newTestEngine(t)
		e.Register(&fakeValidator{id: "alpha", problems: []diag.Problem{
			problem("/repo/content/blog/x/index.json", "alpha", "p1"),
		}})

		assert.False(t, e.ValidateBeforeSync())
	})
}
