package validate

import (
	"log/slog"

	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/pkg/fileutil"
)

// Engine owns the ordered registry of rule-sets for one repository root,
// runs them, merges their problems, and republishes the merged state to the
// presentation store. Registration order determines problem order in merged
// results; rule-sets are independent and never deduplicated against each
// other.
//
// The engine gives no mutual-exclusion guarantee across overlapping
// invocations: concurrent ValidateAll/ValidateFile calls may interleave
// their publish steps and the store reflects whichever wrote last. Real
// usage drives validation from one serialized event source.
type Engine struct {
	root       string
	validators []Validator
	store      *diag.Store
	confirmer  Confirmer
	logger     *slog.Logger
	exists     func(string) bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore sets the presentation store the engine publishes to.
func WithStore(store *diag.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithConfirmer sets the collaborator consulted by ValidateBeforeSync when
// problems were found. Without one, a non-zero problem count always cancels.
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirmer = c }
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// withExists overrides the file-existence check. Test hook.
func withExists(fn func(string) bool) Option {
	return func(e *Engine) { e.exists = fn }
}

// NewEngine creates an engine for the given repository root.
func NewEngine(root string, opts ...Option) *Engine {
	e := &Engine{
		root:   root,
		store:  diag.NewStore(),
		logger: slog.Default(),
		exists: fileutil.Exists,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends rule-sets to the engine's registry. Order is preserved
// for the lifetime of the engine.
func (e *Engine) Register(validators ...Validator) {
	e.validators = append(e.validators, validators...)
}

// Store returns the presentation store the engine publishes to.
func (e *Engine) Store() *diag.Store {
	return e.store
}

// ValidateAll runs every registered rule-set over the whole repository,
// merges their problems in registration order, republishes the presentation
// state from scratch, and returns the merged result. A failure inside one
// rule-set is logged and does not abort the others.
func (e *Engine) ValidateAll() diag.Result {
	var merged diag.Result
	for _, v := range e.validators {
		result := e.runSafe(v, func() diag.Result { return v.ValidateAll() })
		e.logger.Debug("rule-set completed",
			"validator", v.ID(),
			"problems", result.Count(),
			"failures", len(result.Failures))
		merged.Merge(result)
	}

	merged.Problems = e.dropMissingFiles(merged.Problems)
	e.store.Replace(groupByFile(merged.Problems))

	e.logger.Info("validation completed",
		"validators", len(e.validators),
		"problems", merged.Count(),
		"files", len(e.store.Files()))
	return merged
}

// ValidateFile runs every registered rule-set against a single file, merges
// their problems in registration order, replaces the presentation entry for
// that file, and returns the merged result.
func (e *Engine) ValidateFile(path string) diag.Result {
	var merged diag.Result
	for _, v := range e.validators {
		result := e.runSafe(v, func() diag.Result { return v.ValidateFile(path) })
		merged.Merge(result)
	}

	merged.Problems = e.dropMissingFiles(merged.Problems)

	// Replace only this file's presentation entry; an empty merged result
	// removes it so deleted or clean files lose their markers.
	var forFile []diag.Problem
	for _, p := range merged.Problems {
		if p.File == path {
			forFile = append(forFile, p)
		}
	}
	e.store.SetFile(path, forFile)

	return merged
}

// ValidateBeforeSync runs a full validation pass and decides whether a sync
// may proceed. A clean run proceeds immediately without consulting the
// confirmation collaborator; otherwise the collaborator decides, and its
// absence or failure cancels.
func (e *Engine) ValidateBeforeSync() bool {
	result := e.ValidateAll()
	count := result.Count()
	if count == 0 {
		return true
	}

	if e.confirmer == nil {
		e.logger.Info("sync cancelled: problems found and no confirmation available", "problems", count)
		return false
	}

	ok, err := e.confirmer.ConfirmSync(count)
	if err != nil {
		e.logger.Error("sync confirmation failed", "error", err)
		return false
	}
	return ok
}

// runSafe invokes one rule-set, containing panics so a defect in one
// rule-set cannot abort the pass.
func (e *Engine) runSafe(v Validator, fn func() diag.Result) (result diag.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rule-set panicked", "validator", v.ID(), "panic", r)
			result = diag.Result{}
		}
	}()
	return fn()
}

// dropMissingFiles filters out problems whose target file no longer exists.
// A stat failure counts as missing so the publish step fails safe.
func (e *Engine) dropMissingFiles(problems []diag.Problem) []diag.Problem {
	kept := problems[:0:0]
	for _, p := range problems {
		if e.exists(p.File) {
			kept = append(kept, p)
			continue
		}
		e.logger.Debug("dropping problem for missing file", "file", p.File)
	}
	return kept
}

func groupByFile(problems []diag.Problem) map[string][]diag.Problem {
	grouped := make(map[string][]diag.Problem)
	for _, p := range problems {
		grouped[p.File] = append(grouped[p.File], p)
	}
	return grouped
}
