package validate

import "github.com/thoreinstein/mdsync/internal/diag"

// Validator is the contract every rule-set implements. Implementations are
// read-only with respect to the file system and never fail for ordinary
// malformed input: content errors become Problems, per-file infrastructure
// errors become Failures on the result, and files irrelevant to the
// rule-set yield an empty result.
type Validator interface {
	// ID is a stable identifier used as the problem source label and for
	// logging.
	ID() string

	// Name is a human-readable display name.
	Name() string

	// ValidateFile examines one file, applying only the rules relevant to
	// that file's role.
	ValidateFile(path string) diag.Result

	// ValidateAll discovers every relevant file under the repository's
	// content root and validates each, concatenating results. A missing
	// content root yields an empty result.
	ValidateAll() diag.Result
}

// Confirmer decides whether a sync may proceed despite validation problems.
// It is consulted only when the problem count is non-zero.
type Confirmer interface {
	// ConfirmSync asks whether to proceed given the number of problems
	// found. Any error is treated as "do not proceed".
	ConfirmSync(problemCount int) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(problemCount int) (bool, error)

// ConfirmSync calls f.
func (f ConfirmerFunc) ConfirmSync(problemCount int) (bool, error) {
	return f(problemCount)
}
