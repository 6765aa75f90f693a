package diag

import (
	"fmt"
	"strings"
)

// Severity represents the impact of a validation problem,
// ordered from most to least severe.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a recommended but non-blocking issue.
	SeverityWarning
	// SeverityInformation indicates an informational note.
	SeverityInformation
	// SeverityHint indicates a stylistic suggestion.
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so severities serialize
// as their names in JSON and YAML reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Position is a zero-based line/character location within a document.
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Range is a span between two positions. A zero-width range (Start == End)
// marks a placeholder location.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// Problem is a single validation finding. Problems are immutable value
// objects: validators create them and nothing mutates them afterwards.
type Problem struct {
	// File is the absolute path of the offending file.
	File string `json:"file" yaml:"file"`
	// Message is a human-readable description of the finding.
	Message string `json:"message" yaml:"message"`
	// Severity indicates the impact of the finding.
	Severity Severity `json:"severity" yaml:"severity"`
	// Range locates the finding within the file. May be a zero-width
	// placeholder at the document start when precise tracking is unavailable.
	Range Range `json:"range" yaml:"range"`
	// Source identifies the rule-set that produced the finding.
	Source string `json:"source" yaml:"source"`
	// Code is an optional machine-readable identifier for the rule.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
}

func (p Problem) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s: %s",
		p.File, p.Range.Start.Line+1, p.Range.Start.Character+1, p.Severity, p.Message)
	if p.Source != "" {
		fmt.Fprintf(&sb, " (%s)", p.Source)
	}
	return sb.String()
}

// Failure records a file that could not be validated at all, so that
// infrastructure errors are observable rather than only logged.
type Failure struct {
	// File is the absolute path of the file that failed.
	File string `json:"file" yaml:"file"`
	// Err is the underlying infrastructure error.
	Err error `json:"-" yaml:"-"`
}

// Result is the ordered outcome of one validation run over one file or the
// whole repository. It is transient, held only for the duration of a call.
type Result struct {
	Problems []Problem `json:"problems" yaml:"problems"`
	Failures []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// Add appends problems to the result.
func (r *Result) Add(problems ...Problem) {
	r.Problems = append(r.Problems, problems...)
}

// Fail records a per-file validation failure.
func (r *Result) Fail(file string, err error) {
	r.Failures = append(r.Failures, Failure{File: file, Err: err})
}

// Merge appends another result, preserving order.
func (r *Result) Merge(other Result) {
	r.Problems = append(r.Problems, other.Problems...)
	r.Failures = append(r.Failures, other.Failures...)
}

// Count returns the number of problems in the result.
func (r *Result) Count() int {
	return len(r.Problems)
}

// HasErrors returns true if any problem has SeverityError.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, p := range r.Problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of problems at the given severity.
func (r *Result) CountBySeverity(s Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, p := range r.Problems {
		if p.Severity == s {
			n++
		}
	}
	return n
}
