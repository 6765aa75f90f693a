// Package structure implements the content-structure rule-set: structural
// checks on metadata documents (parseability, required fields, field
// formats, type-specific rules) and on body documents (minimum length,
// presence of a heading).
package structure

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/thoreinstein/mdsync/internal/content"
	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/internal/errors"
	"github.com/thoreinstein/mdsync/pkg/fileutil"
	"github.com/thoreinstein/mdsync/pkg/frontmatter"
)

// ID is the rule-set identifier used as the problem source label.
const ID = "content-structure"

const (
	minTitleLength       = 3
	minBodyLength        = 10
	minDescriptionLength = 10
)

// headingRe matches a markdown heading line: one or more '#' followed by a
// space.
var headingRe = regexp.MustCompile(`(?m)^#+ `)

// typesRequiringDescription lists content types whose metadata should carry
// a description. Unknown types get no extra rules.
var typesRequiringDescription = map[string]bool{
	content.TypeBlog: true,
	content.TypePost: true,
}

// Validator is the content-structure rule-set.
type Validator struct {
	contentRoot string
	logger      *slog.Logger
	frontmatter bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithFrontmatter controls whether body checks strip a leading YAML
// frontmatter block before measuring content. Enabled by default; disabled,
// the checks run against the raw document text.
func WithFrontmatter(enabled bool) Option {
	return func(v *Validator) { v.frontmatter = enabled }
}

// New creates the rule-set for the given content root.
func New(contentRoot string, logger *slog.Logger, opts ...Option) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		contentRoot: contentRoot,
		logger:      logger,
		frontmatter: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID implements validate.Validator.
func (v *Validator) ID() string { return ID }

// Name implements validate.Validator.
func (v *Validator) Name() string { return "Content Structure" }

// ValidateAll checks every metadata and body document under the content
// root.
func (v *Validator) ValidateAll() diag.Result {
	var result diag.Result
	files, err := content.FilesByName(v.contentRoot, content.MetadataFileName, content.BodyFileName)
	if err != nil {
		v.logger.Error("content discovery failed", "validator", ID, "error", err)
		return result
	}
	for _, file := range files {
		result.Merge(v.ValidateFile(file))
	}
	return result
}

// ValidateFile checks a single file. Files that are neither metadata nor
// body documents yield an empty result.
func (v *Validator) ValidateFile(path string) diag.Result {
	switch {
	case content.IsMetadataFile(path):
		return v.validateMetadata(path)
	case content.IsBodyFile(path):
		return v.validateBody(path)
	default:
		return diag.Result{}
	}
}

func (v *Validator) validateMetadata(path string) diag.Result {
	var result diag.Result

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		v.logger.Error("reading metadata document failed", "file", path, "error", err)
		result.Fail(path, err)
		return result
	}
	text := string(data)

	doc, err := content.ParseDocument(data)
	if err != nil {
		result.Add(v.parseProblem(path, text, err))
		return result
	}

	result.Add(v.checkRequiredFields(path, doc)...)
	result.Add(v.checkFieldFormats(path, doc)...)
	result.Add(v.checkTypeRules(path, doc)...)
	return result
}

// parseProblem turns a JSON parse failure into a single Error problem at
// the best-effort offset recovered from the decoder.
func (v *Validator) parseProblem(path, text string, err error) diag.Problem {
	rng := diag.DocStart()
	var parseErr *content.ParseError
	if errors.As(err, &parseErr) && parseErr.Offset >= 0 {
		pos := diag.PositionAt(text, int(parseErr.Offset))
		rng = diag.Range{Start: pos, End: pos}
	}
	return diag.Problem{
		File:     path,
		Message:  fmt.Sprintf("Invalid JSON: %v", err),
		Severity: diag.SeverityError,
		Range:    rng,
		Source:   ID,
		Code:     "invalid-json",
	}
}

func (v *Validator) checkRequiredFields(path string, doc content.Document) []diag.Problem {
	var problems []diag.Problem
	for _, field := range []string{content.FieldTitle, content.FieldType} {
		if !doc.Truthy(field) {
			problems = append(problems, diag.Problem{
				File:     path,
				Message:  fmt.Sprintf("Missing required field: %s", field),
				Severity: diag.SeverityError,
				Range:    diag.DocStart(),
				Source:   ID,
				Code:     "missing-field",
			})
		}
	}
	return problems
}

func (v *Validator) checkFieldFormats(path string, doc content.Document) []diag.Problem {
	var problems []diag.Problem

	if title, ok := doc.String(content.FieldTitle); ok {
		if len(strings.TrimSpace(title)) < minTitleLength {
			problems = append(problems, diag.Problem{
				File:     path,
				Message:  fmt.Sprintf("Title should be at least %d characters", minTitleLength),
				Severity: diag.SeverityWarning,
				Range:    diag.DocStart(),
				Source:   ID,
				Code:     "short-title",
			})
		}
	}

	if doc.Has(content.FieldTags) {
		if _, ok := doc[content.FieldTags].([]any); !ok {
			problems = append(problems, diag.Problem{
				File:     path,
				Message:  "Field 'tags' must be an array",
				Severity: diag.SeverityError,
				Range:    diag.DocStart(),
				Source:   ID,
				Code:     "invalid-tags",
			})
		}
	}

	if doc.Has(content.FieldPublishedAt) {
		value, ok := doc.String(content.FieldPublishedAt)
		if !ok {
			value = fmt.Sprint(doc[content.FieldPublishedAt])
		}
		if _, err := content.ParseDate(value); err != nil {
			problems = append(problems, diag.Problem{
				File:     path,
				Message:  fmt.Sprintf("Field 'publishedAt' is not a valid date: %q", value),
				Severity: diag.SeverityError,
				Range:    diag.DocStart(),
				Source:   ID,
				Code:     "invalid-date",
			})
		}
	}

	return problems
}

func (v *Validator) checkTypeRules(path string, doc content.Document) []diag.Problem {
	typ, _ := doc.String(content.FieldType)
	if !typesRequiringDescription[typ] {
		return nil
	}

	description, _ := doc.String(content.FieldDescription)
	if len(strings.TrimSpace(description)) < minDescriptionLength {
		return []diag.Problem{{
			File:     path,
			Message:  fmt.Sprintf("Content of type %q should have a description of at least %d characters", typ, minDescriptionLength),
			Severity: diag.SeverityWarning,
			Range:    diag.DocStart(),
			Source:   ID,
			Code:     "short-description",
		}}
	}
	return nil
}

func (v *Validator) validateBody(path string) diag.Result {
	var result diag.Result

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		v.logger.Error("reading body document failed", "file", path, "error", err)
		result.Fail(path, err)
		return result
	}
	text := string(data)
	if v.frontmatter {
		// Body checks run against the content after any frontmatter block,
		// so a frontmatter-only document counts as empty and YAML comments
		// cannot satisfy the heading check.
		var matter map[string]any
		body, perr := frontmatter.Parse(data, &matter)
		if perr != nil {
			result.Add(diag.Problem{
				File:     path,
				Message:  fmt.Sprintf("Invalid frontmatter: %v", perr),
				Severity: diag.SeverityWarning,
				Range:    diag.DocStart(),
				Source:   ID,
				Code:     "invalid-frontmatter",
			})
		}
		text = string(body)
	}

	if len(strings.TrimSpace(text)) < minBodyLength {
		result.Add(diag.Problem{
			File:     path,
			Message:  "Content appears empty or too short",
			Severity: diag.SeverityWarning,
			Range:    diag.DocStart(),
			Source:   ID,
			Code:     "short-body",
		})
	}

	if !headingRe.MatchString(text) {
		result.Add(diag.Problem{
			File:     path,
			Message:  "Content should include at least one heading",
			Severity: diag.SeverityWarning,
			Range:    diag.DocStart(),
			Source:   ID,
			Code:     "missing-heading",
		})
	}

	return result
}
