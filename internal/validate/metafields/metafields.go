// Package metafields implements the metadata-fields rule-set: presence and
// non-emptiness checks for the metadata fields the CMS backend requires,
// with best-effort source positions recovered by scanning the raw text.
package metafields

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/thoreinstein/mdsync/internal/content"
	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/pkg/fileutil"
)

// ID is the rule-set identifier used as the problem source label.
const ID = "metadata-fields"

// fieldBody is a reserved required-field name. When present in the required
// list it checks the companion body document instead of a JSON key. The
// default list never includes it; the branch is kept for the backend
// migration that may enable it.
const fieldBody = "body"

// DefaultRequiredFields are the metadata fields the backend requires.
var DefaultRequiredFields = []string{
	content.FieldTitle,
	content.FieldDescription,
	content.FieldAuthor,
	content.FieldLanguage,
}

// Validator is the metadata-fields rule-set.
type Validator struct {
	contentRoot string
	logger      *slog.Logger
	required    []string
}

// Option configures a Validator.
type Option func(*Validator)

// WithRequiredFields overrides the required-field list.
func WithRequiredFields(fields []string) Option {
	return func(v *Validator) { v.required = fields }
}

// New creates the rule-set for the given content root.
func New(contentRoot string, logger *slog.Logger, opts ...Option) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		contentRoot: contentRoot,
		logger:      logger,
		required:    DefaultRequiredFields,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID implements validate.Validator.
func (v *Validator) ID() string { return ID }

// Name implements validate.Validator.
func (v *Validator) Name() string { return "Metadata Fields" }

// ValidateAll checks every metadata document under the content root.
func (v *Validator) ValidateAll() diag.Result {
	var result diag.Result
	files, err := content.FilesByName(v.contentRoot, content.MetadataFileName)
	if err != nil {
		v.logger.Error("content discovery failed", "validator", ID, "error", err)
		return result
	}
	for _, file := range files {
		result.Merge(v.ValidateFile(file))
	}
	return result
}

// ValidateFile checks a single metadata document. Other files yield an
// empty result.
func (v *Validator) ValidateFile(path string) diag.Result {
	var result diag.Result
	if !content.IsMetadataFile(path) {
		return result
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		v.logger.Error("reading metadata document failed", "file", path, "error", err)
		result.Fail(path, err)
		return result
	}
	text := string(data)

	doc, err := content.ParseDocument(data)
	if err != nil {
		// One parse problem at the document start; no further checks run
		// against unparseable content.
		result.Add(diag.Problem{
			File:     path,
			Message:  fmt.Sprintf("Cannot parse metadata: %v", err),
			Severity: diag.SeverityError,
			Range:    diag.DocStart(),
			Source:   ID,
			Code:     "unparseable",
		})
		return result
	}

	for _, field := range v.required {
		if field == fieldBody {
			result.Add(v.checkBodyDocument(path)...)
			continue
		}
		result.Add(v.checkField(path, text, doc, field)...)
	}
	return result
}

func (v *Validator) checkField(path, text string, doc content.Document, field string) []diag.Problem {
	value, present := doc[field]
	if !present || value == nil {
		return []diag.Problem{{
			File:     path,
			Message:  fmt.Sprintf("Missing required field: %s", field),
			Severity: diag.SeverityError,
			Range:    insertionPoint(text),
			Source:   ID,
			Code:     "missing-field",
		}}
	}

	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return []diag.Problem{{
			File:     path,
			Message:  fmt.Sprintf("Required field %q is empty", field),
			Severity: diag.SeverityError,
			Range:    fieldRange(text, field),
			Source:   ID,
			Code:     "empty-field",
		}}
	}

	return nil
}

// checkBodyDocument verifies the companion body document exists and has
// content. Reachable only when the required list contains the reserved
// body field.
func (v *Validator) checkBodyDocument(metadataPath string) []diag.Problem {
	bodyPath := strings.TrimSuffix(metadataPath, content.MetadataFileName) + content.BodyFileName

	data, err := fileutil.ReadFileWithLimit(bodyPath)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return []diag.Problem{{
			File:     metadataPath,
			Message:  "Missing or empty body document",
			Severity: diag.SeverityError,
			Range:    diag.DocStart(),
			Source:   ID,
			Code:     "missing-body",
		}}
	}
	return nil
}

// fieldRange locates a `"field": value` occurrence in the raw text. Falls
// back to the document start when the pattern cannot be found.
func fieldRange(text, field string) diag.Range {
	re, err := regexp.Compile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*("(?:[^"\\]|\\.)*"|[^,\n}]*)`)
	if err != nil {
		return diag.DocStart()
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return diag.DocStart()
	}
	return diag.RangeBetween(text, loc[0], loc[1])
}

// insertionPoint targets the document's final closing brace, a reasonable
// place to add a missing field. Falls back to the document start when no
// closing brace exists.
func insertionPoint(text string) diag.Range {
	idx := strings.LastIndexByte(text, '}')
	if idx < 0 {
		return diag.DocStart()
	}
	return diag.RangeBetween(text, idx, idx+1)
}
