// Package mediarefs implements the media-references rule-set: every local
// media asset referenced by a body or metadata document must exist on disk.
// Remote (HTTP) references are out of scope and never checked.
package mediarefs

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mdsync/internal/content"
	"github.com/thoreinstein/mdsync/internal/diag"
	"github.com/thoreinstein/mdsync/internal/media"
	"github.com/thoreinstein/mdsync/pkg/fileutil"
)

// ID is the rule-set identifier used as the problem source label.
const ID = "media-references"

// Validator is the media-references rule-set.
type Validator struct {
	contentRoot string
	logger      *slog.Logger
	extractor   media.Extractor
	markers     []string
	exists      func(string) bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithExtractor overrides the media-extraction collaborator.
func WithExtractor(e media.Extractor) Option {
	return func(v *Validator) { v.extractor = e }
}

// WithExists overrides the file-existence check. Test hook.
func WithExists(fn func(string) bool) Option {
	return func(v *Validator) { v.exists = fn }
}

// New creates the rule-set for the given content root. markers are the URL
// substrings identifying the backend's media endpoint.
func New(contentRoot string, logger *slog.Logger, markers []string, opts ...Option) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	v := &Validator{
		contentRoot: contentRoot,
		logger:      logger,
		extractor:   media.NewExtractor(markers),
		markers:     markers,
		exists:      fileutil.Exists,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID implements validate.Validator.
func (v *Validator) ID() string { return ID }

// Name implements validate.Validator.
func (v *Validator) Name() string { return "Media References" }

// ValidateAll checks every body and metadata document under the content
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

// ValidateFile checks the media references of a single document. Files that
// are neither metadata nor body documents yield an empty result.
func (v *Validator) ValidateFile(path string) diag.Result {
	var result diag.Result
	if !content.IsMetadataFile(path) && !content.IsBodyFile(path) {
		return result
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		v.logger.Error("reading document failed", "file", path, "error", err)
		result.Fail(path, err)
		return result
	}
	text := string(data)

	var urls []string
	if content.IsMetadataFile(path) {
		doc, perr := content.ParseDocument(data)
		if perr != nil {
			// The structural rule-sets already report parse failures.
			v.logger.Debug("skipping unparseable metadata", "file", path)
			return result
		}
		urls = v.extractor.ExtractMediaURLsFromMetadata(doc)
	} else {
		urls = v.extractor.ExtractMediaURLs(text)
	}
	if len(urls) == 0 {
		return result
	}

	item, err := content.ItemFromPath(v.contentRoot, path)
	if err != nil {
		// Cannot determine where assets for this file should live.
		v.logger.Debug("skipping file outside content layout", "file", path)
		return result
	}

	for _, url := range urls {
		if isRemote(url) {
			continue
		}
		candidate := v.resolve(item, url)
		if v.exists(candidate) {
			continue
		}
		base := basename(url)
		rng, found := diag.RangeOfSubstring(text, base)
		if !found {
			rng = diag.DocStart()
		}
		result.Add(diag.Problem{
			File:     path,
			Message:  fmt.Sprintf("Media file not found: %s", base),
			Severity: diag.SeverityWarning,
			Range:    rng,
			Source:   ID,
			Code:     "media-not-found",
		})
	}
	return result
}

// resolve maps a referenced URL to the candidate local path to check.
func (v *Validator) resolve(item content.Item, url string) string {
	if v.hasMarker(url) {
		return filepath.Join(item.Dir(v.contentRoot), basename(url))
	}
	if filepath.IsAbs(url) {
		return url
	}
	return filepath.Join(item.Dir(v.contentRoot), filepath.FromSlash(url))
}

func (v *Validator) hasMarker(url string) bool {
	for _, marker := range v.markers {
		if marker != "" && strings.Contains(url, marker) {
			return true
		}
	}
	return false
}

// isRemote reports whether the URL begins with an HTTP scheme. Remote
// existence is not checked.
func isRemote(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// basename returns the final path segment of a URL, ignoring any query
// string or fragment.
func basename(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return path.Base(url)
}
