// Package media extracts media URL references from body and metadata
// documents. The validators consume it through the Extractor interface so
// the extraction strategy stays replaceable.
package media

import (
	"path"
	"regexp"
	"strings"
)

// Extractor lists the media URLs referenced by a document.
type Extractor interface {
	// ExtractMediaURLs returns the media URLs referenced in a body document.
	ExtractMediaURLs(text string) []string
	// ExtractMediaURLsFromMetadata returns the media URLs referenced by
	// string fields of a parsed metadata document.
	ExtractMediaURLsFromMetadata(doc map[string]any) []string
}

// mediaExtensions are the file extensions treated as media assets.
var mediaExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".mp4":  true,
	".mp3":  true,
	".pdf":  true,
}

var (
	// markdownImageRe matches ![alt](url) and ![alt](url "title").
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)

	// htmlImgRe matches <img src="url"> and <img src='url'>.
	htmlImgRe = regexp.MustCompile(`<img[^>]+src=["']([^"']+)["']`)

	// markdownLinkRe matches [text](url) for links to media assets.
	markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\(\s*([^)\s]+)(?:\s+"[^"]*")?\s*\)`)
)

// DefaultExtractor is the regex-based Extractor used by the CLI.
type DefaultExtractor struct {
	// Markers are URL substrings identifying the backend's media endpoint.
	Markers []string
}

// NewExtractor creates a DefaultExtractor with the given media-endpoint
// markers.
func NewExtractor(markers []string) *DefaultExtractor {
	return &DefaultExtractor{Markers: markers}
}

// ExtractMediaURLs scans markdown/MDX text for media references: markdown
// images, HTML img tags, and markdown links pointing at media files. The
// returned list preserves first-seen order and contains no duplicates.
func (e *DefaultExtractor) ExtractMediaURLs(text string) []string {
	var urls []string
	seen := make(map[string]bool)

	add := func(url string) {
		if url == "" || seen[url] {
			return
		}
		seen[url] = true
		urls = append(urls, url)
	}

	for _, m := range markdownImageRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range htmlImgRe.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range markdownLinkRe.FindAllStringSubmatch(text, -1) {
		if e.IsMediaURL(m[1]) {
			add(m[1])
		}
	}

	return urls
}

// ExtractMediaURLsFromMetadata walks the metadata document and collects
// string values that reference media assets, recursing into nested objects
// and sequences.
func (e *DefaultExtractor) ExtractMediaURLsFromMetadata(doc map[string]any) []string {
	var urls []string
	seen := make(map[string]bool)
	e.collect(doc, seen, &urls)
	return urls
}

func (e *DefaultExtractor) collect(value any, seen map[string]bool, urls *[]string) {
	switch v := value.(type) {
	case string:
		if e.IsMediaURL(v) && !seen[v] {
			seen[v] = true
			*urls = append(*urls, v)
		}
	case map[string]any:
		// Sort-free map walk; per-document ordering of metadata URLs is
		// not part of the contract.
		for _, nested := range v {
			e.collect(nested, seen, urls)
		}
	case []any:
		for _, nested := range v {
			e.collect(nested, seen, urls)
		}
	}
}

// IsMediaURL reports whether a string value references a media asset,
// either by file extension or by containing a media-endpoint marker.
func (e *DefaultExtractor) IsMediaURL(value string) bool {
	if value == "" {
		return false
	}
	for _, marker := range e.Markers {
		if marker != "" && strings.Contains(value, marker) {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(stripQuery(value)))
	return mediaExtensions[ext]
}

// stripQuery removes a query string or fragment from a URL.
func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
