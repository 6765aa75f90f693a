// Package frontmatter handles the optional YAML frontmatter block that MDX
// body documents may begin with.
package frontmatter

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// delimiter opens and closes a frontmatter block.
var delimiter = []byte("---")

// Split separates an optional frontmatter block from the document body.
// When the document does not begin with a delimited block, matter is nil and
// body is the whole document. Handles both LF and CRLF line endings.
func Split(data []byte) (matter, body []byte) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, data
	}

	rest := data[len(delimiter):]
	rest = trimLineBreak(rest)

	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		// Unterminated block; treat the whole document as body.
		return nil, data
	}

	matter = rest[:end]
	body = rest[end+1+len(delimiter):]
	return bytes.TrimSuffix(matter, []byte("\r")), trimLineBreak(body)
}

// Parse splits the document and decodes the frontmatter block into matter.
// A document without frontmatter leaves matter untouched and returns the
// whole document as body.
func Parse[T any](data []byte, matter *T) (body []byte, err error) {
	block, body := Split(data)
	if block == nil {
		return body, nil
	}
	if err := yaml.Unmarshal(block, matter); err != nil {
		return body, err
	}
	return body, nil
}

func trimLineBreak(b []byte) []byte {
	b = bytes.TrimPrefix(b, []byte("\r"))
	return bytes.TrimPrefix(b, []byte("\n"))
}
