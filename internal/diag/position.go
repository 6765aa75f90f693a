package diag

import "strings"

// PositionAt translates a byte offset into a zero-based line/character
// position by counting newlines up to the offset. Out-of-range offsets are
// clamped to the document bounds.
func PositionAt(text string, offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}

	prefix := text[:offset]
	line := strings.Count(prefix, "\n")
	character := offset
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		character = offset - idx - 1
	}
	return Position{Line: line, Character: character}
}

// RangeBetween maps a start/end byte offset pair to a Range.
func RangeBetween(text string, start, end int) Range {
	return Range{
		Start: PositionAt(text, start),
		End:   PositionAt(text, end),
	}
}

// RangeOfSubstring locates the first occurrence of needle within text and
// returns its range. If needle is absent or empty, it returns a zero-width
// placeholder at the document start and false.
func RangeOfSubstring(text, needle string) (Range, bool) {
	if needle == "" {
		return Range{}, false
	}
	idx := strings.Index(text, needle)
	if idx < 0 {
		return Range{}, false
	}
	return RangeBetween(text, idx, idx+len(needle)), true
}

// DocStart is a zero-width placeholder range at the start of a document.
func DocStart() Range {
	return Range{}
}
