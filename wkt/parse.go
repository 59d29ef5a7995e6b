package wkt

import (
	"fmt"
	"strings"
)

// maxNestingDepth bounds recursion while reading bracketed trees. Sixteen
// levels is deeper than any real definition nests.
const maxNestingDepth = 16

// ParseTree reads a whole bracketed definition. Anything but whitespace after
// the closing bracket is an error.
func ParseTree(text string) (*Node, error) {
	n, end, err := ParseTreeAt(text, 0)
	if err != nil {
		return nil, err
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		return nil, fmt.Errorf("%w: unexpected content after closing bracket at offset %d", ErrParse, end)
	}
	return n, nil
}

// ParseTreeAt reads one node starting at offset start and returns it together
// with the offset one past its end. Callers embedding bracketed text inside a
// larger document use this form and handle the remainder themselves.
func ParseTreeAt(text string, start int) (*Node, int, error) {
	return parseNode(text, start, 0)
}

func parseNode(text string, pos, depth int) (*Node, int, error) {
	if depth >= maxNestingDepth {
		return nil, pos, fmt.Errorf("%w: too many nesting levels", ErrParse)
	}
	pos = skipSpace(text, pos)
	if pos >= len(text) {
		return nil, pos, fmt.Errorf("%w: unexpected end of text", ErrParse)
	}

	value, pos, err := parseToken(text, pos)
	if err != nil {
		return nil, pos, err
	}
	n := NewNode(value)

	pos = skipSpace(text, pos)
	if pos >= len(text) || (text[pos] != '[' && text[pos] != '(') {
		return n, pos, nil
	}
	closing := byte(']')
	if text[pos] == '(' {
		closing = ')'
	}
	pos++ // past the opening bracket
	for {
		child, next, err := parseNode(text, pos, depth+1)
		if err != nil {
			return nil, next, err
		}
		n.AddChild(child)
		pos = skipSpace(text, next)
		if pos >= len(text) {
			return nil, pos, fmt.Errorf("%w: missing %q for %s node", ErrParse, string(closing), n.value)
		}
		switch text[pos] {
		case ',':
			pos++
		case closing:
			return n, pos + 1, nil
		case ']', ')':
			return nil, pos, fmt.Errorf("%w: mismatched bracket %q closing %s node at offset %d",
				ErrParse, string(text[pos]), n.value, pos)
		default:
			return nil, pos, fmt.Errorf("%w: expected %q or %q at offset %d",
				ErrParse, ",", string(closing), pos)
		}
	}
}

// parseToken reads a single value token: a quoted string (doubled quotes
// escape a literal quote; the surrounding quotes are kept) or a bare run up
// to a structural character.
func parseToken(text string, pos int) (string, int, error) {
	if text[pos] == '"' {
		end := pos + 1
		for {
			i := strings.IndexByte(text[end:], '"')
			if i < 0 {
				return "", len(text), fmt.Errorf("%w: unterminated string at offset %d", ErrParse, pos)
			}
			end += i + 1
			if end < len(text) && text[end] == '"' {
				end++ // doubled quote, stay inside the string
				continue
			}
			return text[pos:end], end, nil
		}
	}
	start := pos
	for pos < len(text) && !isStructural(text[pos]) {
		pos++
	}
	if pos == start {
		return "", pos, fmt.Errorf("%w: expected a value at offset %d", ErrParse, pos)
	}
	return text[start:pos], pos, nil
}

func isStructural(c byte) bool {
	switch c {
	case '[', ']', '(', ')', ',', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}
