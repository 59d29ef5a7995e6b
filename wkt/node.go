package wkt

import (
	"strings"
)

// Node is one vertex of a bracketed text tree. Its value is the node keyword
// for bracketed nodes (ELLIPSOID, DATUM, ...) or the raw token for leaves:
// quoted string leaves keep their surrounding double quotes and any doubled
// inner quotes, so a parsed tree can be re-emitted byte for byte.
//
// Nodes are freely built and linked while constructing a tree and treated as
// immutable once handed to a formatter or parser.
type Node struct {
	value    string
	children []*Node
}

// NewNode returns a childless node holding value.
func NewNode(value string) *Node {
	return &Node{value: value}
}

// NewNodeChildren returns a node holding value with the given children.
func NewNodeChildren(value string, children ...*Node) *Node {
	return &Node{value: value, children: children}
}

func (n *Node) Value() string { return n.value }

// UnquotedValue returns the value with surrounding double quotes removed and
// doubled inner quotes collapsed. Values that are not quoted strings are
// returned as is.
func (n *Node) UnquotedValue() string {
	v := n.value
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	return strings.ReplaceAll(v[1:len(v)-1], `""`, `"`)
}

// IsQuoted reports whether the node value is a quoted string leaf.
func (n *Node) IsQuoted() bool {
	v := n.value
	return len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"'
}

func (n *Node) Children() []*Node { return n.children }

func (n *Node) AddChild(child *Node) { n.children = append(n.children, child) }

// Child returns the occurrence-th direct child whose value equals name,
// compared case-insensitively, or nil. Occurrences count from zero.
func (n *Node) Child(name string, occurrence int) *Node {
	for _, c := range n.children {
		if strings.EqualFold(c.value, name) {
			if occurrence == 0 {
				return c
			}
			occurrence--
		}
	}
	return nil
}

// CountChildren returns the number of direct children whose value equals
// name, compared case-insensitively.
func (n *Node) CountChildren(name string) int {
	cnt := 0
	for _, c := range n.children {
		if strings.EqualFold(c.value, name) {
			cnt++
		}
	}
	return cnt
}

// String renders the subtree as single-line WKT.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteString(n.value)
	if len(n.children) == 0 {
		return
	}
	sb.WriteByte('[')
	for i, c := range n.children {
		if i > 0 {
			sb.WriteByte(',')
		}
		c.write(sb)
	}
	sb.WriteByte(']')
}
