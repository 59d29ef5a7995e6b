package wkt

import (
	"testing"

	"pgregory.net/rapid"
)

// Any printable string must survive quoting, parsing and unquoting.
func TestQuotedStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[ -~]*`).Draw(t, "s")
		f := NewFormatter()
		f.StartNode("REMARK", false)
		f.AddQuotedString(s)
		f.EndNode()
		out, err := f.WKT()
		if err != nil {
			t.Fatal(err)
		}
		tree, err := ParseTree(out)
		if err != nil {
			t.Fatalf("reparse of %q: %v", out, err)
		}
		if got := tree.Children()[0].UnquotedValue(); got != s {
			t.Fatalf("round trip %q -> %q", s, got)
		}
	})
}

// A tree built from printable parts must survive format and reparse.
func TestTreeRoundTrip(t *testing.T) {
	keyword := rapid.StringMatching(`[A-Z][A-Z_]{0,11}`)
	leaf := rapid.OneOf(
		rapid.StringMatching(`-?[0-9]{1,9}(\.[0-9]{1,6})?`),
		rapid.StringMatching(`[a-z][a-zA-Z]{0,7}`),
	)
	rapid.Check(t, func(t *rapid.T) {
		root := NewNode(keyword.Draw(t, "root"))
		n := rapid.IntRange(1, 5).Draw(t, "children")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(t, "nested") {
				child := NewNodeChildren(keyword.Draw(t, "kw"), NewNode(leaf.Draw(t, "v")))
				root.AddChild(child)
				continue
			}
			root.AddChild(NewNode(leaf.Draw(t, "leaf")))
		}
		in := root.String()
		back, err := ParseTree(in)
		if err != nil {
			t.Fatalf("parse of %q: %v", in, err)
		}
		if got := back.String(); got != in {
			t.Fatalf("round trip %q -> %q", in, got)
		}
	})
}
