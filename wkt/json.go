package wkt

import (
	json "github.com/goccy/go-json"
)

// jsonNode is the serialized shape of a Node, for tooling that wants the
// tree without reimplementing the grammar.
type jsonNode struct {
	Value    string     `json:"value"`
	Children []jsonNode `json:"children,omitempty"`
}

func toJSONNode(n *Node) jsonNode {
	jn := jsonNode{Value: n.value}
	for _, c := range n.children {
		jn.Children = append(jn.Children, toJSONNode(c))
	}
	return jn
}

func fromJSONNode(jn jsonNode) *Node {
	n := NewNode(jn.Value)
	for _, c := range jn.Children {
		n.AddChild(fromJSONNode(c))
	}
	return n
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSONNode(n))
}

func (n *Node) UnmarshalJSON(d []byte) error {
	var jn jsonNode
	if err := json.Unmarshal(d, &jn); err != nil {
		return err
	}
	*n = *fromJSONNode(jn)
	return nil
}
