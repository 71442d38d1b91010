// Package render projects state snapshots into visual trees.
//
// Every function here is pure: it reads its inputs and returns a fresh tree. Paint turns a
// tree into terminal text.
package render

// Kind is a node's role in the tree.
type Kind string

const (
	KindPanel    Kind = "panel"
	KindHeading  Kind = "heading"
	KindText     Kind = "text"
	KindEmpty    Kind = "empty"
	KindChart    Kind = "chart"
	KindBar      Kind = "bar"
	KindList     Kind = "list"
	KindItem     Kind = "item"
	KindSummary  Kind = "summary"
	KindStat     Kind = "stat"
	KindSection  Kind = "section"
	KindCard     Kind = "card"
	KindDetail   Kind = "detail"
	KindTag      Kind = "tag"
	KindStrategy Kind = "strategy"
)

// Node is one element of a visual tree. Value carries the numeric payload of bars and stats.
type Node struct {
	Kind     Kind              `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Value    float64           `json:"value,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

func node(kind Kind, text string, children ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Children: children}
}

func (n *Node) set(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attr returns the attribute value or "".
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}

// Find returns every node of kind in the tree, depth first.
func (n *Node) Find(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Kind == kind {
			out = append(out, c)
		}
	})
	return out
}

// Walk visits n and its descendants depth first.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
