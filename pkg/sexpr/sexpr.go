// Package sexpr parses the s-expression syntax used by KiCad board and
// netlist files into a generic node tree, plus navigation helpers for
// walking that tree.
package sexpr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sexpLexer tokenizes s-expression files: quoted strings, parens and bare
// atoms. KiCad files carry no comments.
var sexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},
})

// Node is one element of an s-expression tree: either a leaf atom or a
// parenthesised list of child nodes.
type Node struct {
	Pos lexer.Position

	Atom *string `parser:"  ( @String | @Atom )"`
	List *List   `parser:"| @@"`
}

// List is the parenthesised form of a node.
type List struct {
	Children []*Node `parser:"'(' @@* ')'"`
}

type document struct {
	Nodes []*Node `parser:"@@*"`
}

var parser = participle.MustBuild[document](
	participle.Lexer(sexpLexer),
	participle.Elide("Whitespace"),
)

// Parse reads every top-level s-expression from r.
func Parse(r io.Reader) ([]*Node, error) {
	doc, err := parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("sexpr: %w", err)
	}
	return doc.Nodes, nil
}

// ParseString parses every top-level s-expression in src.
func ParseString(src string) ([]*Node, error) {
	doc, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("sexpr: %w", err)
	}
	return doc.Nodes, nil
}

// ParseOne parses src and returns its single top-level expression.
func ParseOne(src string) (*Node, error) {
	nodes, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	if len(nodes) != 1 {
		return nil, fmt.Errorf("sexpr: expected one top-level expression, found %d", len(nodes))
	}
	return nodes[0], nil
}

// IsLeaf reports whether the node is a bare atom rather than a list.
func (n *Node) IsLeaf() bool {
	return n != nil && n.List == nil
}

// Text returns the atom value with surrounding quotes and escapes removed.
// List nodes return "".
func (n *Node) Text() string {
	if n == nil || n.Atom == nil {
		return ""
	}
	s := *n.Atom
	if len(s) >= 2 && s[0] == '"' {
		if unq, err := strconv.Unquote(s); err == nil {
			return unq
		}
		return strings.Trim(s, `"`)
	}
	return s
}

// Key returns the leading atom of a list node, e.g. "net" for
// (net 1 "GND"). Leaves and empty lists return "".
func (n *Node) Key() string {
	if n == nil || n.List == nil || len(n.List.Children) == 0 {
		return ""
	}
	return n.List.Children[0].Text()
}

// Len returns the number of children of a list node, including the key.
func (n *Node) Len() int {
	if n == nil || n.List == nil {
		return 0
	}
	return len(n.List.Children)
}

// Child returns the i-th child of a list node, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || n.List == nil || i < 0 || i >= len(n.List.Children) {
		return nil
	}
	return n.List.Children[i]
}

// Items returns the children of a list node after the key.
func (n *Node) Items() []*Node {
	if n.Len() < 2 {
		return nil
	}
	return n.List.Children[1:]
}

// Find returns the first child list whose key matches name.
func (n *Node) Find(name string) (*Node, bool) {
	if n == nil || n.List == nil {
		return nil, false
	}
	for _, c := range n.List.Children {
		if c.Key() == name {
			return c, true
		}
	}
	return nil, false
}

// FindAll returns every child list whose key matches name, in file order.
func (n *Node) FindAll(name string) []*Node {
	if n == nil || n.List == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.List.Children {
		if c.Key() == name {
			out = append(out, c)
		}
	}
	return out
}

// GetString returns the i-th child after the key as text, e.g.
// GetString(0) on (layer "F.Cu") yields "F.Cu".
func (n *Node) GetString(i int) string {
	return n.Child(i + 1).Text()
}

// GetFloat parses the i-th value after the key as a float.
func (n *Node) GetFloat(i int) (float64, error) {
	s := n.GetString(i)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("sexpr: %q item %d: %w", n.Key(), i, err)
	}
	return f, nil
}

// GetInt parses the i-th value after the key as an integer.
func (n *Node) GetInt(i int) (int, error) {
	s := n.GetString(i)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("sexpr: %q item %d: %w", n.Key(), i, err)
	}
	return v, nil
}
