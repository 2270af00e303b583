package lib

import (
	"fmt"
	"io"
	"strings"
)

// Node is a fragment of the syntax tree: a *Leaf holding one token or a
// *Branch holding the children of one production.
type Node interface {
	fmt.Stringer
	node()
}

type Leaf struct {
	Token Token
}

func (*Leaf) node() {}

func (l *Leaf) String() string {
	if l.Token.IsKeyword() {
		return fmt.Sprintf("'%s'", l.Token.Value)
	}
	return fmt.Sprintf("%s:%s", l.Token.Type, l.Token.Value)
}

type Branch struct {
	Rule     string
	Children []Node
}

func (*Branch) node() {}

func (b *Branch) String() string {
	parts := make([]string, 0, len(b.Children)+1)
	parts = append(parts, b.Rule)
	for _, child := range b.Children {
		parts = append(parts, child.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Branches returns the direct children produced by the named rule.
func (b *Branch) Branches(rule string) []*Branch {
	found := []*Branch{}
	for _, child := range b.Children {
		if cb, ok := child.(*Branch); ok && cb.Rule == rule {
			found = append(found, cb)
		}
	}
	return found
}

// Simplify collapses every branch with a single child into that child, so
// chains like expr > term > factor > power > atom reduce to the token they
// hold. Branches with zero or several children are kept.
func Simplify(n Node) Node {
	b, ok := n.(*Branch)
	if !ok {
		return n
	}
	if len(b.Children) == 1 {
		return Simplify(b.Children[0])
	}
	children := make([]Node, len(b.Children))
	for i, child := range b.Children {
		children[i] = Simplify(child)
	}
	return &Branch{Rule: b.Rule, Children: children}
}

// Find walks the tree depth first and returns every branch made by rule.
func Find(n Node, rule string) []*Branch {
	found := []*Branch{}
	var walk func(Node)
	walk = func(n Node) {
		b, ok := n.(*Branch)
		if !ok {
			return
		}
		if b.Rule == rule {
			found = append(found, b)
		}
		for _, child := range b.Children {
			walk(child)
		}
	}
	walk(n)
	return found
}

// Tokens returns the leaves of n in source order.
func Tokens(n Node) []Token {
	tokens := []Token{}
	var walk func(Node)
	walk = func(n Node) {
		switch v := n.(type) {
		case *Leaf:
			tokens = append(tokens, v.Token)
		case *Branch:
			for _, child := range v.Children {
				walk(child)
			}
		}
	}
	walk(n)
	return tokens
}

// Pretty writes n as an indented outline, one node per line.
func Pretty(w io.Writer, n Node) error {
	return pretty(w, n, 0)
}

func pretty(w io.Writer, n Node, depth int) error {
	pad := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *Leaf:
		_, err := fmt.Fprintf(w, "%s%s\n", pad, v)
		return err
	case *Branch:
		if _, err := fmt.Fprintf(w, "%s%s\n", pad, v.Rule); err != nil {
			return err
		}
		for _, child := range v.Children {
			if err := pretty(w, child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
