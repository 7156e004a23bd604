// Package tree implements the labeled tree used to describe nested table
// headers (schemas) and nested row values (records).
package tree

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Value is a single cell value.
type Value = any

// Node is either a Leaf or a Branch, nothing else implements it.
type Node interface {
	isNode()
}

// Leaf is a terminal column. In a schema it is empty, once populated it
// holds one value per data row.
type Leaf struct {
	Values []Value
}

// Branch is an ordered set of labeled children.
type Branch struct {
	Children []Child
}

type Child struct {
	Label string
	Node  Node
}

func (Leaf) isNode()   {}
func (Branch) isNode() {}

// Path is the list of labels from the root to a leaf.
type Path []string

func (p Path) Join(sep string) string {
	return strings.Join(p, sep)
}

func (p Path) String() string {
	return p.Join("/")
}

var ErrEmptyBranch = errors.New("branch has no children")
var ErrDuplicateLabel = errors.New("duplicate label under the same branch")

func NewLeaf(values ...Value) Leaf {
	return Leaf{Values: values}
}

func NewBranch(children ...Child) Branch {
	return Branch{Children: children}
}

func Entry(label string, node Node) Child {
	return Child{Label: label, Node: node}
}

// Get returns the child with the given label.
func (b Branch) Get(label string) (Node, bool) {
	for _, c := range b.Children {
		if c.Label == label {
			return c.Node, true
		}
	}
	return nil, false
}

// Without returns a copy of the branch minus the child with the given label.
func (b Branch) Without(label string) Branch {
	children := make([]Child, 0, len(b.Children))
	for _, c := range b.Children {
		if c.Label == label {
			continue
		}
		children = append(children, c)
	}
	return Branch{Children: children}
}

// Depth is 0 for a leaf and 1 + the deepest child for a branch. An empty
// branch has depth 1, callers are expected to Validate before relying on it.
func Depth(n Node) int {
	switch n := n.(type) {
	case Leaf:
		return 0
	case Branch:
		deepest := 0
		for _, c := range n.Children {
			deepest = max(deepest, Depth(c.Node))
		}
		return 1 + deepest
	}
	panic(fmt.Sprintf("tree: unknown node type %T", n))
}

// Breadth is the number of leaf columns under n. An empty branch has
// breadth 0.
func Breadth(n Node) int {
	switch n := n.(type) {
	case Leaf:
		return 1
	case Branch:
		total := 0
		for _, c := range n.Children {
			total += Breadth(c.Node)
		}
		return total
	}
	panic(fmt.Sprintf("tree: unknown node type %T", n))
}

// Leaves yields every leaf depth first, left to right.
func Leaves(n Node) iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		for _, leaf := range LeafPaths(n) {
			if !yield(leaf) {
				return
			}
		}
	}
}

// LeafPaths yields every leaf along with the labels leading to it. The
// yielded path must not be retained past the iteration step without
// copying it.
func LeafPaths(n Node) iter.Seq2[Path, Leaf] {
	return func(yield func(Path, Leaf) bool) {
		walkLeaves(n, nil, yield)
	}
}

func walkLeaves(n Node, prefix Path, yield func(Path, Leaf) bool) bool {
	switch n := n.(type) {
	case Leaf:
		return yield(prefix, n)
	case Branch:
		for _, c := range n.Children {
			if !walkLeaves(c.Node, append(prefix, c.Label), yield) {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("tree: unknown node type %T", n))
}

// Paths collects the path of every leaf, each path is its own copy.
func Paths(n Node) []Path {
	var out []Path
	for p := range LeafPaths(n) {
		out = append(out, append(Path(nil), p...))
	}
	return out
}

// ItemsAt returns the labeled subtrees whose distance from the root is d,
// where the direct children of the root are at distance 0.
func ItemsAt(n Node, d int) []Child {
	b, ok := n.(Branch)
	if !ok || d < 0 {
		return nil
	}
	if d == 0 {
		return append([]Child(nil), b.Children...)
	}
	var out []Child
	for _, c := range b.Children {
		out = append(out, ItemsAt(c.Node, d-1)...)
	}
	return out
}

// FlattenDict maps each sep-joined leaf path to that leaf's values.
func FlattenDict(n Node, sep string) map[string][]Value {
	out := map[string][]Value{}
	for p, leaf := range LeafPaths(n) {
		out[p.Join(sep)] = leaf.Values
	}
	return out
}

// Lookup follows path from n.
func Lookup(n Node, path Path) (Node, bool) {
	current := n
	for _, label := range path {
		b, ok := current.(Branch)
		if !ok {
			return nil, false
		}
		current, ok = b.Get(label)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Heights returns the number of values held by each leaf, in leaf order.
func Heights(n Node) []int {
	var out []int
	for leaf := range Leaves(n) {
		out = append(out, len(leaf.Values))
	}
	return out
}

// Validate rejects empty branches and repeated sibling labels, both of
// which make leaf paths ambiguous.
func Validate(n Node) error {
	return validate(n, nil)
}

func validate(n Node, prefix Path) error {
	switch n := n.(type) {
	case Leaf:
		return nil
	case Branch:
		if len(n.Children) == 0 {
			return fmt.Errorf("%w: at %q", ErrEmptyBranch, prefix.String())
		}
		seen := make(map[string]struct{}, len(n.Children))
		for _, c := range n.Children {
			if _, dup := seen[c.Label]; dup {
				return fmt.Errorf("%w: %q at %q", ErrDuplicateLabel, c.Label, prefix.String())
			}
			seen[c.Label] = struct{}{}
			if c.Node == nil {
				return fmt.Errorf("tree: nil node for %q at %q", c.Label, prefix.String())
			}
			err := validate(c.Node, append(prefix, c.Label))
			if err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("tree: unknown node type %T", n)
}
