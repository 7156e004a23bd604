package tree

import (
	"errors"
	"fmt"
)

var ErrPathConflict = errors.New("path conflicts with an existing column")
var ErrValueCount = errors.New("value count does not match leaf count")

// builder nodes are only created for paths that were declared, lookups
// never create anything.
type buildNode struct {
	leaf     bool
	labels   []string
	children map[string]*buildNode
}

func (b *buildNode) child(label string) *buildNode {
	if c, ok := b.children[label]; ok {
		return c
	}
	if b.children == nil {
		b.children = map[string]*buildNode{}
	}
	c := &buildNode{}
	b.children[label] = c
	b.labels = append(b.labels, label)
	return c
}

func (b *buildNode) node() Node {
	if b.leaf {
		return Leaf{}
	}
	out := Branch{Children: make([]Child, 0, len(b.labels))}
	for _, label := range b.labels {
		out.Children = append(out.Children, Child{Label: label, Node: b.children[label].node()})
	}
	return out
}

// Build declares a schema from column paths. Columns sharing a prefix are
// grouped under the branch of the first path that introduced it, so the
// leaf order of the result may differ from the argument order when paths
// with a shared prefix are not adjacent.
func Build(paths ...Path) (Branch, error) {
	root := &buildNode{}
	for _, p := range paths {
		if len(p) == 0 {
			return Branch{}, fmt.Errorf("%w: empty path", ErrPathConflict)
		}
		current := root
		for i, label := range p {
			if current.leaf {
				return Branch{}, fmt.Errorf("%w: %q extends leaf %q", ErrPathConflict, p.String(), Path(p[:i]).String())
			}
			current = current.child(label)
		}
		if current.leaf || len(current.children) > 0 {
			return Branch{}, fmt.Errorf("%w: %q declared twice or over a branch", ErrPathConflict, p.String())
		}
		current.leaf = true
	}
	if len(root.labels) == 0 {
		return Branch{}, ErrEmptyBranch
	}
	return root.node().(Branch), nil
}

// Assemble returns a copy of shape where the i-th leaf (in LeafPaths
// order) holds values[i] as its single value.
func Assemble(shape Node, values []Value) (Node, error) {
	if len(values) != Breadth(shape) {
		return nil, fmt.Errorf("%w: %d values for %d leaves", ErrValueCount, len(values), Breadth(shape))
	}
	out, _ := assemble(shape, values)
	return out, nil
}

func assemble(shape Node, values []Value) (Node, []Value) {
	switch shape := shape.(type) {
	case Leaf:
		return Leaf{Values: []Value{values[0]}}, values[1:]
	case Branch:
		out := Branch{Children: make([]Child, 0, len(shape.Children))}
		for _, c := range shape.Children {
			var n Node
			n, values = assemble(c.Node, values)
			out.Children = append(out.Children, Child{Label: c.Label, Node: n})
		}
		return out, values
	}
	panic(fmt.Sprintf("tree: unknown node type %T", shape))
}

// Fill returns a copy of shape where the i-th leaf holds columns[i].
func Fill(shape Node, columns [][]Value) (Node, error) {
	if len(columns) != Breadth(shape) {
		return nil, fmt.Errorf("%w: %d columns for %d leaves", ErrValueCount, len(columns), Breadth(shape))
	}
	out, _ := fill(shape, columns)
	return out, nil
}

func fill(shape Node, columns [][]Value) (Node, [][]Value) {
	switch shape := shape.(type) {
	case Leaf:
		return Leaf{Values: columns[0]}, columns[1:]
	case Branch:
		out := Branch{Children: make([]Child, 0, len(shape.Children))}
		for _, c := range shape.Children {
			var n Node
			n, columns = fill(c.Node, columns)
			out.Children = append(out.Children, Child{Label: c.Label, Node: n})
		}
		return out, columns
	}
	panic(fmt.Sprintf("tree: unknown node type %T", shape))
}

// Shape returns a copy of n with every leaf emptied.
func Shape(n Node) Node {
	switch n := n.(type) {
	case Leaf:
		return Leaf{}
	case Branch:
		out := Branch{Children: make([]Child, 0, len(n.Children))}
		for _, c := range n.Children {
			out.Children = append(out.Children, Child{Label: c.Label, Node: Shape(c.Node)})
		}
		return out
	}
	panic(fmt.Sprintf("tree: unknown node type %T", n))
}

// Val is a leaf holding a single value.
func Val(v Value) Leaf {
	return Leaf{Values: []Value{v}}
}
