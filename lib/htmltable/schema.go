package htmltable

import (
	"fmt"
	"niopendata/lib/tree"
)

// BuildSchema infers the nested column schema from the header rows of g.
func BuildSchema(g Grid) (tree.Branch, error) {
	depth := g.HeaderDepth()
	if depth == 0 {
		return tree.Branch{}, ErrNoHeader
	}

	children, err := tableWalker(g, depth, 0, 0, g.Width())
	if err != nil {
		return tree.Branch{}, err
	}
	if len(children) == 0 {
		return tree.Branch{}, ErrNoHeader
	}

	schema := tree.NewBranch(children...)
	err = tree.Validate(schema)
	if err != nil {
		return tree.Branch{}, err
	}
	return schema, nil
}

// tableWalker reads the header cells of row that start inside
// [colMin, colMax). A cell spans up to where the next one starts, the last
// one up to colMax. A cell becomes a branch when the next header row has
// cells under it and a leaf otherwise.
func tableWalker(g Grid, headerDepth, row, colMin, colMax int) ([]tree.Child, error) {
	if row >= headerDepth {
		return nil, nil
	}

	var cells []Cell
	for _, c := range g.Row(row) {
		if c.Col >= colMin && c.Col < colMax {
			cells = append(cells, c)
		}
	}

	children := make([]tree.Child, 0, len(cells))
	for i, c := range cells {
		end := colMax
		if i+1 < len(cells) {
			end = cells[i+1].Col
		}
		width := end - c.Col

		below, err := tableWalker(g, headerDepth, row+1, c.Col, end)
		if err != nil {
			return nil, err
		}
		if len(below) == 0 {
			children = append(children, tree.Entry(c.Text, tree.NewLeaf()))
			continue
		}
		if width == 1 && len(below) == 1 && below[0].Label == "" {
			return nil, fmt.Errorf("%w: %q at row %d, column %d", ErrAmbiguousHeader, c.Text, row, c.Col)
		}
		children = append(children, tree.Entry(c.Text, tree.NewBranch(below...)))
	}
	return children, nil
}
