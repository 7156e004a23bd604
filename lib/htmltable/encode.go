package htmltable

import (
	"fmt"
	"niopendata/lib/tree"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type EncodeOptions struct {
	// defaults to DefaultFormatter
	Formatter Formatter
	// drops the leading index column, tables encoded this way decode with
	// positional indices
	OmitIndex bool
}

// Encode renders rows under schema as an HTML table.
func Encode(schema tree.Branch, rows []Row, opts EncodeOptions) (string, error) {
	table, err := EncodeNode(schema, rows, opts)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	err = html.Render(&out, table)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// EncodeNode builds the <table> node for rows under schema. There is one
// header row per schema depth; a leaf that ends above its deepest sibling
// stretches down with rowspan so that every leaf header ends on the last
// header row.
func EncodeNode(schema tree.Branch, rows []Row, opts EncodeOptions) (*html.Node, error) {
	err := tree.Validate(schema)
	if err != nil {
		return nil, err
	}
	formatter := opts.Formatter
	if formatter == nil {
		formatter = DefaultFormatter
	}

	table := element(atom.Table)
	thead := element(atom.Thead)
	tbody := element(atom.Tbody)
	table.AppendChild(thead)
	table.AppendChild(tbody)

	depth := tree.Depth(schema)
	for d := 0; d < depth; d++ {
		tr := element(atom.Tr)
		if d == 0 && !opts.OmitIndex {
			tr.AppendChild(cell(atom.Th, IndexLabel, 1, depth))
		}

		items := tree.ItemsAt(schema, d)
		deepest := 0
		for _, item := range items {
			deepest = max(deepest, tree.Depth(item.Node))
		}
		for _, item := range items {
			rowspan := 1
			if _, isLeaf := item.Node.(tree.Leaf); isLeaf {
				rowspan = 1 + deepest - tree.Depth(item.Node)
			}
			tr.AppendChild(cell(atom.Th, item.Label, tree.Breadth(item.Node), rowspan))
		}
		thead.AppendChild(tr)
	}

	paths := tree.Paths(schema)
	for _, row := range rows {
		tr := element(atom.Tr)
		if !opts.OmitIndex {
			tr.AppendChild(cell(atom.Th, row.Index, 1, 1))
		}
		for _, p := range paths {
			text, err := recordCell(row.Record, p, formatter)
			if err != nil {
				return nil, fmt.Errorf("row %q: %w", row.Index, err)
			}
			tr.AppendChild(cell(atom.Td, text, 1, 1))
		}
		tbody.AppendChild(tr)
	}

	return table, nil
}

// recordCell formats the value at path, a column missing from the record
// renders as an empty cell.
func recordCell(record tree.Branch, path tree.Path, formatter Formatter) (string, error) {
	n, ok := tree.Lookup(record, path)
	if !ok {
		return "", nil
	}
	leaf, ok := n.(tree.Leaf)
	if !ok {
		return "", fmt.Errorf("%w: %q is a branch in the record but a column in the schema", ErrInvalidArgument, path.String())
	}
	switch len(leaf.Values) {
	case 0:
		return "", nil
	case 1:
		return formatter.Format(leaf.Values[0]), nil
	}
	return "", fmt.Errorf("%w: %q holds %d values", ErrInvalidArgument, path.String(), len(leaf.Values))
}

func element(a atom.Atom) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
}

func cell(a atom.Atom, text string, colspan, rowspan int) *html.Node {
	n := element(a)
	if colspan > 1 {
		n.Attr = append(n.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(colspan)})
	}
	if rowspan > 1 {
		n.Attr = append(n.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(rowspan)})
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
