package tree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func weatherSchema() Branch {
	return NewBranch(
		Entry("Temp", NewBranch(
			Entry("Min", NewLeaf()),
			Entry("Max", NewLeaf()),
		)),
		Entry("Rain", NewLeaf()),
	)
}

func TestDepthBreadth(t *testing.T) {
	testCases := []struct {
		name    string
		node    Node
		depth   int
		breadth int
	}{
		{name: "leaf", node: NewLeaf(), depth: 0, breadth: 1},
		{name: "flat", node: NewBranch(Entry("a", NewLeaf()), Entry("b", NewLeaf())), depth: 1, breadth: 2},
		{name: "weather", node: weatherSchema(), depth: 2, breadth: 3},
		{
			name: "uneven",
			node: NewBranch(
				Entry("a", NewBranch(Entry("b", NewBranch(Entry("c", NewLeaf()), Entry("d", NewLeaf()))))),
				Entry("e", NewLeaf()),
			),
			depth:   3,
			breadth: 3,
		},
		{name: "empty branch default", node: NewBranch(), depth: 1, breadth: 0},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.depth, Depth(test.node))
			require.Equal(t, test.breadth, Breadth(test.node))
		})
	}
}

func TestLeafPaths(t *testing.T) {
	paths := Paths(weatherSchema())
	diff := cmp.Diff([]Path{{"Temp", "Min"}, {"Temp", "Max"}, {"Rain"}}, paths)
	require.Empty(t, diff)
	require.Len(t, paths, Breadth(weatherSchema()))

	// restartable
	count := 0
	seq := Leaves(weatherSchema())
	for range seq {
		count++
	}
	for range seq {
		count++
	}
	require.Equal(t, 6, count)

	// early break
	for p := range LeafPaths(weatherSchema()) {
		require.Equal(t, Path{"Temp", "Min"}, p)
		break
	}
}

func TestItemsAt(t *testing.T) {
	schema := weatherSchema()

	labels := func(children []Child) []string {
		var out []string
		for _, c := range children {
			out = append(out, c.Label)
		}
		return out
	}

	require.Equal(t, []string{"Temp", "Rain"}, labels(ItemsAt(schema, 0)))
	require.Equal(t, []string{"Min", "Max"}, labels(ItemsAt(schema, 1)))
	require.Empty(t, ItemsAt(schema, 2))
	require.Empty(t, ItemsAt(NewLeaf(), 0))
}

func TestFlattenDict(t *testing.T) {
	record := NewBranch(
		Entry("Temp", NewBranch(Entry("Min", Val(5)), Entry("Max", Val(12)))),
		Entry("Rain", Val(0.4)),
	)
	diff := cmp.Diff(map[string][]Value{
		"Temp.Min": {5},
		"Temp.Max": {12},
		"Rain":     {0.4},
	}, FlattenDict(record, "."))
	require.Empty(t, diff)
}

func TestLookup(t *testing.T) {
	schema := weatherSchema()

	n, ok := Lookup(schema, Path{"Temp", "Max"})
	require.True(t, ok)
	require.Equal(t, NewLeaf(), n)

	_, ok = Lookup(schema, Path{"Temp", "Avg"})
	require.False(t, ok)
	_, ok = Lookup(schema, Path{"Rain", "Total"})
	require.False(t, ok)

	n, ok = Lookup(schema, nil)
	require.True(t, ok)
	require.Equal(t, schema, n)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(weatherSchema()))

	err := Validate(NewBranch(Entry("a", NewBranch())))
	require.True(t, errors.Is(err, ErrEmptyBranch), err)

	err = Validate(NewBranch(Entry("a", NewLeaf()), Entry("a", NewLeaf())))
	require.True(t, errors.Is(err, ErrDuplicateLabel), err)
}

func TestBuild(t *testing.T) {
	schema, err := Build(Path{"Temp", "Min"}, Path{"Temp", "Max"}, Path{"Rain"})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(weatherSchema(), schema))

	_, err = Build(Path{"Temp"}, Path{"Temp", "Min"})
	require.True(t, errors.Is(err, ErrPathConflict), err)

	_, err = Build(Path{"Temp", "Min"}, Path{"Temp"})
	require.True(t, errors.Is(err, ErrPathConflict), err)

	_, err = Build()
	require.True(t, errors.Is(err, ErrEmptyBranch), err)
}

func TestAssemble(t *testing.T) {
	record, err := Assemble(weatherSchema(), []Value{5, 12, 0.4})
	require.NoError(t, err)

	expected := NewBranch(
		Entry("Temp", NewBranch(Entry("Min", Val(5)), Entry("Max", Val(12)))),
		Entry("Rain", Val(0.4)),
	)
	require.Empty(t, cmp.Diff(Node(expected), record))

	_, err = Assemble(weatherSchema(), []Value{1, 2})
	require.True(t, errors.Is(err, ErrValueCount), err)

	require.Empty(t, cmp.Diff(Node(weatherSchema()), Shape(expected)))
}

func TestHeights(t *testing.T) {
	populated := NewBranch(
		Entry("a", NewLeaf(1, 2)),
		Entry("b", NewBranch(Entry("c", NewLeaf(3, 4)), Entry("d", NewLeaf(5, 6, 7)))),
	)
	require.Equal(t, []int{2, 2, 3}, Heights(populated))
}
