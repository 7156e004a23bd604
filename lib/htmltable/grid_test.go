package htmltable

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, markup string) Grid {
	g, err := ParseGrid(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestParseGrid(t *testing.T) {
	g := parse(t, `
<table>
	<thead>
		<tr><th rowspan="2"></th><th colspan="2">Temp</th><th rowspan="2">Rain</th></tr>
		<tr><th>Min</th><th>Max</th></tr>
	</thead>
	<tbody>
		<tr><th>Mon</th><td>5</td><td>12</td><td>0.4</td></tr>
		<tr><th>Tue</th><td>6</td><td>13</td><td>0</td></tr>
	</tbody>
</table>`)

	require.Equal(t, 4, g.Height())
	require.Equal(t, 4, g.Width())
	require.Equal(t, 2, g.HeaderDepth())

	expected := [][]Cell{
		{
			{Row: 0, Col: 0, Text: "", Header: true, ColSpan: 1, RowSpan: 2},
			{Row: 0, Col: 1, Text: "Temp", Header: true, ColSpan: 2, RowSpan: 1},
			{Row: 0, Col: 3, Text: "Rain", Header: true, ColSpan: 1, RowSpan: 2},
		},
		{
			{Row: 1, Col: 1, Text: "Min", Header: true, ColSpan: 1, RowSpan: 1},
			{Row: 1, Col: 2, Text: "Max", Header: true, ColSpan: 1, RowSpan: 1},
		},
		{
			{Row: 2, Col: 0, Text: "Mon", Header: true, ColSpan: 1, RowSpan: 1},
			{Row: 2, Col: 1, Text: "5", ColSpan: 1, RowSpan: 1},
			{Row: 2, Col: 2, Text: "12", ColSpan: 1, RowSpan: 1},
			{Row: 2, Col: 3, Text: "0.4", ColSpan: 1, RowSpan: 1},
		},
	}
	for r, row := range expected {
		diff := cmp.Diff(row, g.Row(r))
		if diff != "" {
			t.Fatalf("row %d: %s", r, diff)
		}
	}

	c, ok := g.At(0, 3)
	require.True(t, ok)
	require.Equal(t, "Rain", c.Text)
	_, ok = g.At(1, 3)
	require.False(t, ok, "rowspan continuation is not a cell of its own")
	require.Nil(t, g.Row(10))
}

func TestParseGridHeaderWithoutThead(t *testing.T) {
	g := parse(t, `<table>
		<tr><th>a</th><th>b</th></tr>
		<tr><td>1</td><td>2</td></tr>
		<tr><th>only th but after data</th><th>x</th></tr>
	</table>`)
	require.Equal(t, 1, g.HeaderDepth())
	require.Equal(t, 3, g.Height())
}

func TestParseGridRowspanAcrossColspan(t *testing.T) {
	g := parse(t, `<table>
		<tr><th colspan="2" rowspan="2">wide</th><th>c</th></tr>
		<tr><th>d</th></tr>
	</table>`)

	row := g.Row(1)
	require.Len(t, row, 1)
	require.Equal(t, 2, row[0].Col)
}

func TestParseGridOverlap(t *testing.T) {
	_, err := ParseGrid(strings.NewReader(`<table>
		<tr><td>a</td><td rowspan="2">b</td></tr>
		<tr><td colspan="2">c</td></tr>
	</table>`))
	require.True(t, errors.Is(err, ErrCellOverlap), err)
}

func TestParseGridIgnoresNestedTables(t *testing.T) {
	g := parse(t, `<table>
		<tr><th>a</th><th>b</th></tr>
		<tr><td><table><tr><td>inner</td><td>x</td></tr></table></td><td>2</td></tr>
	</table>`)
	require.Equal(t, 2, g.Height())
	require.Len(t, g.Row(1), 2)
}

func TestParseGridNoTable(t *testing.T) {
	_, err := ParseGrid(strings.NewReader(`<p>nothing here</p>`))
	require.True(t, errors.Is(err, ErrNoTable), err)
}
