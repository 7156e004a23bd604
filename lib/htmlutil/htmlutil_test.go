package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestCellText(t *testing.T) {
	testCases := []struct {
		html     string
		expected string
	}{
		{html: `<td>  Min  </td>`, expected: "Min"},
		{html: `<td><b>Max</b> temp</td>`, expected: "Max temp"},
		{html: "<td>line\n\n  two</td>", expected: "line two"},
		{html: `<td>a<br>b</td>`, expected: "a b"},
		{html: "<td>&nbsp;x&nbsp;</td>", expected: "x"},
		{html: `<td></td>`, expected: ""},
	}

	for _, test := range testCases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader("<table><tr>" + test.html + "</tr></table>"))
		require.NoError(t, err)
		cell := doc.Find("td").Nodes[0]
		require.Equal(t, test.expected, CellText(cell), test.html)
	}
}

func TestIntAttr(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><td colspan="3" rowspan="zero" data-x="-2"></td></tr></table>`,
	))
	require.NoError(t, err)
	cell := doc.Find("td")

	require.Equal(t, 3, IntAttr(cell, "colspan", 1))
	require.Equal(t, 1, IntAttr(cell, "rowspan", 1))
	require.Equal(t, 1, IntAttr(cell, "data-x", 1))
	require.Equal(t, 7, IntAttr(cell, "missing", 7))
}
