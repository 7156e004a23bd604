package tablesync

import (
	"fmt"
	"niopendata/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const footerPrefix = "Last updated:"

func defaultFooter(stamp string) string {
	return fmt.Sprintf("<p>%s %s</p>", footerPrefix, stamp)
}

// pageBody holds a parsed page and the single top level table inside it.
type pageBody struct {
	doc   *goquery.Document
	table *goquery.Selection
}

func parsePageBody(body string) (pageBody, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return pageBody{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	tables := doc.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered("table").Length() == 0
	})
	switch tables.Length() {
	case 0:
		return pageBody{}, ErrTableNotFound
	case 1:
		return pageBody{doc: doc, table: tables}, nil
	default:
		return pageBody{}, fmt.Errorf("%w: found %d", ErrMultipleTables, tables.Length())
	}
}

// replaceTable swaps the table for markup and, if the paragraph that follows
// it is a "Last updated" footer, restamps it. everything else in the page is
// kept as is.
func (p pageBody) replaceTable(markup string, stamp string) (string, error) {
	footer := p.table.NextFiltered("p")
	if footer.Length() > 0 && strings.HasPrefix(htmlutil.CellText(footer.Get(0)), footerPrefix) {
		footer.SetText(fmt.Sprintf("%s %s", footerPrefix, stamp))
	}
	p.table.ReplaceWithHtml(markup)
	return p.doc.Find("body").Html()
}

func newPageBody(header, markup, footer string) string {
	var out strings.Builder
	out.WriteString(header)
	out.WriteString(markup)
	out.WriteString(footer)
	return out.String()
}
