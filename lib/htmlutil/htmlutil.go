package htmlutil

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	// <br> inside a cell separates words
	if node.Type == html.ElementNode && node.Data == "br" {
		buffer.WriteByte(' ')
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText strips non-printable characters, trims the ends and
// collapses runs of whitespace into a single space.
func NormalizeText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Map(func(r rune) rune {
		// non breaking spaces are common in wiki tables
		if r == '\u00a0' {
			return ' '
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	s = innerWhitespace.ReplaceAllString(s, " ")
	return s
}

// CellText is the normalized text content of a table cell.
func CellText(node *html.Node) string {
	return NormalizeText(GetText(node))
}

// IntAttr reads a positive integer attribute such as colspan, anything
// missing or malformed falls back to def.
func IntAttr(sel *goquery.Selection, name string, def int) int {
	raw, ok := sel.Attr(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
