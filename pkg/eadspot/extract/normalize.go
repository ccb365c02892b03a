package extract

import (
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

// Flatten returns the whitespace-normalized plain text of an element
// subtree. Finding aids sometimes carry escaped inline markup inside
// text nodes; that is stripped as well.
func Flatten(el *etree.Element) string {
	var sb strings.Builder
	gatherText(el, &sb)
	return NormalizeSpace(stripMarkup(sb.String()))
}

func gatherText(el *etree.Element, sb *strings.Builder) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteByte(' ')
			gatherText(t, sb)
			sb.WriteByte(' ')
		}
	}
}

// NormalizeSpace collapses all runs of whitespace to single spaces and
// trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripMarkup drops any embedded inline markup, keeping text content.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}
