package extract

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

// Tags considered heading-like when labeling a path-matched block.
var headingTags = map[string]bool{
	"head":      true,
	"title":     true,
	"unittitle": true,
	"caption":   true,
	"label":     true,
}

// pathExtractor emits one section per subtree matched by a
// user-supplied path expression, in document order.
type pathExtractor struct {
	doc  *etree.Document
	path etree.Path
}

func newPathExtractor(doc *etree.Document, expr string) (*pathExtractor, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: path expression required for path-selected documents", internalerr.ErrInvalidConfig)
	}
	p, err := etree.CompilePath(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad path expression %q: %v", internalerr.ErrInvalidConfig, expr, err)
	}
	return &pathExtractor{doc: doc, path: p}, nil
}

func (p *pathExtractor) Sections() ([]Section, error) {
	matches := p.doc.FindElementsPath(p.path)
	out := make([]Section, 0, len(matches))
	for i, m := range matches {
		label := headingLabel(m)
		if label == "" {
			label = fmt.Sprintf("%s %d", m.Tag, i+1)
		}
		// The section node is the matched subtree itself, not its
		// flattened text: writeback needs the real tree.
		out = append(out, Section{Label: label, Nodes: []*etree.Element{m}})
	}
	return out, nil
}

// headingLabel finds the first heading-like descendant in document
// order and returns its normalized text.
func headingLabel(el *etree.Element) string {
	if headingTags[el.Tag] {
		return Flatten(el)
	}
	for _, child := range el.ChildElements() {
		if label := headingLabel(child); label != "" {
			return label
		}
	}
	return ""
}
