package extract

import "github.com/beevik/etree"

// textExtractor treats the whole document as one section. Used for
// plain-text input, wrapped in a synthetic single-element tree so the
// rest of the pipeline stays uniform.
type textExtractor struct {
	doc   *etree.Document
	label string
}

func (t *textExtractor) Sections() ([]Section, error) {
	root := t.doc.Root()
	if root == nil {
		return nil, nil
	}
	label := t.label
	if label == "" {
		label = "Text"
	}
	return []Section{{Label: label, Nodes: []*etree.Element{root}}}, nil
}

// TextDocument wraps a raw text blob in a synthetic one-element tree.
func TextDocument(text string) *etree.Document {
	doc := etree.NewDocument()
	root := doc.CreateElement("text")
	root.SetText(text)
	return doc
}
