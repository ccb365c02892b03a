package extract

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

// EAD caps component nesting at c01..c12; anything deeper means the
// containment relation is broken.
const maxComponentDepth = 12

// eadExtractor walks an archival finding aid: the biographical note
// first, then the component description tree under <dsc>.
type eadExtractor struct {
	doc *etree.Document
	log zerolog.Logger
}

func (e *eadExtractor) Sections() ([]Section, error) {
	arch := e.doc.FindElement("//archdesc")
	if arch == nil {
		return nil, fmt.Errorf("%w: no archdesc element", internalerr.ErrInvalidInput)
	}

	var out []Section
	if sec, ok := e.biography(arch); ok {
		out = append(out, sec)
	}

	dsc := arch.FindElement("dsc")
	if dsc == nil {
		e.log.Warn().Msg("no dsc element; no component descriptions to process")
		return out, nil
	}

	series := childComponents(dsc)
	if hasNestedSubseries(series) {
		for _, s := range series {
			secs, err := e.seriesSections(s, 1)
			if err != nil {
				return nil, err
			}
			out = append(out, secs...)
		}
		return out, nil
	}

	// Flat container list: no top-level series carries subseries, so
	// all item titles go into one section.
	var titles []*etree.Element
	for _, s := range series {
		items := childComponents(s)
		if len(items) == 0 {
			items = []*etree.Element{s}
		}
		for _, it := range items {
			if t := it.FindElement("did/unittitle"); t != nil {
				titles = append(titles, t)
			}
		}
	}
	if len(titles) > 0 {
		out = append(out, Section{Label: "Container List", Nodes: titles})
	}
	return out, nil
}

// biography emits the bioghist section when present; its absence is an
// authoring gap worth telling the operator about, not an error.
func (e *eadExtractor) biography(arch *etree.Element) (Section, bool) {
	bio := arch.FindElement("bioghist")
	if bio == nil {
		e.log.Warn().Msg("no bioghist element; skipping biographical note")
		return Section{}, false
	}
	label := "Biographical or Historical Note"
	if h := bio.FindElement("head"); h != nil {
		if t := Flatten(h); t != "" {
			label = t
		}
	}
	ps := bio.SelectElements("p")
	if len(ps) == 0 {
		e.log.Warn().Msg("bioghist has no paragraphs; skipping biographical note")
		return Section{}, false
	}
	return Section{Label: label, Nodes: ps}, true
}

// seriesSections emits the sections for one series node: its scope note
// if any, then either its subseries (recursively) or its item titles.
// A series with neither yields nothing; that is a gap in the document,
// not a traversal error.
func (e *eadExtractor) seriesSections(c *etree.Element, depth int) ([]Section, error) {
	if depth > maxComponentDepth {
		return nil, fmt.Errorf("%w: component nesting deeper than %d levels", internalerr.ErrInvalidInput, maxComponentDepth)
	}

	title := componentTitle(c)
	var out []Section

	if sc := c.FindElement("scopecontent"); sc != nil {
		head := "Scope and Contents"
		if h := sc.FindElement("head"); h != nil {
			if t := Flatten(h); t != "" {
				head = t
			}
		}
		if ps := sc.SelectElements("p"); len(ps) > 0 {
			out = append(out, Section{Label: title + " : " + head, Nodes: ps})
		}
	}

	var subseries, items []*etree.Element
	for _, child := range childComponents(c) {
		if child.SelectAttrValue("level", "") == "subseries" {
			subseries = append(subseries, child)
		} else {
			items = append(items, child)
		}
	}

	if len(subseries) > 0 {
		for _, sub := range subseries {
			secs, err := e.seriesSections(sub, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, secs...)
		}
		return out, nil
	}

	if len(items) > 0 {
		var titles []*etree.Element
		for _, it := range items {
			if t := it.FindElement("did/unittitle"); t != nil {
				titles = append(titles, t)
			}
		}
		if len(titles) > 0 {
			out = append(out, Section{Label: title + ": item descriptions", Nodes: titles})
		}
	}
	return out, nil
}

func componentTitle(c *etree.Element) string {
	if t := c.FindElement("did/unittitle"); t != nil {
		if s := Flatten(t); s != "" {
			return s
		}
	}
	return "(untitled)"
}

// childComponents returns the component children (<c>, <c01>..<c12>)
// of an element, in document order.
func childComponents(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if isComponentTag(child.Tag) {
			out = append(out, child)
		}
	}
	return out
}

func isComponentTag(tag string) bool {
	if tag == "c" {
		return true
	}
	return len(tag) == 3 && tag[0] == 'c' &&
		tag[1] >= '0' && tag[1] <= '9' && tag[2] >= '0' && tag[2] <= '9'
}

// hasNestedSubseries reports whether any top-level series carries a
// subseries child. That decides nested per-series emission versus the
// flat container-list fallback.
func hasNestedSubseries(series []*etree.Element) bool {
	for _, s := range series {
		for _, child := range childComponents(s) {
			if child.SelectAttrValue("level", "") == "subseries" {
				return true
			}
		}
	}
	return false
}
