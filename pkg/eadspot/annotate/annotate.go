// Package annotate embeds entity markup for recognized spans directly
// into the source tree. Locating a surface form inside arbitrarily
// complex mixed content is best-effort: a span split across existing
// child markup is left alone rather than mangled.
package annotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/archivetools/eadspot/pkg/eadspot/extract"
	"github.com/archivetools/eadspot/pkg/eadspot/resource"
)

// oXygen reads these processing instructions as reviewable insertions.
const (
	piInsertStart = "oxy_insert_start"
	piInsertEnd   = "oxy_insert_end"
	piOptions     = "oxy_options"

	oxyTimestamp = "20060102T150405-0700"
)

// Options configures the annotator for one run.
type Options struct {
	Kind         extract.Kind
	TrackChanges bool

	// Author is recorded in track-changes markers.
	Author string

	// Now supplies track-changes timestamps; defaults to time.Now.
	Now func() time.Time
}

// Annotator mutates section nodes in place.
type Annotator struct {
	opts Options
}

// New creates an annotator.
func New(opts Options) *Annotator {
	if opts.Author == "" {
		opts.Author = "eadspot"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Annotator{opts: opts}
}

// Annotate wraps the first occurrence of each record's surface form
// found under node in entity markup. ids maps a record URI to a
// secondary authority identifier when enrichment was requested; absent
// entries fall back to the recognition URI. Returns how many records
// were actually embedded.
func (a *Annotator) Annotate(node *etree.Element, records []resource.Record, ids map[string]string) int {
	wrapped := 0
	for _, rec := range records {
		if rec.SurfaceForm == "" {
			continue
		}
		if a.wrap(node, rec, ids[rec.URI]) {
			wrapped++
		}
	}
	return wrapped
}

// wrap finds the first character-data token under el containing the
// surface form and splits it around a new entity element.
func (a *Annotator) wrap(el *etree.Element, rec resource.Record, authID string) bool {
	for i := 0; i < len(el.Child); i++ {
		switch t := el.Child[i].(type) {
		case *etree.CharData:
			idx := strings.Index(t.Data, rec.SurfaceForm)
			if idx < 0 {
				continue
			}
			pre := t.Data[:idx]
			post := t.Data[idx+len(rec.SurfaceForm):]

			var tokens []etree.Token
			if pre != "" {
				tokens = append(tokens, etree.NewText(pre))
			}
			if a.opts.TrackChanges {
				inst := fmt.Sprintf("author=%q timestamp=%q",
					a.opts.Author, a.opts.Now().Format(oxyTimestamp))
				tokens = append(tokens, etree.NewProcInst(piInsertStart, inst))
			}
			tokens = append(tokens, a.entityElement(rec, authID))
			if a.opts.TrackChanges {
				tokens = append(tokens, etree.NewProcInst(piInsertEnd, ""))
			}
			if post != "" {
				tokens = append(tokens, etree.NewText(post))
			}

			el.RemoveChildAt(i)
			for j, tok := range tokens {
				el.InsertChildAt(i+j, tok)
			}
			return true
		case *etree.Element:
			if isEntityTag(t.Tag) {
				continue
			}
			if a.wrap(t, rec, authID) {
				return true
			}
		}
	}
	return false
}

func (a *Annotator) entityElement(rec resource.Record, authID string) *etree.Element {
	tag := "name"
	if a.opts.Kind == extract.KindEAD {
		switch rec.Kind() {
		case resource.KindPerson:
			tag = "persname"
		case resource.KindPlace:
			tag = "geogname"
		case resource.KindOrganization:
			tag = "corpname"
		}
	}
	e := etree.NewElement(tag)
	e.SetText(rec.SurfaceForm)

	if a.opts.Kind == extract.KindEAD {
		source := "dbpedia"
		number := rec.URI
		if authID != "" {
			number = authID
			switch rec.Kind() {
			case resource.KindPerson:
				source = "viaf"
			case resource.KindPlace:
				source = "geonames"
			}
		}
		e.CreateAttr("source", source)
		e.CreateAttr("authfilenumber", number)
		return e
	}

	if k := rec.Kind(); k != "" {
		e.CreateAttr("type", k)
	}
	e.CreateAttr("ref", rec.URI)
	if authID != "" {
		e.CreateAttr("key", authID)
	}
	return e
}

func isEntityTag(tag string) bool {
	switch tag {
	case "persname", "geogname", "corpname", "name":
		return true
	}
	return false
}

// EnableTrackChanges flips the document-level marker that tells
// downstream editors to display tracked changes. Placed right after
// the XML declaration when one is present.
func EnableTrackChanges(doc *etree.Document) {
	idx := 0
	if len(doc.Child) > 0 {
		if pi, ok := doc.Child[0].(*etree.ProcInst); ok && pi.Target == "xml" {
			idx = 1
		}
	}
	doc.InsertChildAt(idx, etree.NewProcInst(piOptions, `track_changes="on"`))
}
