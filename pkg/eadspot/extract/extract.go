// Package extract walks a parsed document and yields labeled Sections
// in document reading order. Two hierarchical strategies (archival EAD
// and user-supplied path selection) plus a trivial free-text one are
// selected by an explicit kind tag at construction time.
package extract

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

// Kind selects a traversal strategy.
type Kind string

const (
	KindText Kind = "text"
	KindEAD  Kind = "ead"
	KindPath Kind = "path"
)

// Section is one logical labeled unit of a document: a biography
// statement, a series, a subseries, an item list, a path-matched block.
// Nodes are the real elements of the source tree, not copies, because
// annotation writeback mutates them in place.
type Section struct {
	Label string
	Nodes []*etree.Element
}

// Extractor produces the document's sections, each node visited once.
type Extractor interface {
	Sections() ([]Section, error)
}

// Options configures an extractor.
type Options struct {
	Kind Kind
	Doc  *etree.Document

	// Path is the match expression, KindPath only.
	Path string

	// Label names the single section, KindText only.
	Label string

	Log zerolog.Logger
}

// New builds the extractor for the given document kind.
func New(opts Options) (Extractor, error) {
	switch opts.Kind {
	case KindEAD:
		return &eadExtractor{doc: opts.Doc, log: opts.Log}, nil
	case KindPath:
		return newPathExtractor(opts.Doc, opts.Path)
	case KindText:
		return &textExtractor{doc: opts.Doc, label: opts.Label}, nil
	}
	return nil, fmt.Errorf("%w: unknown document kind %q", internalerr.ErrInvalidConfig, opts.Kind)
}
