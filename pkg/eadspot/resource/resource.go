// Package resource defines the record shape for one recognized entity
// occurrence, as returned by the annotation service.
package resource

import "strings"

// Entity kinds derived from the service's ontology types.
const (
	KindPerson       = "person"
	KindPlace        = "place"
	KindOrganization = "organization"
)

// Record is a single recognized entity occurrence inside one text blob.
// A blob can yield many records, including repeats of the same
// (surface form, URI) pair at different offsets.
type Record struct {
	SurfaceForm     string
	URI             string
	SimilarityScore float64
	Support         int
	Offset          int
	Types           string
}

// Kind classifies the record as person, place, or organization from its
// ontology type metadata. Returns "" when none of the three apply.
// Classification never falls back to guessing from the surface text.
func (r Record) Kind() string {
	for _, t := range strings.Split(r.Types, ",") {
		switch strings.TrimSpace(t) {
		case "DBpedia:Person":
			return KindPerson
		case "DBpedia:Place":
			return KindPlace
		case "DBpedia:Organisation", "DBpedia:Organization":
			return KindOrganization
		}
	}
	return ""
}

// NamePair identifies an entity independent of where it occurred.
type NamePair struct {
	Surface string
	URI     string
}

// Pair returns the record's (surface form, URI) identity.
func (r Record) Pair() NamePair {
	return NamePair{Surface: r.SurfaceForm, URI: r.URI}
}

// Less orders pairs ascending by (surface, URI), the stable order used
// for unique-mode output.
func (p NamePair) Less(q NamePair) bool {
	if p.Surface != q.Surface {
		return p.Surface < q.Surface
	}
	return p.URI < q.URI
}
