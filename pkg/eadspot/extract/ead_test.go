package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

const nestedEAD = `<ead><archdesc level="collection">
<bioghist><head>Biographical Note</head>
<p>Jane Addams was born in Cedarville, Illinois.</p></bioghist>
<dsc>
 <c01 level="series"><did><unittitle>Series A</unittitle></did>
   <c02 level="subseries"><did><unittitle>Subseries A.1</unittitle></did>
     <c03 level="file"><did><unittitle>Correspondence, 1889</unittitle></did></c03>
   </c02>
   <c02 level="subseries"><did><unittitle>Subseries A.2</unittitle></did>
     <c03 level="file"><did><unittitle>Correspondence, 1890</unittitle></did></c03>
   </c02>
 </c01>
 <c01 level="series"><did><unittitle>Series B</unittitle></did>
   <c02 level="file"><did><unittitle>Photographs, 1900</unittitle></did></c02>
   <c02 level="file"><did><unittitle>Photographs, 1901</unittitle></did></c02>
 </c01>
 <c01 level="series"><did><unittitle>Series C</unittitle></did>
   <scopecontent><head>Scope and Contents</head>
   <p>Hull House correspondence and papers.</p></scopecontent>
 </c01>
</dsc>
</archdesc></ead>`

const flatEAD = `<ead><archdesc level="collection">
<bioghist><head>Note</head><p>Some life.</p></bioghist>
<dsc>
 <c01 level="series"><did><unittitle>Series A</unittitle></did>
   <c02 level="file"><did><unittitle>Item one</unittitle></did></c02>
   <c02 level="file"><did><unittitle>Item two</unittitle></did></c02>
 </c01>
 <c01 level="series"><did><unittitle>Series B</unittitle></did>
   <c02 level="file"><did><unittitle>Item three</unittitle></did></c02>
 </c01>
</dsc>
</archdesc></ead>`

func parseDoc(t *testing.T, src string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(src); err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return doc
}

func eadSections(t *testing.T, src string) []Section {
	t.Helper()
	ex, err := New(Options{Kind: KindEAD, Doc: parseDoc(t, src), Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	secs, err := ex.Sections()
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	return secs
}

func TestNestedTraversalOrder(t *testing.T) {
	secs := eadSections(t, nestedEAD)

	want := []string{
		"Biographical Note",
		"Subseries A.1: item descriptions",
		"Subseries A.2: item descriptions",
		"Series B: item descriptions",
		"Series C : Scope and Contents",
	}
	if len(secs) != len(want) {
		t.Fatalf("got %d sections, want %d", len(secs), len(want))
	}
	for i, sec := range secs {
		if sec.Label != want[i] {
			t.Errorf("section %d label = %q, want %q", i, sec.Label, want[i])
		}
	}
}

func TestNestedTraversalNodes(t *testing.T) {
	secs := eadSections(t, nestedEAD)

	// Series B item list covers both photograph items, in order.
	var b *Section
	for i := range secs {
		if strings.HasPrefix(secs[i].Label, "Series B") {
			b = &secs[i]
		}
	}
	if b == nil {
		t.Fatal("no Series B section")
	}
	if len(b.Nodes) != 2 {
		t.Fatalf("Series B has %d nodes, want 2", len(b.Nodes))
	}
	if got := Flatten(b.Nodes[0]); got != "Photographs, 1900" {
		t.Errorf("first item = %q", got)
	}
	if got := Flatten(b.Nodes[1]); got != "Photographs, 1901" {
		t.Errorf("second item = %q", got)
	}
}

func TestFlatContainerList(t *testing.T) {
	secs := eadSections(t, flatEAD)

	if len(secs) != 2 {
		t.Fatalf("got %d sections, want 2 (biography + container list)", len(secs))
	}
	cl := secs[1]
	if cl.Label != "Container List" {
		t.Errorf("label = %q, want Container List", cl.Label)
	}
	if len(cl.Nodes) != 3 {
		t.Errorf("container list has %d items, want 3", len(cl.Nodes))
	}
}

func TestMissingBioghist(t *testing.T) {
	src := strings.Replace(flatEAD,
		`<bioghist><head>Note</head><p>Some life.</p></bioghist>`, "", 1)
	secs := eadSections(t, src)
	if len(secs) != 1 || secs[0].Label != "Container List" {
		t.Fatalf("expected only the container list, got %d sections", len(secs))
	}
}

func TestEmptySeriesYieldsNothing(t *testing.T) {
	src := `<ead><archdesc>
<bioghist><p>Life.</p></bioghist>
<dsc>
 <c01 level="series"><did><unittitle>Series A</unittitle></did>
   <c02 level="subseries"><did><unittitle>Empty subseries</unittitle></did></c02>
 </c01>
</dsc></archdesc></ead>`
	secs := eadSections(t, src)
	// The empty subseries has no scope note and no children: silence.
	if len(secs) != 1 {
		t.Fatalf("got %d sections, want just the biography", len(secs))
	}
}

func TestSeriesScopeThenSubseries(t *testing.T) {
	src := `<ead><archdesc>
<dsc>
 <c01 level="series"><did><unittitle>Series A</unittitle></did>
   <scopecontent><head>Contents</head><p>About A.</p></scopecontent>
   <c02 level="subseries"><did><unittitle>Sub A.1</unittitle></did>
     <c03 level="file"><did><unittitle>Item</unittitle></did></c03>
   </c02>
 </c01>
</dsc></archdesc></ead>`
	secs := eadSections(t, src)
	want := []string{"Series A : Contents", "Sub A.1: item descriptions"}
	if len(secs) != len(want) {
		t.Fatalf("got %d sections, want %d", len(secs), len(want))
	}
	for i := range want {
		if secs[i].Label != want[i] {
			t.Errorf("section %d = %q, want %q", i, secs[i].Label, want[i])
		}
	}
}

func TestNoArchdescIsError(t *testing.T) {
	ex, err := New(Options{Kind: KindEAD, Doc: parseDoc(t, `<ead/>`), Log: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := ex.Sections(); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestIsComponentTag(t *testing.T) {
	for _, tag := range []string{"c", "c01", "c12"} {
		if !isComponentTag(tag) {
			t.Errorf("%q should be a component tag", tag)
		}
	}
	for _, tag := range []string{"did", "cXX", "c1", "controlaccess"} {
		if isComponentTag(tag) {
			t.Errorf("%q should not be a component tag", tag)
		}
	}
}
