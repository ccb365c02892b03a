package spotlight

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
)

const sampleResponse = `{
  "@text": "Jane Addams lived in Chicago.",
  "Resources": [
    {
      "@URI": "http://dbpedia.org/resource/Jane_Addams",
      "@support": "512",
      "@types": "DBpedia:Person,Schema:Person",
      "@surfaceForm": "Jane Addams",
      "@offset": "0",
      "@similarityScore": "0.9987"
    },
    {
      "@URI": "http://dbpedia.org/resource/Chicago",
      "@support": "9001",
      "@types": "DBpedia:Place",
      "@surfaceForm": "Chicago",
      "@offset": "21",
      "@similarityScore": "0.95"
    }
  ]
}`

func TestAnnotate(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/annotate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"text":       r.PostFormValue("text"),
			"confidence": r.PostFormValue("confidence"),
			"support":    r.PostFormValue("support"),
			"types":      r.PostFormValue("types"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Confidence: 0.5, Support: 20, Types: "DBpedia:Person"}
	text, records, err := c.Annotate(context.Background(), "Jane Addams lived in Chicago.")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if text != "Jane Addams lived in Chicago." {
		t.Errorf("echoed text = %q", text)
	}
	if gotForm["confidence"] != "0.5" || gotForm["support"] != "20" || gotForm["types"] != "DBpedia:Person" {
		t.Errorf("form = %+v", gotForm)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	r0 := records[0]
	if r0.SurfaceForm != "Jane Addams" || r0.Offset != 0 || r0.Support != 512 {
		t.Errorf("record 0 = %+v", r0)
	}
	if r0.SimilarityScore != 0.9987 {
		t.Errorf("similarity = %v", r0.SimilarityScore)
	}
	if r0.Kind() != "person" {
		t.Errorf("kind = %q", r0.Kind())
	}
	if records[1].Kind() != "place" {
		t.Errorf("kind = %q", records[1].Kind())
	}
}

func TestAnnotateHTTPErrorIsServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, _, err := c.Annotate(context.Background(), "text")
	if !errors.Is(err, internalerr.ErrServiceFailure) {
		t.Fatalf("err = %v, want ErrServiceFailure", err)
	}
}

func TestAnnotateTransportErrorIsServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := &Client{BaseURL: srv.URL}
	_, _, err := c.Annotate(context.Background(), "text")
	if !errors.Is(err, internalerr.ErrServiceFailure) {
		t.Fatalf("err = %v, want ErrServiceFailure", err)
	}
}

func TestCallBookkeeping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"@text": "x", "Resources": []}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	for i := 0; i < 3; i++ {
		if _, _, err := c.Annotate(context.Background(), "x"); err != nil {
			t.Fatalf("Annotate: %v", err)
		}
	}
	calls, elapsed := c.Calls()
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if elapsed <= 0 {
		t.Errorf("elapsed = %v, want > 0", elapsed)
	}
}
