package authority

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVIAFLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/AutoSuggest" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "Jane Addams" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(`{"result": [{"term": "Addams, Jane, 1860-1935", "viafid": "54163402"}]}`))
	}))
	defer srv.Close()

	v := &VIAF{BaseURL: srv.URL}
	id, ok := v.Lookup(context.Background(), "Jane Addams")
	if !ok || id != "54163402" {
		t.Fatalf("got (%q, %v), want (54163402, true)", id, ok)
	}
}

func TestVIAFMissIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": null}`))
	}))
	defer srv.Close()

	v := &VIAF{BaseURL: srv.URL}
	if _, ok := v.Lookup(context.Background(), "Nobody In Particular"); ok {
		t.Fatal("expected a miss")
	}
}

func TestVIAFErrorIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "oops", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := &VIAF{BaseURL: srv.URL}
	if _, ok := v.Lookup(context.Background(), "Jane Addams"); ok {
		t.Fatal("server errors should read as a miss")
	}
}

func TestGeoNamesLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "Chicago" || q.Get("maxRows") != "1" || q.Get("username") != "demo" {
			t.Errorf("query = %v", q)
		}
		w.Write([]byte(`{"geonames": [{"geonameId": 4887398, "name": "Chicago"}]}`))
	}))
	defer srv.Close()

	g := &GeoNames{BaseURL: srv.URL, Username: "demo"}
	id, ok := g.Lookup(context.Background(), "Chicago")
	if !ok || id != "4887398" {
		t.Fatalf("got (%q, %v), want (4887398, true)", id, ok)
	}
}

func TestGeoNamesMissIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"geonames": []}`))
	}))
	defer srv.Close()

	g := &GeoNames{BaseURL: srv.URL, Username: "demo"}
	if _, ok := g.Lookup(context.Background(), "Atlantis"); ok {
		t.Fatal("expected a miss")
	}
}
