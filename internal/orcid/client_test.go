package orcid

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

const testORCID = "0000-0002-1825-009X"

const sampleWorks = `{
  "group": [
    {
      "work-summary": [{
        "put-code": 101,
        "title": {"title": {"value": "A <b>DOI</b> paper"}},
        "publication-date": {"year": {"value": "2020"}},
        "external-ids": {"external-id": [
          {"external-id-type": "isbn", "external-id-value": "123"},
          {"external-id-type": "doi", "external-id-value": "10.1000/ABC"}
        ]},
        "journal-title": {"value": "Journal of Tests"},
        "type": "journal-article"
      }],
      "contributors": {"contributor": [
        {"credit-name": {"value": "Ada Lovelace"}},
        {"credit-name": null}
      ]}
    },
    {
      "work-summary": [{
        "put-code": 202,
        "title": {"title": {"value": "Preprint"}},
        "external-ids": {"external-id": [
          {"external-id-type": "arxiv", "external-id-value": "arXiv:2101.00001"}
        ]},
        "type": "preprint"
      }]
    },
    {
      "work-summary": [{
        "put-code": 303,
        "title": null,
        "url": {"value": "https://example.org/talk"},
        "type": "lecture-speech"
      }]
    },
    {"work-summary": []}
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL+"/v3.0/"), WithLogger(log.New(io.Discard)))
}

func TestWorks(t *testing.T) {
	var gotPath, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		io.WriteString(w, sampleWorks)
	})

	works, err := c.Works(context.Background(), testORCID)
	if err != nil {
		t.Fatalf("Works() error = %v", err)
	}
	if gotPath != "/v3.0/"+testORCID+"/works" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q", gotAccept)
	}
	if len(works) != 3 {
		t.Fatalf("len(works) = %d, want 3", len(works))
	}

	doi := works[0]
	if doi.ID != "10.1000/abc" || doi.Kind != reference.KindDOI {
		t.Errorf("works[0] id/kind = %q/%q", doi.ID, doi.Kind)
	}
	if doi.Title != "A DOI paper" {
		t.Errorf("works[0].Title = %q", doi.Title)
	}
	if doi.Year != 2020 {
		t.Errorf("works[0].Year = %d", doi.Year)
	}
	if doi.URL != "https://doi.org/10.1000/ABC" {
		t.Errorf("works[0].URL = %q", doi.URL)
	}
	if doi.Source != "Journal of Tests" {
		t.Errorf("works[0].Source = %q", doi.Source)
	}
	if len(doi.Authors) != 2 || doi.Authors[0].Name != "Ada Lovelace" || doi.Authors[1].Name != UnknownAuthor {
		t.Errorf("works[0].Authors = %+v", doi.Authors)
	}

	arx := works[1]
	if arx.ID != "2101.00001" || arx.Kind != reference.KindArXiv {
		t.Errorf("works[1] id/kind = %q/%q", arx.ID, arx.Kind)
	}
	if arx.URL != "https://arxiv.org/abs/2101.00001" {
		t.Errorf("works[1].URL = %q", arx.URL)
	}
	if arx.Source != "preprint" {
		t.Errorf("works[1].Source = %q", arx.Source)
	}
	if arx.Authors != nil {
		t.Errorf("works[1].Authors = %+v, want nil", arx.Authors)
	}

	other := works[2]
	if want := "orcid-0000-0002-1825-009x-303"; other.ID != want {
		t.Errorf("works[2].ID = %q, want %q", other.ID, want)
	}
	if other.Kind != reference.KindOther {
		t.Errorf("works[2].Kind = %q", other.Kind)
	}
	if other.Title != DefaultTitle {
		t.Errorf("works[2].Title = %q", other.Title)
	}
	if other.URL != "https://example.org/talk" {
		t.Errorf("works[2].URL = %q", other.URL)
	}
}

func TestWorksMissingPutCode(t *testing.T) {
	doc := `{"group": [{"work-summary": [{"title": {"title": {"value": "X"}}}]}]}`
	a := ParseWorks([]byte(doc), testORCID)
	b := ParseWorks([]byte(doc), testORCID)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("ParseWorks() lengths = %d, %d", len(a), len(b))
	}
	prefix := "orcid-0000-0002-1825-009x-"
	if !strings.HasPrefix(a[0].ID, prefix) || len(a[0].ID) == len(prefix) {
		t.Errorf("ID = %q, want %s<random>", a[0].ID, prefix)
	}
	if a[0].ID == b[0].ID {
		t.Errorf("random discriminators collided: %q", a[0].ID)
	}
}

func TestWorksInvalidID(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	for _, id := range []string{"", "1234", "0000-0002-1825-00XX", "abcd-efgh-ijkl-mnop"} {
		t.Run(id, func(t *testing.T) {
			_, err := c.Works(context.Background(), id)
			if !errors.Is(err, identifier.ErrInvalidORCID) {
				t.Errorf("Works(%q) error = %v, want ErrInvalidORCID", id, err)
			}
		})
	}
	if called {
		t.Error("server was called for an invalid id")
	}
}

func TestWorksAcceptsProfileURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"group": []}`)
	})

	works, err := c.Works(context.Background(), "https://orcid.org/"+testORCID)
	if err != nil {
		t.Fatalf("Works() error = %v", err)
	}
	if len(works) != 0 {
		t.Errorf("len(works) = %d, want 0", len(works))
	}
}

func TestWorksUpstreamFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, "not found"},
		{"server error", http.StatusInternalServerError, "boom"},
		{"malformed", http.StatusOK, "{not json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.Works(context.Background(), testORCID)
			if err == nil {
				t.Fatal("Works() error = nil, want failure")
			}
			if tt.status == http.StatusNotFound && !errors.Is(err, upstream.ErrNotFound) {
				t.Errorf("Works() error = %v, want ErrNotFound", err)
			}
		})
	}
}
