package fetch

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ascsn/pubsly/internal/arxiv"
	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/upstream"
)

type stubWorks struct {
	pubs  map[string]reference.Publication
	err   error
	calls []string
}

func (s *stubWorks) Work(_ context.Context, doi string) (reference.Publication, error) {
	s.calls = append(s.calls, doi)
	if s.err != nil {
		return reference.Publication{}, s.err
	}
	pub, ok := s.pubs[doi]
	if !ok {
		return reference.Publication{}, upstream.NotFound("crossref", doi)
	}
	return pub, nil
}

type stubEntries struct {
	entries map[string]arxiv.Entry
}

func (s *stubEntries) Entry(_ context.Context, id string) (arxiv.Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return arxiv.Entry{}, upstream.NotFound("arxiv", id)
	}
	return e, nil
}

type stubCitations struct {
	counts map[string]int
	calls  []string
}

func (s *stubCitations) CitationCount(_ context.Context, id string, kind reference.Kind) *int {
	s.calls = append(s.calls, string(kind)+":"+id)
	if n, ok := s.counts[id]; ok {
		return &n
	}
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestResolver(w *stubWorks, e *stubEntries, c *stubCitations) *Resolver {
	return NewResolver(w, e, c,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(log.New(io.Discard)))
}

func TestResolveDOI(t *testing.T) {
	works := &stubWorks{pubs: map[string]reference.Publication{
		"10.1000/xyz": {ID: "10.1000/xyz", Kind: reference.KindDOI, Title: "Paper"},
	}}
	cites := &stubCitations{counts: map[string]int{"10.1000/xyz": 7}}
	r := newTestResolver(works, &stubEntries{}, cites)

	res := r.Resolve(context.Background(), "see https://doi.org/10.1000/xyz")
	if res.Status != Found {
		t.Fatalf("Status = %v, want found (err %v)", res.Status, res.Err)
	}
	if res.Publication.CitationCount == nil || *res.Publication.CitationCount != 7 {
		t.Errorf("CitationCount = %v, want 7", res.Publication.CitationCount)
	}
	if res.Publication.Timestamp != fixedNow.UnixMilli() {
		t.Errorf("Timestamp = %d, want %d", res.Publication.Timestamp, fixedNow.UnixMilli())
	}
}

func TestResolveDOICitationsUseRegistryID(t *testing.T) {
	// Crossref echoes the DOI in its own casing.
	works := &stubWorks{pubs: map[string]reference.Publication{
		"10.1103/physrevc.1": {ID: "10.1103/PhysRevC.1", Kind: reference.KindDOI, Title: "Paper"},
	}}
	cites := &stubCitations{counts: map[string]int{"10.1103/PhysRevC.1": 4}}
	r := newTestResolver(works, &stubEntries{}, cites)

	res := r.Resolve(context.Background(), "10.1103/PhysRevC.1")
	if !res.OK() {
		t.Fatalf("Status = %v, want found (err %v)", res.Status, res.Err)
	}
	if len(cites.calls) != 1 || cites.calls[0] != "DOI:10.1103/PhysRevC.1" {
		t.Errorf("citation calls = %v, want [DOI:10.1103/PhysRevC.1]", cites.calls)
	}
	if res.Publication.CitationCount == nil || *res.Publication.CitationCount != 4 {
		t.Errorf("CitationCount = %v, want 4", res.Publication.CitationCount)
	}
}

func TestResolveArXivLinkedDOI(t *testing.T) {
	works := &stubWorks{pubs: map[string]reference.Publication{
		"10.1103/prc.1": {ID: "10.1103/prc.1", Kind: reference.KindDOI, Title: "Published"},
	}}
	entries := &stubEntries{entries: map[string]arxiv.Entry{
		"2101.00001": {ID: "http://arxiv.org/abs/2101.00001v1", Title: "Preprint", DOI: "10.1103/prc.1"},
	}}
	cites := &stubCitations{}
	r := newTestResolver(works, entries, cites)

	res := r.Resolve(context.Background(), "https://arxiv.org/abs/2101.00001v1")
	if !res.OK() {
		t.Fatalf("Status = %v, want found", res.Status)
	}
	if res.Publication.Kind != reference.KindDOI || res.Publication.Title != "Published" {
		t.Errorf("Publication = %+v, want the DOI record", res.Publication)
	}
	if len(cites.calls) != 1 || cites.calls[0] != "DOI:10.1103/prc.1" {
		t.Errorf("citation calls = %v", cites.calls)
	}
}

func TestResolveArXivFallback(t *testing.T) {
	works := &stubWorks{err: &upstream.APIError{Service: "crossref", StatusCode: 500}}
	entries := &stubEntries{entries: map[string]arxiv.Entry{
		"2101.00001": {ID: "http://arxiv.org/abs/2101.00001v1", Title: "Preprint", DOI: "10.1103/prc.1"},
	}}
	cites := &stubCitations{counts: map[string]int{"2101.00001": 3}}
	r := newTestResolver(works, entries, cites)

	res := r.Resolve(context.Background(), "2101.00001")
	if !res.OK() {
		t.Fatalf("Status = %v, want found", res.Status)
	}
	pub := res.Publication
	if pub.Kind != reference.KindArXiv || pub.ID != "2101.00001" || pub.Title != "Preprint" {
		t.Errorf("Publication = %+v, want the arXiv record", pub)
	}
	if pub.CitationCount == nil || *pub.CitationCount != 3 {
		t.Errorf("CitationCount = %v, want 3", pub.CitationCount)
	}
	if len(works.calls) != 1 {
		t.Errorf("DOI calls = %v, want one linked lookup", works.calls)
	}
}

func TestResolveNotFoundAndFailed(t *testing.T) {
	tests := []struct {
		name  string
		works *stubWorks
		input string
		want  Status
	}{
		{"unknown doi", &stubWorks{}, "10.1000/missing", NotFound},
		{"unknown arxiv", &stubWorks{}, "2101.99999", NotFound},
		{"unrecognized", &stubWorks{}, "not an identifier", NotFound},
		{"registry down", &stubWorks{err: &upstream.APIError{Service: "crossref", Message: "request timed out"}}, "10.1000/xyz", Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(tt.works, &stubEntries{}, &stubCitations{})
			res := r.Resolve(context.Background(), tt.input)
			if res.Status != tt.want {
				t.Errorf("Status = %v, want %v", res.Status, tt.want)
			}
			if res.Err == nil {
				t.Error("Err = nil, want a reason")
			}
		})
	}
}

func TestResolveUnrecognizedError(t *testing.T) {
	r := newTestResolver(&stubWorks{}, &stubEntries{}, &stubCitations{})
	res := r.Resolve(context.Background(), "hello")
	if !errors.Is(res.Err, ErrUnrecognized) {
		t.Errorf("Err = %v, want ErrUnrecognized", res.Err)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{Found: "found", NotFound: "not_found", Failed: "failed"} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
