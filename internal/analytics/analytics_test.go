package analytics

import (
	"testing"

	"github.com/ascsn/pubsly/internal/reference"
)

func testSnapshot() reference.Snapshot {
	return reference.Snapshot{
		Publications: []reference.Publication{
			{
				ID: "a", Title: "Alpha", Year: 2022, CitationCount: reference.IntPtr(10),
				Authors: []reference.Author{{Name: "Timothy Yu"}, {Given: "Jane", Family: "Doe"}},
				Tags:    []string{"theory", "nuclear"},
			},
			{
				ID: "b", Title: "Beta", Year: 2022, CitationCount: reference.IntPtr(4),
				Authors: []reference.Author{{Name: "Jane Doe"}},
				Tags:    []string{"nuclear"},
			},
			{
				ID: "c", Title: "Gamma", Year: 2020,
				Authors: []reference.Author{{}},
				Tags:    []string{"ml", "theory", "nuclear"},
			},
			{
				ID: "d", Title: "Delta", CitationCount: reference.IntPtr(10),
				Tags: []string{"ml", "hpc"},
			},
		},
		Presentations: []reference.Presentation{{ID: "p1"}, {ID: "p2"}},
	}
}

func TestCompute(t *testing.T) {
	s := Compute(testSnapshot(), "")

	if s.TotalPublications != 4 || s.TotalPresentations != 2 {
		t.Errorf("totals = %d pubs, %d pres; want 4, 2", s.TotalPublications, s.TotalPresentations)
	}
	if s.WithCitationData != 3 || s.TotalCitations != 24 {
		t.Errorf("citations = %d with data, %d total; want 3, 24", s.WithCitationData, s.TotalCitations)
	}
	if got := s.AverageString(); got != "8.00" {
		t.Errorf("AverageString() = %q, want 8.00", got)
	}
	if s.MostCited == nil || s.MostCited.ID != "a" {
		t.Errorf("MostCited = %+v, want a (first at the maximum)", s.MostCited)
	}
	if s.UniqueAuthors != 2 {
		t.Errorf("UniqueAuthors = %d, want 2", s.UniqueAuthors)
	}
	if got := s.TopTagsString(); got != "nuclear (3), theory (2), ml (2)" {
		t.Errorf("TopTagsString() = %q", got)
	}

	wantPerYear := []YearValue{{2020, 1}, {2022, 2}}
	if len(s.PublicationsPerYear) != len(wantPerYear) {
		t.Fatalf("PublicationsPerYear = %v, want %v", s.PublicationsPerYear, wantPerYear)
	}
	for i := range wantPerYear {
		if s.PublicationsPerYear[i] != wantPerYear[i] {
			t.Errorf("PublicationsPerYear = %v, want %v", s.PublicationsPerYear, wantPerYear)
		}
	}
	if len(s.CitationsPerYear) != 1 || s.CitationsPerYear[0] != (YearValue{2022, 14}) {
		t.Errorf("CitationsPerYear = %v, want [{2022 14}]", s.CitationsPerYear)
	}

	wantTags := []string{"hpc", "ml", "nuclear", "theory"}
	for i := range wantTags {
		if s.AvailableTags[i] != wantTags[i] {
			t.Errorf("AvailableTags = %v, want %v", s.AvailableTags, wantTags)
			break
		}
	}
}

func TestComputeTagFilter(t *testing.T) {
	s := Compute(testSnapshot(), "ML")

	if s.TotalPublications != 2 {
		t.Errorf("TotalPublications = %d, want 2", s.TotalPublications)
	}
	if s.TotalPresentations != 2 {
		t.Errorf("TotalPresentations = %d, want 2 (never filtered)", s.TotalPresentations)
	}
	if s.MostCited == nil || s.MostCited.ID != "d" {
		t.Errorf("MostCited = %+v, want d", s.MostCited)
	}
	if len(s.AvailableTags) != 4 {
		t.Errorf("AvailableTags should cover the whole collection, got %v", s.AvailableTags)
	}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(reference.Snapshot{}, "")

	if s.AverageCitations != nil || s.AverageString() != "N/A" {
		t.Errorf("AverageString() = %q, want N/A", s.AverageString())
	}
	if s.TopTagsString() != "N/A" {
		t.Errorf("TopTagsString() = %q, want N/A", s.TopTagsString())
	}
	if s.MostCited != nil {
		t.Errorf("MostCited = %+v, want nil", s.MostCited)
	}
	if s.PublicationsPerYear == nil || s.AvailableTags == nil || s.TopTags == nil {
		t.Error("slices should be empty, not nil, so JSON shows []")
	}
}
