package main

import (
	"testing"

	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/reference"
)

func TestManualPrefill(t *testing.T) {
	tests := []struct {
		input    string
		wantID   string
		wantType reference.Kind
		wantNil  bool
	}{
		{input: "10.1000/xyz123", wantID: "10.1000/xyz123", wantType: reference.KindDOI},
		{input: "https://arxiv.org/abs/2101.00001v3", wantID: "2101.00001", wantType: reference.KindArXiv},
		{input: "not an identifier", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := manualPrefill(identifier.Parse(tt.input))
			if tt.wantNil {
				if got != nil {
					t.Errorf("manualPrefill() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("manualPrefill() = nil")
			}
			if got.ID != tt.wantID || got.Type != tt.wantType {
				t.Errorf("manualPrefill() = %+v, want {%s %s}", got, tt.wantID, tt.wantType)
			}
		})
	}
}

func TestManualPartial(t *testing.T) {
	addTitle, addAuthors, addYear = "Dataset", "Yu, Timothy and Ada Lovelace", 2024
	t.Cleanup(func() { addTitle, addAuthors, addYear = "", "", 0 })

	p := manualPartial(identifier.Parse("10.5281/zenodo.123"), []string{"data"})
	if p.ID != "10.5281/zenodo.123" || p.Kind != reference.KindDOI {
		t.Errorf("manualPartial() id = %q kind = %q, want the DOI", p.ID, p.Kind)
	}
	if len(p.Authors) != 2 || p.Authors[0].Family != "Yu" {
		t.Errorf("manualPartial() authors = %+v", p.Authors)
	}

	p = manualPartial(identifier.Identifier{}, nil)
	if p.ID != "" || p.Kind != "" {
		t.Errorf("manualPartial(unrecognized) id = %q kind = %q, want empty", p.ID, p.Kind)
	}
}
