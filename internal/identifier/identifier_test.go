package identifier

import (
	"errors"
	"testing"

	"github.com/ascsn/pubsly/internal/reference"
)

func TestParse_DOI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare", "10.1038/nature12373", "10.1038/nature12373"},
		{"resolver url", "https://doi.org/10.1103/PhysRevLett.116.061102", "10.1103/PhysRevLett.116.061102"},
		{"embedded in text", "see doi:10.1000/xyz123 for details", "10.1000/xyz123"},
		{"trailing period", "Published as 10.1000/xyz123.", "10.1000/xyz123"},
		{"nine digit registrant", "10.123456789/abc", "10.123456789/abc"},
		{"parentheses in suffix", "10.1016/S0140-6736(20)30183-5", "10.1016/S0140-6736(20)30183-5"},
		{"uppercase", "10.1000/ABC-DEF", "10.1000/ABC-DEF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Kind != DOI {
				t.Fatalf("Parse(%q).Kind = %q, want DOI", tt.input, got.Kind)
			}
			if got.Value != tt.want {
				t.Errorf("Parse(%q).Value = %q, want %q", tt.input, got.Value, tt.want)
			}
		})
	}
}

func TestParse_ArXiv(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"new style", "2106.15928", "2106.15928"},
		{"four digit number", "0704.0001", "0704.0001"},
		{"versioned", "2106.15928v3", "2106.15928"},
		{"surrounding space", "  1706.03762v7 ", "1706.03762"},
		{"old style", "hep-th/9901001", "hep-th/9901001"},
		{"old style with subject class", "math.GT/0309136v2", "math.GT/0309136"},
		{"abs url", "https://arxiv.org/abs/1706.03762v5", "1706.03762"},
		{"pdf url", "https://arxiv.org/pdf/1706.03762v5.pdf", "1706.03762"},
		{"pdf url no version", "arxiv.org/pdf/2301.00001.pdf", "2301.00001"},
		{"url with fragment", "https://arxiv.org/abs/2301.00001#comments", "2301.00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Kind != ArXiv {
				t.Fatalf("Parse(%q).Kind = %q, want arXiv", tt.input, got.Kind)
			}
			if got.Value != tt.want {
				t.Errorf("Parse(%q).Value = %q, want %q", tt.input, got.Value, tt.want)
			}
		})
	}
}

func TestParse_Unrecognized(t *testing.T) {
	tests := []string{
		"",
		"not an identifier",
		"paper 2106.15928 on graphs", // id is only a substring
		"arXiv:2106.15928",
		"2106.15928-extra",
		"10.12/too-short-registrant",
		"https://example.com/abs/2106.15928",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got := Parse(input)
			if got.Recognized() {
				t.Errorf("Parse(%q) = %v, want unrecognized", input, got)
			}
		})
	}
}

func TestParse_DOITakesPrecedence(t *testing.T) {
	got := Parse("https://arxiv.org/abs/2106.15928 published as 10.1000/xyz123")
	if got.Kind != DOI || got.Value != "10.1000/xyz123" {
		t.Errorf("Parse() = %v, want DOI:10.1000/xyz123", got)
	}
}

func TestIdentifier_PublicationKind(t *testing.T) {
	tests := []struct {
		id   Identifier
		want reference.Kind
	}{
		{Identifier{Kind: DOI, Value: "10.1000/x"}, reference.KindDOI},
		{Identifier{Kind: ArXiv, Value: "2106.15928"}, reference.KindArXiv},
		{Identifier{}, reference.KindOther},
	}
	for _, tt := range tests {
		if got := tt.id.PublicationKind(); got != tt.want {
			t.Errorf("%v.PublicationKind() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestValidateORCID(t *testing.T) {
	valid := []string{"0000-0002-1825-0097", "0000-0001-5109-370X", "0000-0001-5109-370x"}
	for _, id := range valid {
		if err := ValidateORCID(id); err != nil {
			t.Errorf("ValidateORCID(%q) error = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "0000-0002-1825", "0000-0002-1825-00977", "https://orcid.org/0000-0002-1825-0097", "abcd-0002-1825-0097"}
	for _, id := range invalid {
		err := ValidateORCID(id)
		if !errors.Is(err, ErrInvalidORCID) {
			t.Errorf("ValidateORCID(%q) error = %v, want ErrInvalidORCID", id, err)
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/Nature12373", "10.1038/nature12373"},
		{"https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"doi:10.1038/nature12373", "10.1038/nature12373"},
		{"  DOI:10.1038/NATURE12373 ", "10.1038/nature12373"},
	}
	for _, tt := range tests {
		if got := NormalizeDOI(tt.input); got != tt.want {
			t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
