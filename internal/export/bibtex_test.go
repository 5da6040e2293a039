package export

import (
	"strings"
	"testing"

	"github.com/nickng/bibtex"

	"github.com/ascsn/pubsly/internal/reference"
)

func samplePublications() []reference.Publication {
	return []reference.Publication{
		{
			ID:    "10.1103/physrevc.108.014301",
			Kind:  reference.KindDOI,
			Title: "Nuclear <i>shapes</i> & deformation",
			Authors: []reference.Author{
				{Given: "Timothy", Family: "Yu", Name: "Timothy Yu"},
				{Name: "Jane Doe"},
			},
			Year:          2023,
			Source:        "Physical Review C",
			Abstract:      "Line one.\nLine two.",
			URL:           "https://doi.org/10.1103/physrevc.108.014301",
			Tags:          []string{"nuclear", "theory"},
			CitationCount: reference.IntPtr(12),
		},
		{
			ID:      "2101.00001",
			Kind:    reference.KindArXiv,
			Title:   "Emulators for scattering",
			Authors: []reference.Author{{Name: "Ada Lovelace"}},
			Year:    2021,
			Source:  "nucl-th",
			URL:     "https://arxiv.org/abs/2101.00001",
		},
		{
			ID:      "bibtex-0123456789abcdef",
			Kind:    reference.KindOther,
			Title:   "A workshop talk",
			Authors: nil,
			Source:  "Proceedings of the Workshop on Nuclei",
		},
	}
}

// entriesOnly drops the footer comment lines so the strict parser sees
// only entries.
func entriesOnly(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "%") {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func fieldValue(e *bibtex.BibEntry, name string) string {
	v, ok := e.Fields[name]
	if !ok || v == nil {
		return ""
	}
	return strings.Trim(v.String(), `{}"`)
}

func TestBibTeXParses(t *testing.T) {
	got := BibTeX(samplePublications(), Options{})

	bib, err := bibtex.Parse(strings.NewReader(entriesOnly(got)))
	if err != nil {
		t.Fatalf("bibtex.Parse() error = %v\n%s", err, got)
	}
	if len(bib.Entries) != 3 {
		t.Fatalf("parsed %d entries, want 3", len(bib.Entries))
	}

	wantKeys := []string{"Yu2023Nuclear", "Lovelace2021Emulators", "AnonNDworkshop"}
	wantTypes := []string{"article", "article", "inproceedings"}
	for i, e := range bib.Entries {
		if e.CiteName != wantKeys[i] {
			t.Errorf("entry %d key = %q, want %q", i, e.CiteName, wantKeys[i])
		}
		if e.Type != wantTypes[i] {
			t.Errorf("entry %d type = %q, want %q", i, e.Type, wantTypes[i])
		}
	}

	if got := fieldValue(bib.Entries[0], "doi"); got != "10.1103/physrevc.108.014301" {
		t.Errorf("doi = %q, want 10.1103/physrevc.108.014301", got)
	}
	if got := fieldValue(bib.Entries[0], "annote"); got != "Cited by (Semantic Scholar): 12" {
		t.Errorf("annote = %q", got)
	}
	if _, ok := bib.Entries[1].Fields["doi"]; ok {
		t.Error("arXiv entry should not carry a doi field")
	}
	if got := fieldValue(bib.Entries[1], "eprint"); got != "2101.00001" {
		t.Errorf("eprint = %q, want 2101.00001", got)
	}
}

func TestBibTeXEntryLayout(t *testing.T) {
	got := BibTeX(samplePublications()[:1], Options{})

	for _, want := range []string{
		"@article{Yu2023Nuclear,\n",
		"  title        = {Nuclear shapes \\& deformation},\n",
		"  author       = {Yu, Timothy and Jane Doe},\n",
		"  year         = {2023},\n",
		"  journal      = {Physical Review C},\n",
		"  abstract     = {Line one. Line two.},\n",
		"  keywords     = {nuclear, theory},\n",
		"  annote       = {Cited by (Semantic Scholar): 12}\n}\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BibTeX() missing %q, got:\n%s", want, got)
		}
	}

	order := []string{"title", "author", "year", "journal", "url", "doi", "abstract", "keywords", "annote"}
	last := -1
	for _, field := range order {
		i := strings.Index(got, "  "+field+" ")
		if i < last {
			t.Errorf("field %s out of order", field)
		}
		last = i
	}
}

func TestBibTeXFooter(t *testing.T) {
	got := BibTeX(samplePublications()[:1], Options{Tag: "nuclear"})

	wantTail := "}\n\n% Export filtered by tag: nuclear\n\n" +
		bibPresentationsNote + "\n" + bibCitationNote + "\n" + bibTagsNote + "\n"
	if !strings.HasSuffix(got, wantTail) {
		t.Errorf("BibTeX() tail mismatch, got:\n%s", got)
	}

	untagged := BibTeX(samplePublications()[:1], Options{})
	if strings.Contains(untagged, "Export filtered by tag") {
		t.Error("untagged export should not mention a tag filter")
	}
}

func TestCiteKey(t *testing.T) {
	tests := []struct {
		name string
		pub  reference.Publication
		want string
	}{
		{"no data", reference.Publication{}, "AnonNDPaper"},
		{"family field", reference.Publication{
			Authors: []reference.Author{{Given: "Ada", Family: "Lovelace"}},
			Year:    1843, Title: "Notes on the engine",
		}, "Lovelace1843Notes"},
		{"comma name", reference.Publication{
			Authors: []reference.Author{{Name: "O'Brien, Pat"}},
			Year:    2020, Title: "Ab initio methods",
		}, "OBrien2020initio"},
		{"display name", reference.Publication{
			Authors: []reference.Author{{Name: "Jane Doe"}},
			Title:   "A 3D map",
		}, "DoeNDA"},
		{"markup title", reference.Publication{
			Authors: []reference.Author{{Family: "Yu"}},
			Year:    2023, Title: "<i>Pairing</i> gaps",
		}, "Yu2023Pairing"},
		{"no letters in first word", reference.Publication{
			Authors: []reference.Author{{Family: "Yu"}},
			Title:   "(1+2) = 3",
		}, "YuND"},
		{"digits only", reference.Publication{
			Authors: []reference.Author{{Family: "Yu"}},
			Year:    2021, Title: "123 456",
		}, "Yu2021"},
		{"leading space", reference.Publication{
			Authors: []reference.Author{{Family: "Yu"}},
			Year:    2021, Title: " of it",
		}, "Yu2021Paper"},
		{"family without letters", reference.Publication{
			Authors: []reference.Author{{Family: "123"}},
			Title:   "Data",
		}, "AnonNDData"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CiteKey(tt.pub); got != tt.want {
				t.Errorf("CiteKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueKey(t *testing.T) {
	used := map[string]bool{}
	var got []string
	for range 4 {
		got = append(got, uniqueKey("Yu2023Nuclear", used))
	}
	want := []string{"Yu2023Nuclear", "Yu2023Nucleara", "Yu2023Nuclearb", "Yu2023Nuclearc"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniqueKey() #%d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLetterSuffix(t *testing.T) {
	tests := map[int]string{0: "a", 1: "b", 25: "z", 26: "aa", 27: "ab", 51: "az", 52: "ba"}
	for n, want := range tests {
		if got := letterSuffix(n); got != want {
			t.Errorf("letterSuffix(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestEntryType(t *testing.T) {
	tests := []struct {
		kind   reference.Kind
		source string
		want   string
	}{
		{reference.KindArXiv, "", "article"},
		{reference.KindDOI, "Journal of Physics G", "article"},
		{reference.KindDOI, "IEEE Transactions on Nuclear Science", "article"},
		{reference.KindDOI, "Physical Review Letters", "article"},
		{reference.KindDOI, "Proceedings of INPC", "inproceedings"},
		{reference.KindOther, "Nuclear Structure Symposium", "inproceedings"},
		{reference.KindOther, "ML Workshop", "inproceedings"},
		{reference.KindDOI, "Zenodo", "misc"},
		{reference.KindOther, "", "misc"},
	}

	for _, tt := range tests {
		pub := reference.Publication{Kind: tt.kind, Source: tt.source}
		if got := EntryType(pub); got != tt.want {
			t.Errorf("EntryType(%s, %q) = %q, want %q", tt.kind, tt.source, got, tt.want)
		}
	}
}

func TestFormatAuthors(t *testing.T) {
	authors := []reference.Author{
		{Given: "Timothy", Family: "Yu"},
		{Family: "Solo"},
		{Name: "Jane Doe"},
		{},
	}
	want := "Yu, Timothy and Anonymous and Jane Doe and Anonymous"
	if got := formatAuthors(authors); got != want {
		t.Errorf("formatAuthors() = %q, want %q", got, want)
	}
}

func TestEscapeLatex(t *testing.T) {
	got := escapeLatex("50% of {R&D} costs $5 #1 a_b ~x^2")
	want := `50\% of R\&D costs \$5 \#1 a\_b \textasciitilde{}x\textasciicircum{}2`
	if got != want {
		t.Errorf("escapeLatex() = %q, want %q", got, want)
	}
}
