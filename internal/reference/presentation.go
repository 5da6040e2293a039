package reference

// Presentation represents a talk, poster, or seminar. Nothing is fetched
// externally for presentations; ids are compared as exact strings.
type Presentation struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Speaker   string `json:"speaker"`
	Date      string `json:"date"` // Calendar date, e.g. 2024-05-17
	Location  string `json:"location"`
	Link      string `json:"link,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	FileType  string `json:"fileType,omitempty"`
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// Snapshot is the entire persisted unit: every publication, every
// presentation, and the speaker name used to prefill the next presentation.
type Snapshot struct {
	Publications    []Publication  `json:"publications"`
	Presentations   []Presentation `json:"presentations"`
	LastSpeakerName string         `json:"lastSpeakerName"`
}

// Clone returns a deep copy of s. Nil slices become empty so that the JSON
// form always carries both arrays.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Publications:    make([]Publication, len(s.Publications)),
		Presentations:   make([]Presentation, len(s.Presentations)),
		LastSpeakerName: s.LastSpeakerName,
	}
	for i, p := range s.Publications {
		out.Publications[i] = p.Clone()
	}
	copy(out.Presentations, s.Presentations)
	return out
}
