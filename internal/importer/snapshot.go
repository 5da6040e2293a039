package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/ascsn/pubsly/internal/reference"
)

// ErrInvalidSnapshot is returned for import files that are not a complete
// collection export.
var ErrInvalidSnapshot = errors.New("invalid import file: expected publications, presentations and lastSpeakerName")

// FlexibleInt unmarshals from a JSON number, a numeric string, or null.
// Hand-edited exports sometimes quote years.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		i, err := strconv.Atoi(n.String())
		if err != nil {
			return fmt.Errorf("cannot unmarshal %s into FlexibleInt", string(data))
		}
		*f = FlexibleInt(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("cannot unmarshal %q into FlexibleInt", s)
		}
		*f = FlexibleInt(i)
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleInt", string(data))
}

// snapshotFile mirrors reference.Snapshot with presence tracking for the
// required top-level fields.
type snapshotFile struct {
	Publications    *[]publicationRecord      `json:"publications"`
	Presentations   *[]reference.Presentation `json:"presentations"`
	LastSpeakerName *string                   `json:"lastSpeakerName"`
}

type publicationRecord struct {
	ID            string             `json:"id"`
	Kind          reference.Kind     `json:"type"`
	Title         string             `json:"title"`
	Authors       []reference.Author `json:"authors"`
	Year          FlexibleInt        `json:"year"`
	Source        string             `json:"source"`
	Abstract      string             `json:"abstract"`
	URL           string             `json:"url"`
	Tags          []string           `json:"tags"`
	Timestamp     int64              `json:"timestamp"`
	CitationCount *int               `json:"citationCount"`
}

func (r publicationRecord) publication() reference.Publication {
	pub := reference.Publication{
		ID:            r.ID,
		Kind:          r.Kind,
		Title:         r.Title,
		Authors:       r.Authors,
		Year:          int(r.Year),
		Source:        r.Source,
		Abstract:      r.Abstract,
		URL:           r.URL,
		Timestamp:     r.Timestamp,
		CitationCount: r.CitationCount,
	}
	if tags := reference.NormalizeTags(r.Tags); len(tags) > 0 {
		pub.Tags = tags
	}
	return pub
}

// ParseSnapshot decodes a structured export. Comments and trailing commas
// are tolerated. All three top-level fields must be present, or the error
// wraps ErrInvalidSnapshot.
func ParseSnapshot(data []byte) (reference.Snapshot, error) {
	var f snapshotFile
	if err := json.Unmarshal(jsonc.ToJSON(data), &f); err != nil {
		return reference.Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var missing []string
	if f.Publications == nil {
		missing = append(missing, "publications")
	}
	if f.Presentations == nil {
		missing = append(missing, "presentations")
	}
	if f.LastSpeakerName == nil {
		missing = append(missing, "lastSpeakerName")
	}
	if len(missing) > 0 {
		return reference.Snapshot{}, fmt.Errorf("%w (missing %s)", ErrInvalidSnapshot, strings.Join(missing, ", "))
	}

	snap := reference.Snapshot{
		Publications:    make([]reference.Publication, 0, len(*f.Publications)),
		Presentations:   *f.Presentations,
		LastSpeakerName: *f.LastSpeakerName,
	}
	for _, r := range *f.Publications {
		snap.Publications = append(snap.Publications, r.publication())
	}
	return snap.Clone(), nil
}
