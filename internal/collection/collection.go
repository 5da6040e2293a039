// Package collection holds the in-memory collection of publications and
// presentations and persists it after every change.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ascsn/pubsly/internal/export"
	"github.com/ascsn/pubsly/internal/reference"
	"github.com/ascsn/pubsly/internal/storage"
)

// ErrDuplicatePresentation is returned when a presentation with the same
// title, speaker, and date is already recorded.
var ErrDuplicatePresentation = errors.New("a presentation with the same title, speaker, and date already exists")

// Store is the single owner of the collection. Readers get deep copies.
// Every mutation builds the next snapshot, saves it, and only then makes it
// current, so a failed save leaves memory and disk in agreement.
type Store struct {
	mu     sync.Mutex
	blobs  storage.BlobStore
	key    string
	snap   reference.Snapshot
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the blob key (default storage.DataKey).
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithClock sets the time source used to stamp new presentations.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithIDGenerator sets the presentation id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// Open loads the collection from blobs. A missing or unreadable blob
// yields an empty collection; the problem is logged, never returned.
func Open(blobs storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blobs:  blobs,
		key:    storage.DataKey,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithPrefix("collection")
	s.snap = s.load()
	return s
}

func (s *Store) load() reference.Snapshot {
	data, err := s.blobs.Load(s.key)
	if errors.Is(err, storage.ErrNoBlob) {
		s.logger.Debug("no stored collection, starting empty")
		return reference.Snapshot{}.Clone()
	}
	if err != nil {
		s.logger.Warn("failed to read stored collection, starting empty", "err", err)
		return reference.Snapshot{}.Clone()
	}

	var snap reference.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("failed to parse stored collection, starting empty", "err", err)
		return reference.Snapshot{}.Clone()
	}
	return snap.Clone()
}

// mutate applies fn to a copy of the current snapshot, saves the result,
// and makes it current. An error from fn aborts the change before anything
// is saved.
func (s *Store) mutate(fn func(*reference.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	data, err := export.JSON(next)
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	if err := s.blobs.Save(s.key, data); err != nil {
		return fmt.Errorf("saving collection: %w", err)
	}
	s.snap = next
	return nil
}

// Snapshot returns a copy of the whole collection.
func (s *Store) Snapshot() reference.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Publications returns a copy of every publication, newest first.
func (s *Store) Publications() []reference.Publication {
	return s.Snapshot().Publications
}

// Presentations returns a copy of every presentation, newest first.
func (s *Store) Presentations() []reference.Presentation {
	return s.Snapshot().Presentations
}

// LastSpeakerName returns the speaker of the most recently saved
// presentation.
func (s *Store) LastSpeakerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.LastSpeakerName
}

// Publication looks up a publication by id, ignoring case.
func (s *Store) Publication(id string) (reference.Publication, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.snap.Publications {
		if reference.SameID(p.ID, id) {
			return p.Clone(), true
		}
	}
	return reference.Publication{}, false
}

// AddPublication inserts pub, replacing any publication whose id matches
// ignoring case.
func (s *Store) AddPublication(pub reference.Publication) error {
	pub = pub.Clone()
	return s.mutate(func(snap *reference.Snapshot) error {
		rest := slices.DeleteFunc(snap.Publications, func(p reference.Publication) bool {
			return reference.SameID(p.ID, pub.ID)
		})
		snap.Publications = sortPublications(append([]reference.Publication{pub}, rest...))
		return nil
	})
}

// AddPresentation inserts pres, replacing any presentation with the same
// id, and remembers its speaker. A missing id is generated and a zero
// timestamp is set to now. The stored presentation is returned.
//
// Another presentation with the same title and speaker (trimmed, ignoring
// case) on the same date is rejected with ErrDuplicatePresentation; the
// entry being replaced does not count.
func (s *Store) AddPresentation(pres reference.Presentation) (reference.Presentation, error) {
	if pres.ID == "" {
		pres.ID = s.newID()
	}
	if pres.Timestamp == 0 {
		pres.Timestamp = reference.Timestamp(s.now())
	}

	err := s.mutate(func(snap *reference.Snapshot) error {
		for _, p := range snap.Presentations {
			if p.ID != pres.ID && samePresentation(p, pres) {
				return fmt.Errorf("%w: %q by %s on %s", ErrDuplicatePresentation, pres.Title, pres.Speaker, pres.Date)
			}
		}
		rest := slices.DeleteFunc(snap.Presentations, func(p reference.Presentation) bool {
			return p.ID == pres.ID
		})
		snap.Presentations = sortPresentations(append([]reference.Presentation{pres}, rest...))
		snap.LastSpeakerName = pres.Speaker
		return nil
	})
	if err != nil {
		return reference.Presentation{}, err
	}
	return pres, nil
}

// DeletePublication removes the publication with exactly this id. It
// reports whether anything was removed; nothing is saved when not.
func (s *Store) DeletePublication(id string) (bool, error) {
	counts, err := s.BulkDelete([]string{id}, nil)
	return counts.Publications > 0, err
}

// DeletePresentation removes the presentation with exactly this id.
func (s *Store) DeletePresentation(id string) (bool, error) {
	counts, err := s.BulkDelete(nil, []string{id})
	return counts.Presentations > 0, err
}

// DeleteCounts reports how many records a bulk delete removed.
type DeleteCounts struct {
	Publications  int `json:"publications"`
	Presentations int `json:"presentations"`
}

// BulkDelete removes every publication and presentation whose id is
// listed, in one save.
func (s *Store) BulkDelete(pubIDs, presIDs []string) (DeleteCounts, error) {
	var counts DeleteCounts

	s.mu.Lock()
	for _, p := range s.snap.Publications {
		if slices.Contains(pubIDs, p.ID) {
			counts.Publications++
		}
	}
	for _, p := range s.snap.Presentations {
		if slices.Contains(presIDs, p.ID) {
			counts.Presentations++
		}
	}
	s.mu.Unlock()

	if counts == (DeleteCounts{}) {
		return counts, nil
	}

	err := s.mutate(func(snap *reference.Snapshot) error {
		snap.Publications = slices.DeleteFunc(snap.Publications, func(p reference.Publication) bool {
			return slices.Contains(pubIDs, p.ID)
		})
		snap.Presentations = slices.DeleteFunc(snap.Presentations, func(p reference.Presentation) bool {
			return slices.Contains(presIDs, p.ID)
		})
		return nil
	})
	if err != nil {
		return DeleteCounts{}, err
	}
	return counts, nil
}

// Replace overwrites the whole collection, as a structured import does.
func (s *Store) Replace(snap reference.Snapshot) error {
	snap = snap.Clone()
	return s.mutate(func(cur *reference.Snapshot) error {
		*cur = snap
		return nil
	})
}

// UpdatePublications replaces the publication list with fn's result.
// fn receives a copy and may modify it freely.
func (s *Store) UpdatePublications(fn func([]reference.Publication) []reference.Publication) error {
	return s.mutate(func(snap *reference.Snapshot) error {
		snap.Publications = fn(snap.Publications)
		return nil
	})
}

// samePresentation reports whether a and b are the same talk: equal
// trimmed titles and speakers ignoring case, and the same date.
func samePresentation(a, b reference.Presentation) bool {
	return strings.EqualFold(strings.TrimSpace(a.Title), strings.TrimSpace(b.Title)) &&
		strings.EqualFold(strings.TrimSpace(a.Speaker), strings.TrimSpace(b.Speaker)) &&
		a.Date == b.Date
}

// FilterByTag returns the publications carrying tag, ignoring case. An
// empty tag returns all of them.
func FilterByTag(pubs []reference.Publication, tag string) []reference.Publication {
	if tag == "" {
		return pubs
	}
	var out []reference.Publication
	for _, p := range pubs {
		if p.HasTag(tag) {
			out = append(out, p)
		}
	}
	return out
}

// AllTags returns the distinct tags used across pubs, sorted.
func AllTags(pubs []reference.Publication) []string {
	seen := map[string]bool{}
	var tags []string
	for _, p := range pubs {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func sortPublications(pubs []reference.Publication) []reference.Publication {
	sort.SliceStable(pubs, func(i, j int) bool {
		return pubs[i].Timestamp > pubs[j].Timestamp
	})
	return pubs
}

func sortPresentations(pres []reference.Presentation) []reference.Presentation {
	sort.SliceStable(pres, func(i, j int) bool {
		return pres[i].Timestamp > pres[j].Timestamp
	})
	return pres
}
