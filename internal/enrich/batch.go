package enrich

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/panics"
	"golang.org/x/time/rate"

	"github.com/ascsn/pubsly/internal/reference"
)

// Collection is the store the batch runners read and write.
type Collection interface {
	Publications() []reference.Publication
	AddPublication(pub reference.Publication) error
	UpdatePublications(fn func([]reference.Publication) []reference.Publication) error
}

// Outcome is the fate of one batch item.
type Outcome string

const (
	Added   Outcome = "added"
	Skipped Outcome = "skipped"
	Failed  Outcome = "failed"
)

// ItemResult records what happened to one imported record.
type ItemResult struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Outcome Outcome `json:"outcome"`
	Error   string  `json:"error,omitempty"`
}

// BatchReport tallies an import run.
type BatchReport struct {
	Added   int          `json:"added"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
	Items   []ItemResult `json:"items"`
}

func (r *BatchReport) record(item ItemResult) {
	switch item.Outcome {
	case Added:
		r.Added++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
	}
	r.Items = append(r.Items, item)
}

// ImportBatch enriches and inserts partials one at a time. Each record is
// checked against the collection as it stands at that moment, both before
// and after enrichment, since earlier items in the batch may have added
// the same work. A failing or panicking item is tallied and the run
// continues. Cancelling ctx stops the run before the next item.
func (e *Engine) ImportBatch(ctx context.Context, partials []reference.Partial, coll Collection) BatchReport {
	report := BatchReport{Items: make([]ItemResult, 0, len(partials))}

	for _, p := range partials {
		if ctx.Err() != nil {
			e.logger.Warn("import cancelled", "remaining", len(partials)-len(report.Items))
			break
		}

		item := ItemResult{ID: p.ID, Title: p.Title}
		var (
			pc  panics.Catcher
			err error
		)
		pc.Try(func() {
			item.Outcome, item.ID, err = e.importOne(ctx, p, coll)
		})
		if r := pc.Recovered(); r != nil {
			err = r.AsError()
			e.logger.Error("import item panicked", "id", p.ID, "panic", r.Value)
		}
		if err != nil {
			item.Outcome = Failed
			item.Error = err.Error()
		}
		report.record(item)
	}

	return report
}

// importOne returns the outcome and the id the record was stored under.
func (e *Engine) importOne(ctx context.Context, p reference.Partial, coll Collection) (Outcome, string, error) {
	if IsDuplicate(p, coll.Publications()) {
		return Skipped, p.ID, nil
	}

	pub := e.Enrich(ctx, p, coll.Publications())

	if IsDuplicate(AsPartial(pub), coll.Publications()) {
		e.logger.Info("skipping duplicate after enrichment", "partial", p.ID, "id", pub.ID)
		return Skipped, pub.ID, nil
	}

	if err := coll.AddPublication(pub); err != nil {
		e.logger.Error("adding publication failed", "id", pub.ID, "err", err)
		return Failed, pub.ID, fmt.Errorf("adding %s: %w", pub.ID, err)
	}
	return Added, pub.ID, nil
}

// RefreshReport tallies a citation refresh run.
type RefreshReport struct {
	Eligible int `json:"eligible"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// RefreshCitations looks up citation counts for every DOI/arXiv record
// that has none. Lookups run sequentially; after each one returns the
// engine waits the citation delay before starting the next (no pause after
// the last). The collection is written once at the end.
func (e *Engine) RefreshCitations(ctx context.Context, coll Collection) (RefreshReport, error) {
	var targets []reference.Publication
	for _, pub := range coll.Publications() {
		if pub.Kind.HasRegistryID() && pub.CitationCount == nil {
			targets = append(targets, pub)
		}
	}

	report := RefreshReport{Eligible: len(targets)}
	if len(targets) == 0 {
		return report, nil
	}

	counts := make(map[string]int, len(targets))
	for i, pub := range targets {
		if i > 0 {
			if err := pause(ctx, e.citationDelay); err != nil {
				e.logger.Warn("citation refresh interrupted", "err", err)
				break
			}
		}
		n := e.citations.CitationCount(ctx, pub.ID, pub.Kind)
		if n == nil {
			report.Failed++
			continue
		}
		counts[pub.ID] = *n
		report.Updated++
	}

	if len(counts) == 0 {
		return report, nil
	}

	err := coll.UpdatePublications(func(pubs []reference.Publication) []reference.Publication {
		for i := range pubs {
			if n, ok := counts[pubs[i].ID]; ok && pubs[i].CitationCount == nil {
				pubs[i].CitationCount = reference.IntPtr(n)
			}
		}
		return pubs
	})
	if err != nil {
		return report, fmt.Errorf("saving citation counts: %w", err)
	}
	return report, nil
}

// pause blocks for d measured from the call, or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	// Drain the single token so Wait blocks for a full interval.
	limiter := rate.NewLimiter(rate.Every(d), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}
