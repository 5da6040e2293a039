package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/config"
	"github.com/ascsn/pubsly/internal/fetch"
	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/importer"
	"github.com/ascsn/pubsly/internal/pdf"
	"github.com/ascsn/pubsly/internal/upstream"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"invalid config", fmt.Errorf("loading: %w", config.ErrInvalidConfig), ExitConfigError},
		{"invalid orcid", fmt.Errorf("%w: %q", identifier.ErrInvalidORCID, "123"), ExitDataError},
		{"invalid snapshot", importer.ErrInvalidSnapshot, ExitDataError},
		{"no identifier in pdf", pdf.ErrNoIdentifier, ExitDataError},
		{"duplicate presentation", fmt.Errorf("saving: %w", collection.ErrDuplicatePresentation), ExitDataError},
		{"not found", upstream.NotFound("crossref", "10.1/x"), ExitNotFound},
		{"api 404", &upstream.APIError{Service: "orcid", StatusCode: 404}, ExitNotFound},
		{"unrecognized", fetch.ErrUnrecognized, ExitNotFound},
		{"api 500", &upstream.APIError{Service: "s2", StatusCode: 500, Message: "boom"}, ExitAPIError},
		{"other", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
