package main

import (
	"errors"

	"github.com/ascsn/pubsly/internal/collection"
	"github.com/ascsn/pubsly/internal/config"
	"github.com/ascsn/pubsly/internal/fetch"
	"github.com/ascsn/pubsly/internal/identifier"
	"github.com/ascsn/pubsly/internal/importer"
	"github.com/ascsn/pubsly/internal/pdf"
	"github.com/ascsn/pubsly/internal/upstream"
)

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config)
	ExitDataError   = 3 // Data error (malformed input, validation failure)
	ExitNotFound    = 4 // Identifier not found in any registry
	ExitAPIError    = 5 // Registry error (HTTP failure, timeout, bad payload)
)

// exitCodeFor maps an error to the exit code that describes it.
func exitCodeFor(err error) int {
	var apiErr *upstream.APIError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, identifier.ErrInvalidORCID),
		errors.Is(err, importer.ErrInvalidSnapshot),
		errors.Is(err, pdf.ErrNoIdentifier),
		errors.Is(err, collection.ErrDuplicatePresentation):
		return ExitDataError
	case upstream.IsNotFound(err), errors.Is(err, fetch.ErrUnrecognized):
		return ExitNotFound
	case errors.As(err, &apiErr):
		return ExitAPIError
	default:
		return ExitError
	}
}
