package notebook

import "errors"

// Sentinel errors for the notebook package.
var (
	// ErrEmptyURLList is returned before any page interaction when there is
	// nothing to ingest.
	ErrEmptyURLList = errors.New("URL list is empty")

	// ErrInvalidTransition is returned when retrieval stages are advanced out
	// of order.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrSourceTypeMissing is returned when no source-type chip matches the
	// wanted label.
	ErrSourceTypeMissing = errors.New("source type not offered")
)
