package storage

import "errors"

// Sentinel errors shared across store backends and the components above
// them. Callers classify failures with errors.Is: the two unavailability
// errors are transient and may be retried at the coordinator boundary;
// everything else is caller misuse and is surfaced immediately.
var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGraphUnavailable indicates the graph store is unreachable or a
	// round-trip exceeded its timeout.
	ErrGraphUnavailable = errors.New("graph store unavailable")

	// ErrRetrievalUnavailable indicates the vector store is unreachable or
	// a round-trip exceeded its timeout. Callers must never treat this as
	// an empty result.
	ErrRetrievalUnavailable = errors.New("vector store unavailable")

	// ErrDuplicateMapping indicates an active mapping link already exists
	// for the same (entity_id, vector_id, collection_name) triple.
	ErrDuplicateMapping = errors.New("mapping already exists")
)

// IsTransient reports whether err is a store-availability failure that the
// coordinator may retry with backoff. Misuse errors are never transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrGraphUnavailable) || errors.Is(err, ErrRetrievalUnavailable)
}
