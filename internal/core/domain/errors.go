package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown storage backend or extraction strategy.
	ErrUnsupportedType = errors.New("unsupported type")

	// Ingestion Errors.

	// ErrInvalidDocument indicates the source is not a document the converter
	// can read (corrupt archive, wrong format). It is fatal for that document
	// and should be surfaced as a rejected ingestion, never retried.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDocumentTooLarge indicates the source exceeds the configured size limit.
	ErrDocumentTooLarge = errors.New("document too large")

	// ErrVersionConflict indicates a stored article already has the same or a
	// newer version than the one being written.
	ErrVersionConflict = errors.New("version conflict")

	// Manifest Errors.

	// ErrMissingSecret indicates no HMAC secret is configured.
	// Manifests are never signed with an empty key.
	ErrMissingSecret = errors.New("manifest secret not configured")

	// ErrUntrustedContent indicates a manifest checksum or signature
	// did not match the recomputed value.
	ErrUntrustedContent = errors.New("untrusted content")
)
