package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoText indicates OCR produced no text for a document.
	// The whole document is marked failed; no partial items are emitted.
	ErrNoText = errors.New("no text extracted")

	// ErrDateUnparseable indicates a Norwegian date fragment could not be
	// resolved to a concrete date. The affected event is skipped, not fatal.
	ErrDateUnparseable = errors.New("date unparseable")

	// ErrTaskStoreUnavailable indicates the external task store is not configured.
	ErrTaskStoreUnavailable = errors.New("task store unavailable")

	// ErrCalendarUnavailable indicates the external calendar store is not configured.
	ErrCalendarUnavailable = errors.New("calendar store unavailable")

	// ErrNotifierUnavailable indicates no notification channel is configured.
	ErrNotifierUnavailable = errors.New("notifier unavailable")

	// ErrAuthRequired indicates a provider requires authentication but none
	// is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the authentication has expired and refresh failed.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
