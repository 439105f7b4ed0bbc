package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not available in this build.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown document or rule table format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Input Errors.

	// ErrDocumentLoad indicates a document could not be opened or parsed.
	ErrDocumentLoad = errors.New("document could not be loaded")

	// ErrFileLocked indicates a source file is open in another program.
	// Reported separately from generic read failures so the user can close it.
	ErrFileLocked = errors.New("file is open in another program")

	// ErrNoRules indicates a rule table produced no usable rows.
	ErrNoRules = errors.New("no rules found")

	// ErrSheetNotFound indicates the expected worksheet is missing.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrPageOutOfRange indicates a page index outside the document.
	ErrPageOutOfRange = errors.New("page out of range")

	// Capability Errors.

	// ErrCapabilityUnavailable indicates an optional backend is not present.
	// Comparators degrade to an explicit unavailable result instead of failing.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrToolNotFound indicates an external command-line tool is not installed.
	ErrToolNotFound = errors.New("external tool not found")

	// ErrNoPagesCompared indicates every page of a run was skipped or failed.
	ErrNoPagesCompared = errors.New("no pages could be compared")
)
