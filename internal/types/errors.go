package types

import "errors"

// Failure categories for a backup run. Sites wrap these with pkg/errors so
// the run log keeps the full message while callers branch with errors.Is.
var (
	// ErrValidation marks a schedule definition rejected before it is
	// persisted. It never reaches the executor.
	ErrValidation = errors.New("invalid schedule definition")

	// ErrPermission marks a caller without rights to a connection or
	// organization. The run never starts.
	ErrPermission = errors.New("permission denied")

	// ErrConnection marks a failure to reach, authenticate to or decrypt
	// credentials for the source database.
	ErrConnection = errors.New("source connection failed")

	// ErrEmptyResult marks a run with no collections to back up, kept
	// distinct from real failures so operators can tell "nothing to do"
	// from "broke".
	ErrEmptyResult = errors.New("no collections to back up")

	// ErrUpload marks a failed artifact upload. Fatal to the run: an
	// unreachable artifact is equivalent to no backup.
	ErrUpload = errors.New("artifact upload failed")

	// ErrNotFound is returned by repositories for missing rows.
	ErrNotFound = errors.New("record not found")
)
