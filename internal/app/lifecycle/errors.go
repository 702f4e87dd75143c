// internal/app/lifecycle/errors.go
package lifecycle

import "errors"

// Typed failures returned by lifecycle operations. Callers match with
// errors.Is and map them to refusal responses; they are never wrapped in
// panics or silent retries.
var (
	// ErrValidation — required dossier metadata is missing or invalid.
	ErrValidation = errors.New("invalid dossier input")
	// ErrNotFound — the referenced dossier or document does not exist.
	ErrNotFound = errors.New("dossier not found")
	// ErrAlreadyLocked — the dossier is locked by a different actor.
	ErrAlreadyLocked = errors.New("dossier already locked")
	// ErrLocked — the mutation is blocked by a lock held by another actor.
	ErrLocked = errors.New("dossier locked by another actor")
	// ErrExpired — restore attempted past the recovery window.
	ErrExpired = errors.New("recovery window expired")
	// ErrSelfShare — a user attempted to share a dossier with themselves.
	ErrSelfShare = errors.New("cannot share a dossier with yourself")
)
