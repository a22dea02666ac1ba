package services

import "errors"

var (
	// ErrInvalidCredential covers malformed, tampered and expired tokens.
	// Always an authentication failure, never a server error.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrSigningSecretMissing prevents the token service from being
	// constructed without a secret. There is no fallback key.
	ErrSigningSecretMissing = errors.New("signing secret is not configured")

	// ErrLimitReached means the caller's plan ceiling blocked a creation.
	ErrLimitReached = errors.New("plan limit reached")

	// ErrPlanUnresolved means the user has no resolvable plan row. Treated
	// as a hard denial; callers should log it as a data-integrity anomaly.
	ErrPlanUnresolved = errors.New("no access plan resolved for user")

	// ErrInvalidTransition rejects a status change outside the allowed
	// linear transitions.
	ErrInvalidTransition = errors.New("invalid status transition")
)
