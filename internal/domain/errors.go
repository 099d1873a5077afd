package domain

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrInterventionNotFound = errors.New("intervention log not found")

	// ErrInterventionExists is returned by the intervention log store when a
	// create would violate the one-active-trigger-per-session constraint.
	ErrInterventionExists = errors.New("active intervention log already exists for session")
)
