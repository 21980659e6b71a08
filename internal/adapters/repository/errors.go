package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrInvalidGroup        = errors.New("group must not be negative")
	ErrInvalidLanes        = errors.New("lanes must be positive")
	ErrDuplicateSlug       = errors.New("slug already exists")
)
