// Package repository defines the competition, result, and team stores and
// their errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/regata/internal/domain/model"
)

// CompetitionFilter narrows CompetitionStore.Find. Zero values mean "no
// constraint"; the boolean flags are tri-state pointers to keep false
// distinct from unset, matching the query surface of the HTTP layer.
type CompetitionFilter struct {
	Name           string
	Location       string
	DateFrom       time.Time
	DateTo         time.Time
	BoatType       model.BoatType
	Lanes          []int
	LaneDistances  []int
	IsCancelled    *bool
	IsLeague       *bool
	IsChampionship *bool
	IsActive       *bool
}

// CompetitionStore provides read/write access to competitions.
type CompetitionStore interface {
	// Find returns competitions matching filter, in creation order.
	Find(ctx context.Context, filter CompetitionFilter) ([]model.Competition, error)

	// FindBySlug returns the competition with the given slug.
	// Returns ErrCompetitionNotFound if unknown.
	FindBySlug(ctx context.Context, slug string) (model.Competition, error)

	// FindByID returns the competition with the given id.
	// Returns ErrCompetitionNotFound if unknown.
	FindByID(ctx context.Context, id string) (model.Competition, error)

	// Create stores a new competition and returns it with its assigned id.
	Create(ctx context.Context, c model.Competition) (model.Competition, error)

	// Years returns the distinct season years across all competitions,
	// ascending.
	Years(ctx context.Context) ([]int, error)
}

// ResultEntry is the ingest shape for one raced result. Validity defaults to
// true and group to 0 when results come in off the sheets.
type ResultEntry struct {
	TeamSlug   string
	TeamNumber int
	Time       string
	Group      int
	IsFinal    bool
	IsValid    bool
}

// ResultStore provides read/write access to raced results.
type ResultStore interface {
	// FindByCompetition returns every result of one competition.
	FindByCompetition(ctx context.Context, competitionID string) ([]model.Result, error)

	// FindByCompetitionAndCategory narrows to one category.
	FindByCompetitionAndCategory(ctx context.Context, competitionID, category string) ([]model.Result, error)

	// FindValidForCompetitions returns the valid results belonging to any of
	// the given competitions, in insertion order.
	FindValidForCompetitions(ctx context.Context, competitionIDs []string) ([]model.Result, error)

	// Insert stores entries under (competitionID, category) and returns the
	// stored results with assigned ids. Negative groups are rejected with
	// ErrInvalidGroup.
	Insert(ctx context.Context, competitionID, category string, entries []ResultEntry) ([]model.Result, error)
}

// TeamStore resolves team slugs to display metadata. Presentation only; the
// aggregation core never consults it.
type TeamStore interface {
	FindAll(ctx context.Context) ([]model.Team, error)
	FindBySlug(ctx context.Context, slug string) (model.Team, error)
	Create(ctx context.Context, t model.Team) (model.Team, error)
	Update(ctx context.Context, t model.Team) (model.Team, error)
	Delete(ctx context.Context, id string) error
}
