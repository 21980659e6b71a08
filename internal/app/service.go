// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	repository "github.com/okian/regata/internal/adapters/repository"
	"github.com/okian/regata/internal/domain/career"
	"github.com/okian/regata/internal/domain/league"
	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/racetime"
	"github.com/okian/regata/internal/domain/ranking"
	"github.com/okian/regata/pkg/logger"
	"github.com/okian/regata/pkg/metrics"
)

// Service wires the stores to the ranking and aggregation core.
type Service struct {
	mu sync.RWMutex

	competitions repository.CompetitionStore
	results      repository.ResultStore
	teams        repository.TeamStore

	leagues *league.Builder
	careers *career.Builder

	basePoints int
	started    bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCompetitionStore sets the competition store.
func WithCompetitionStore(store repository.CompetitionStore) Option {
	return func(s *Service) {
		if store != nil {
			s.competitions = store
		}
	}
}

// WithResultStore sets the result store.
func WithResultStore(store repository.ResultStore) Option {
	return func(s *Service) {
		if store != nil {
			s.results = store
		}
	}
}

// WithTeamStore sets the team store.
func WithTeamStore(store repository.TeamStore) Option {
	return func(s *Service) {
		if store != nil {
			s.teams = store
		}
	}
}

// WithLeagueBasePoints sets the points first place earns per competition.
func WithLeagueBasePoints(points int) Option {
	return func(s *Service) {
		if points > 0 {
			s.basePoints = points
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		basePoints: 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components. Stores default to one shared
// in-memory store when none were injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.competitions == nil || s.results == nil || s.teams == nil {
		mem := repository.NewMemoryStore()
		if s.competitions == nil {
			s.competitions = mem.Competitions()
		}
		if s.results == nil {
			s.results = mem.Results()
		}
		if s.teams == nil {
			s.teams = mem.Teams()
		}
		s.logger.Info(ctx, "using in-memory stores")
	}

	s.leagues = league.NewBuilder(league.WithBasePoints(s.basePoints))
	s.careers = career.NewBuilder(s.leagues)

	s.started = true
	s.logger.Info(ctx, "results service started", logger.Int("basePoints", s.basePoints))
	return nil
}

// Stop releases service resources. The stores are caller-owned; nothing is
// closed here.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "results service stopped")
}

// RankResults orders one (competition, category) result set and attaches
// 1-based positions. A malformed time anywhere in the batch aborts it.
func (s *Service) RankResults(ctx context.Context, competitionID, category string) ([]model.RankedResult, error) {
	if _, err := s.competitions.FindByID(ctx, competitionID); err != nil {
		return nil, err
	}

	results, err := s.results.FindByCompetitionAndCategory(ctx, competitionID, category)
	if err != nil {
		return nil, err
	}

	ordered, err := ranking.Rank(results)
	if err != nil {
		if errors.Is(err, racetime.ErrMalformedTime) {
			metrics.RecordMalformedTime()
		}
		return nil, fmt.Errorf("rank %s/%s: %w", competitionID, category, err)
	}
	metrics.RecordRankingComputed()
	return ranking.Positions(ordered), nil
}

// BuildLeague computes the cumulative league tables for one season. A season
// with no scored league competitions is a not-found condition.
func (s *Service) BuildLeague(ctx context.Context, year int) ([]league.Table, error) {
	defer metrics.RecordLeagueBuild(time.Now())

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	isLeague := true

	comps, err := s.competitions.Find(ctx, repository.CompetitionFilter{
		DateFrom: from,
		DateTo:   to,
		IsLeague: &isLeague,
	})
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return nil, fmt.Errorf("season %d: %w", year, league.ErrNoCompetitions)
	}

	ids := make([]string, len(comps))
	for i, c := range comps {
		ids[i] = c.ID
	}
	results, err := s.results.FindValidForCompetitions(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("season %d: %w", year, league.ErrNoResults)
	}

	tables, err := s.leagues.Build(year, comps, results)
	if err != nil {
		return nil, fmt.Errorf("build league %d: %w", year, err)
	}

	s.logger.Debug(ctx, "league built",
		logger.Int("year", year),
		logger.Int("competitions", len(comps)),
		logger.Int("tables", len(tables)),
	)
	return tables, nil
}

// BuildCareer assembles the palmares for one team across every known season.
// Unknown slugs are a not-found condition; a team with no achievements gets
// an empty record.
func (s *Service) BuildCareer(ctx context.Context, teamSlug string) (map[int][]career.Achievement, error) {
	defer metrics.RecordCareerBuild(time.Now())

	if _, err := s.teams.FindBySlug(ctx, teamSlug); err != nil {
		return nil, err
	}

	comps, err := s.competitions.Find(ctx, repository.CompetitionFilter{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(comps))
	for i, c := range comps {
		ids[i] = c.ID
	}
	results, err := s.results.FindValidForCompetitions(ctx, ids)
	if err != nil {
		return nil, err
	}

	years, err := s.competitions.Years(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.careers.Build(teamSlug, comps, results, years)
	if err != nil {
		return nil, fmt.Errorf("build career %q: %w", teamSlug, err)
	}

	s.logger.Debug(ctx, "career built",
		logger.String("team", teamSlug),
		logger.Int("years", len(record)),
	)
	return record, nil
}

// FindCompetitions passes the filter through to the competition store.
func (s *Service) FindCompetitions(ctx context.Context, filter repository.CompetitionFilter) ([]model.Competition, error) {
	return s.competitions.Find(ctx, filter)
}

// CompetitionBySlug resolves one competition by slug.
func (s *Service) CompetitionBySlug(ctx context.Context, slug string) (model.Competition, error) {
	return s.competitions.FindBySlug(ctx, slug)
}

// CompetitionByID resolves one competition by id.
func (s *Service) CompetitionByID(ctx context.Context, id string) (model.Competition, error) {
	return s.competitions.FindByID(ctx, id)
}

// CreateCompetition stores a new competition.
func (s *Service) CreateCompetition(ctx context.Context, c model.Competition) (model.Competition, error) {
	return s.competitions.Create(ctx, c)
}

// Years returns every season year with at least one competition.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	return s.competitions.Years(ctx)
}

// ResultsByCompetition returns a competition's raw results.
func (s *Service) ResultsByCompetition(ctx context.Context, competitionID string) ([]model.Result, error) {
	return s.results.FindByCompetition(ctx, competitionID)
}

// ResultsByCompetitionAndCategory returns a competition category's raw
// results.
func (s *Service) ResultsByCompetitionAndCategory(ctx context.Context, competitionID, category string) ([]model.Result, error) {
	return s.results.FindByCompetitionAndCategory(ctx, competitionID, category)
}

// InsertResults validates time strings and stores the entries. Malformed
// times are rejected before anything is written.
func (s *Service) InsertResults(ctx context.Context, competitionID, category string, entries []repository.ResultEntry) ([]model.Result, error) {
	for _, e := range entries {
		if _, _, err := racetime.Parse(e.Time); err != nil {
			metrics.RecordMalformedTime()
			return nil, err
		}
	}
	return s.results.Insert(ctx, competitionID, category, entries)
}

// Teams returns every team.
func (s *Service) Teams(ctx context.Context) ([]model.Team, error) {
	return s.teams.FindAll(ctx)
}

// TeamBySlug resolves one team by slug.
func (s *Service) TeamBySlug(ctx context.Context, slug string) (model.Team, error) {
	return s.teams.FindBySlug(ctx, slug)
}

// CreateTeam stores a new team.
func (s *Service) CreateTeam(ctx context.Context, t model.Team) (model.Team, error) {
	return s.teams.Create(ctx, t)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"basePoints": s.basePoints,
	}

	if s.started {
		if years, err := s.competitions.Years(ctx); err == nil {
			stats["seasons"] = len(years)
		}
		if comps, err := s.competitions.Find(ctx, repository.CompetitionFilter{}); err == nil {
			stats["competitions"] = len(comps)
			metrics.UpdateCompetitionCount(len(comps))
		}
	}
	return stats
}
