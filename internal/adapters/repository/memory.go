package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/pkg/metrics"
)

// MemoryStore holds competitions, results, and teams in process. The typed
// store interfaces are exposed through the Competitions, Results, and Teams
// views; a database-backed store can replace them behind the same
// interfaces.
type MemoryStore struct {
	mu sync.RWMutex

	competitions []model.Competition
	results      []model.Result
	teams        []model.Team

	compByID   map[string]int
	compBySlug map[string]int
	teamBySlug map[string]int
	teamByID   map[string]int
}

type competitionView struct{ s *MemoryStore }

type resultView struct{ s *MemoryStore }

type teamView struct{ s *MemoryStore }

// Interface guards.
var (
	_ CompetitionStore = competitionView{}
	_ ResultStore      = resultView{}
	_ TeamStore        = teamView{}
)

// NewMemoryStore creates an empty store, optionally seeded.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		compByID:   make(map[string]int),
		compBySlug: make(map[string]int),
		teamBySlug: make(map[string]int),
		teamByID:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Competitions returns the store's CompetitionStore view.
func (s *MemoryStore) Competitions() CompetitionStore { return competitionView{s} }

// Results returns the store's ResultStore view.
func (s *MemoryStore) Results() ResultStore { return resultView{s} }

// Teams returns the store's TeamStore view.
func (s *MemoryStore) Teams() TeamStore { return teamView{s} }

// Find returns competitions matching filter, in creation order.
func (v competitionView) Find(ctx context.Context, filter CompetitionFilter) ([]model.Competition, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("competitions.find", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Competition
	for _, c := range s.competitions {
		if matchCompetition(c, filter) {
			out = append(out, c)
		}
	}
	return out, ctx.Err()
}

// FindBySlug returns the competition with the given slug.
func (v competitionView) FindBySlug(ctx context.Context, slug string) (model.Competition, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("competitions.find_by_slug", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.compBySlug[slug]
	if !ok {
		return model.Competition{}, fmt.Errorf("%w: slug %q", ErrCompetitionNotFound, slug)
	}
	return s.competitions[i], ctx.Err()
}

// FindByID returns the competition with the given id.
func (v competitionView) FindByID(ctx context.Context, id string) (model.Competition, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("competitions.find_by_id", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.compByID[id]
	if !ok {
		return model.Competition{}, fmt.Errorf("%w: id %q", ErrCompetitionNotFound, id)
	}
	return s.competitions[i], ctx.Err()
}

// Create stores a new competition. Slugs are supplied by the caller (slug
// generation lives upstream) and must be unique; lanes must be positive.
func (v competitionView) Create(ctx context.Context, c model.Competition) (model.Competition, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("competitions.create", time.Now())

	if c.Lanes <= 0 {
		return model.Competition{}, fmt.Errorf("%w: got %d", ErrInvalidLanes, c.Lanes)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.compBySlug[c.Slug]; exists {
		return model.Competition{}, fmt.Errorf("%w: %q", ErrDuplicateSlug, c.Slug)
	}

	s.compByID[c.ID] = len(s.competitions)
	s.compBySlug[c.Slug] = len(s.competitions)
	s.competitions = append(s.competitions, c)
	metrics.UpdateCompetitionCount(len(s.competitions))
	return c, ctx.Err()
}

// Years returns the distinct season years across all competitions, ascending.
func (v competitionView) Years(ctx context.Context) ([]int, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("competitions.years", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]bool)
	var years []int
	for _, c := range s.competitions {
		if y := c.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years, ctx.Err()
}

// FindByCompetition returns every result of one competition.
func (v resultView) FindByCompetition(ctx context.Context, competitionID string) ([]model.Result, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("results.find_by_competition", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Result
	for _, r := range s.results {
		if r.CompetitionID == competitionID {
			out = append(out, r)
		}
	}
	return out, ctx.Err()
}

// FindByCompetitionAndCategory narrows to one category.
func (v resultView) FindByCompetitionAndCategory(ctx context.Context, competitionID, category string) ([]model.Result, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("results.find_by_competition_category", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Result
	for _, r := range s.results {
		if r.CompetitionID == competitionID && r.Category == category {
			out = append(out, r)
		}
	}
	return out, ctx.Err()
}

// FindValidForCompetitions returns valid results belonging to any of the
// given competitions, in insertion order.
func (v resultView) FindValidForCompetitions(ctx context.Context, competitionIDs []string) ([]model.Result, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("results.find_valid", time.Now())

	wanted := make(map[string]bool, len(competitionIDs))
	for _, id := range competitionIDs {
		wanted[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Result
	for _, r := range s.results {
		if r.IsValid && wanted[r.CompetitionID] {
			out = append(out, r)
		}
	}
	return out, ctx.Err()
}

// Insert stores entries under (competitionID, category).
func (v resultView) Insert(ctx context.Context, competitionID, category string, entries []ResultEntry) ([]model.Result, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("results.insert", time.Now())

	for _, e := range entries {
		if e.Group < 0 {
			return nil, fmt.Errorf("%w: got %d for team %q", ErrInvalidGroup, e.Group, e.TeamSlug)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.compByID[competitionID]; !ok {
		return nil, fmt.Errorf("%w: id %q", ErrCompetitionNotFound, competitionID)
	}

	stored := make([]model.Result, 0, len(entries))
	for _, e := range entries {
		r := model.Result{
			ID:            uuid.NewString(),
			CompetitionID: competitionID,
			Category:      category,
			TeamSlug:      e.TeamSlug,
			TeamNumber:    e.TeamNumber,
			Time:          e.Time,
			Group:         e.Group,
			IsFinal:       e.IsFinal,
			IsValid:       e.IsValid,
		}
		s.results = append(s.results, r)
		stored = append(stored, r)
	}
	metrics.RecordResultsIngested(len(stored))
	return stored, ctx.Err()
}

// FindAll returns every team in creation order.
func (v teamView) FindAll(ctx context.Context) ([]model.Team, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("teams.find_all", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Team, len(s.teams))
	copy(out, s.teams)
	return out, ctx.Err()
}

// FindBySlug returns the team with the given slug.
func (v teamView) FindBySlug(ctx context.Context, slug string) (model.Team, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("teams.find_by_slug", time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.teamBySlug[slug]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: slug %q", ErrTeamNotFound, slug)
	}
	return s.teams[i], ctx.Err()
}

// Create stores a new team.
func (v teamView) Create(ctx context.Context, t model.Team) (model.Team, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("teams.create", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, exists := s.teamBySlug[t.Slug]; exists {
		return model.Team{}, fmt.Errorf("%w: %q", ErrDuplicateSlug, t.Slug)
	}

	s.teamByID[t.ID] = len(s.teams)
	s.teamBySlug[t.Slug] = len(s.teams)
	s.teams = append(s.teams, t)
	return t, ctx.Err()
}

// Update replaces the stored team with the same id.
func (v teamView) Update(ctx context.Context, t model.Team) (model.Team, error) {
	s := v.s

	defer metrics.ObserveStoreQuery("teams.update", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.teamByID[t.ID]
	if !ok {
		return model.Team{}, fmt.Errorf("%w: id %q", ErrTeamNotFound, t.ID)
	}
	delete(s.teamBySlug, s.teams[i].Slug)
	if t.Slug == "" {
		t.Slug = s.teams[i].Slug
	}
	s.teamBySlug[t.Slug] = i
	s.teams[i] = t
	return t, ctx.Err()
}

// Delete removes the team with the given id.
func (v teamView) Delete(ctx context.Context, id string) error {
	s := v.s

	defer metrics.ObserveStoreQuery("teams.delete", time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.teamByID[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrTeamNotFound, id)
	}
	delete(s.teamByID, id)
	delete(s.teamBySlug, s.teams[i].Slug)
	s.teams = append(s.teams[:i], s.teams[i+1:]...)
	for j := i; j < len(s.teams); j++ {
		s.teamByID[s.teams[j].ID] = j
		s.teamBySlug[s.teams[j].Slug] = j
	}
	return ctx.Err()
}

// seedCompetition loads one competition without locking; options run before
// the store is shared.
func (s *MemoryStore) seedCompetition(c model.Competition) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.compByID[c.ID] = len(s.competitions)
	s.compBySlug[c.Slug] = len(s.competitions)
	s.competitions = append(s.competitions, c)
}

func (s *MemoryStore) seedResult(r model.Result) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.results = append(s.results, r)
}

func (s *MemoryStore) seedTeam(t model.Team) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.teamByID[t.ID] = len(s.teams)
	s.teamBySlug[t.Slug] = len(s.teams)
	s.teams = append(s.teams, t)
}

// matchCompetition applies every set filter field.
func matchCompetition(c model.Competition, f CompetitionFilter) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(c.Location), strings.ToLower(f.Location)) {
		return false
	}
	if !f.DateFrom.IsZero() && c.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && c.Date.After(f.DateTo) {
		return false
	}
	if f.BoatType != "" && c.BoatType != f.BoatType {
		return false
	}
	if len(f.Lanes) > 0 && !containsInt(f.Lanes, c.Lanes) {
		return false
	}
	if len(f.LaneDistances) > 0 && !containsInt(f.LaneDistances, c.LaneDistance) {
		return false
	}
	if f.IsCancelled != nil && c.IsCancelled != *f.IsCancelled {
		return false
	}
	if f.IsLeague != nil && c.IsLeague != *f.IsLeague {
		return false
	}
	if f.IsChampionship != nil && c.IsChampionship != *f.IsChampionship {
		return false
	}
	if f.IsActive != nil && c.IsActive != *f.IsActive {
		return false
	}
	return true
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
