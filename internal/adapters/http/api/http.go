// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	repository "github.com/okian/regata/internal/adapters/repository"
	"github.com/okian/regata/internal/domain/career"
	"github.com/okian/regata/internal/domain/league"
	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/racetime"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	RankResults(ctx context.Context, competitionID, category string) ([]model.RankedResult, error)
	BuildLeague(ctx context.Context, year int) ([]league.Table, error)
	BuildCareer(ctx context.Context, teamSlug string) (map[int][]career.Achievement, error)

	FindCompetitions(ctx context.Context, filter repository.CompetitionFilter) ([]model.Competition, error)
	CompetitionBySlug(ctx context.Context, slug string) (model.Competition, error)
	CompetitionByID(ctx context.Context, id string) (model.Competition, error)
	CreateCompetition(ctx context.Context, c model.Competition) (model.Competition, error)
	Years(ctx context.Context) ([]int, error)

	ResultsByCompetition(ctx context.Context, competitionID string) ([]model.Result, error)
	ResultsByCompetitionAndCategory(ctx context.Context, competitionID, category string) ([]model.Result, error)
	InsertResults(ctx context.Context, competitionID, category string, entries []repository.ResultEntry) ([]model.Result, error)

	Teams(ctx context.Context) ([]model.Team, error)
	TeamBySlug(ctx context.Context, slug string) (model.Team, error)
	CreateTeam(ctx context.Context, t model.Team) (model.Team, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	competitionsHandler *CompetitionsHandler
	resultsHandler      *ResultsHandler
	teamsHandler        *TeamsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, cacheMaxAge, maxBatch int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		competitionsHandler: NewCompetitionsHandler(deps, cacheMaxAge),
		resultsHandler:      NewResultsHandler(deps, cacheMaxAge, maxBatch),
		teamsHandler:        NewTeamsHandler(deps, cacheMaxAge),
	}
}

// Register attaches all HTTP routes to r. Static segments are registered
// before parameterized ones so /competitions/years never matches as a slug.
func (s *Server) Register(ctx context.Context, r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats")).Methods(http.MethodGet)

	r.HandleFunc("/competitions", MetricsMiddleware(s.competitionsHandler.HandleFind, "competitions")).Methods(http.MethodGet)
	r.HandleFunc("/competitions", MetricsMiddleware(s.competitionsHandler.HandleCreate, "competitions")).Methods(http.MethodPost)
	r.HandleFunc("/competitions/upcoming", MetricsMiddleware(s.competitionsHandler.HandleUpcoming, "competitions_upcoming")).Methods(http.MethodGet)
	r.HandleFunc("/competitions/years", MetricsMiddleware(s.competitionsHandler.HandleYears, "competitions_years")).Methods(http.MethodGet)
	r.HandleFunc("/competitions/years/{year}", MetricsMiddleware(s.competitionsHandler.HandleByYear, "competitions_by_year")).Methods(http.MethodGet)
	r.HandleFunc("/competitions/{slug}", MetricsMiddleware(s.competitionsHandler.HandleBySlug, "competition")).Methods(http.MethodGet)

	r.HandleFunc("/results/league/{year}", MetricsMiddleware(s.resultsHandler.HandleLeague, "league")).Methods(http.MethodGet)
	r.HandleFunc("/results/{id}", MetricsMiddleware(s.resultsHandler.HandleByCompetition, "results")).Methods(http.MethodGet)
	r.HandleFunc("/results/{id}/category/{category}", MetricsMiddleware(s.resultsHandler.HandleByCategory, "results_category")).Methods(http.MethodGet)
	r.HandleFunc("/results/{id}/category/{category}", MetricsMiddleware(s.resultsHandler.HandleInsert, "results_category")).Methods(http.MethodPost)
	r.HandleFunc("/results/{id}/category/{category}/ranked", MetricsMiddleware(s.resultsHandler.HandleRanked, "results_ranked")).Methods(http.MethodGet)

	r.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleFindAll, "teams")).Methods(http.MethodGet)
	r.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleCreate, "teams")).Methods(http.MethodPost)
	r.HandleFunc("/teams/{slug}", MetricsMiddleware(s.teamsHandler.HandleBySlug, "team")).Methods(http.MethodGet)
	r.HandleFunc("/teams/{slug}/palmares", MetricsMiddleware(s.teamsHandler.HandlePalmares, "palmares")).Methods(http.MethodGet)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps typed domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, racetime.ErrMalformedTime),
		errors.Is(err, repository.ErrInvalidGroup),
		errors.Is(err, repository.ErrInvalidLanes):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, league.ErrNoCompetitions),
		errors.Is(err, league.ErrNoResults),
		errors.Is(err, repository.ErrCompetitionNotFound),
		errors.Is(err, repository.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateSlug):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// setCacheHeader marks read responses cacheable for maxAge seconds.
func setCacheHeader(w http.ResponseWriter, maxAge int) {
	if maxAge > 0 {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
	}
}
