// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	repository "github.com/okian/regata/internal/adapters/repository"
	"github.com/okian/regata/internal/domain/model"
)

// CompetitionsHandler handles competition requests.
type CompetitionsHandler struct {
	deps        Dependencies
	cacheMaxAge int
}

// NewCompetitionsHandler creates a new competitions handler.
func NewCompetitionsHandler(deps Dependencies, cacheMaxAge int) *CompetitionsHandler {
	return &CompetitionsHandler{deps: deps, cacheMaxAge: cacheMaxAge}
}

// HandleFind handles GET /competitions with optional query filters.
func (h *CompetitionsHandler) HandleFind(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	comps, err := h.deps.FindCompetitions(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, comps)
}

// HandleUpcoming handles GET /competitions/upcoming: the rest of the current
// year's calendar.
func (h *CompetitionsHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	endOfYear := time.Date(now.Year(), time.December, 31, 23, 59, 59, 0, now.Location())
	comps, err := h.deps.FindCompetitions(r.Context(), repository.CompetitionFilter{
		DateFrom: now,
		DateTo:   endOfYear,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comps)
}

// HandleYears handles GET /competitions/years.
func (h *CompetitionsHandler) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.deps.Years(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, years)
}

// HandleByYear handles GET /competitions/years/{year}.
func (h *CompetitionsHandler) HandleByYear(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("year must be a positive integer"))
		return
	}
	comps, err := h.deps.FindCompetitions(r.Context(), repository.CompetitionFilter{
		DateFrom: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, comps)
}

// HandleBySlug handles GET /competitions/{slug}.
func (h *CompetitionsHandler) HandleBySlug(w http.ResponseWriter, r *http.Request) {
	comp, err := h.deps.CompetitionBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, comp)
}

// competitionRequest mirrors the create payload.
type competitionRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Location       string `json:"location"`
	Date           string `json:"date"`
	BoatType       string `json:"boat_type"`
	Lanes          int    `json:"lanes"`
	LaneDistance   int    `json:"lane_distance"`
	IsCancelled    bool   `json:"is_cancelled"`
	IsLeague       bool   `json:"is_league"`
	IsChampionship bool   `json:"is_championship"`
	IsActive       *bool  `json:"is_active"`
}

func (c competitionRequest) validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(c.Slug) == "":
		return errors.New("missing slug")
	case strings.TrimSpace(c.Date) == "":
		return errors.New("missing date")
	case c.Lanes <= 0:
		return errors.New("lanes must be positive")
	case c.LaneDistance <= 0:
		return errors.New("lane_distance must be positive")
	}
	if _, err := time.Parse(time.RFC3339, c.Date); err != nil {
		return errors.New("invalid date; must be RFC3339")
	}
	switch model.BoatType(c.BoatType) {
	case model.BoatBatel, model.BoatLlautMed, model.BoatLlagutCat:
		return nil
	default:
		return errors.New("unknown boat_type")
	}
}

// HandleCreate handles POST /competitions.
func (h *CompetitionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req competitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	date, _ := time.Parse(time.RFC3339, req.Date)
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	comp, err := h.deps.CreateCompetition(r.Context(), model.Competition{
		Name:           req.Name,
		Slug:           req.Slug,
		Location:       req.Location,
		Date:           date,
		BoatType:       model.BoatType(req.BoatType),
		Lanes:          req.Lanes,
		LaneDistance:   req.LaneDistance,
		IsCancelled:    req.IsCancelled,
		IsLeague:       req.IsLeague,
		IsChampionship: req.IsChampionship,
		IsActive:       active,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comp)
}

// filterFromQuery builds a store filter out of the request's query string.
func filterFromQuery(r *http.Request) (repository.CompetitionFilter, error) {
	q := r.URL.Query()
	filter := repository.CompetitionFilter{
		Name:     q.Get("name"),
		Location: q.Get("location"),
		BoatType: model.BoatType(q.Get("boat_type")),
	}

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid date_from; must be RFC3339")
		}
		filter.DateFrom = t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("invalid date_to; must be RFC3339")
		}
		filter.DateTo = t
	}

	for _, v := range q["lanes"] {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return filter, errors.New("lanes must be positive integers")
		}
		filter.Lanes = append(filter.Lanes, n)
	}
	for _, v := range q["line_distance"] {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return filter, errors.New("line_distance must be positive integers")
		}
		filter.LaneDistances = append(filter.LaneDistances, n)
	}

	for key, dst := range map[string]**bool{
		"is_cancelled":    &filter.IsCancelled,
		"is_league":       &filter.IsLeague,
		"is_championship": &filter.IsChampionship,
		"is_active":       &filter.IsActive,
	} {
		if v := q.Get(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return filter, errors.New(key + " must be a boolean")
			}
			*dst = &b
		}
	}
	return filter, nil
}
