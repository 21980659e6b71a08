// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	repository "github.com/okian/regata/internal/adapters/repository"
)

// ResultsHandler handles raw and ranked result requests.
type ResultsHandler struct {
	deps        Dependencies
	cacheMaxAge int
	maxBatch    int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies, cacheMaxAge, maxBatch int) *ResultsHandler {
	return &ResultsHandler{deps: deps, cacheMaxAge: cacheMaxAge, maxBatch: maxBatch}
}

// HandleLeague handles GET /results/league/{year}.
func (h *ResultsHandler) HandleLeague(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("year must be a positive integer"))
		return
	}
	tables, err := h.deps.BuildLeague(r.Context(), year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// HandleByCompetition handles GET /results/{id}.
func (h *ResultsHandler) HandleByCompetition(w http.ResponseWriter, r *http.Request) {
	results, err := h.deps.ResultsByCompetition(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, results)
}

// HandleByCategory handles GET /results/{id}/category/{category}.
func (h *ResultsHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	results, err := h.deps.ResultsByCompetitionAndCategory(r.Context(), vars["id"], vars["category"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, results)
}

// HandleRanked handles GET /results/{id}/category/{category}/ranked.
func (h *ResultsHandler) HandleRanked(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ranked, err := h.deps.RankResults(r.Context(), vars["id"], vars["category"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, ranked)
}

// resultRequest mirrors the ingest payload for one entry.
type resultRequest struct {
	TeamSlug   string `json:"team_slug"`
	TeamNumber int    `json:"team_number"`
	Time       string `json:"time"`
	Group      *int   `json:"group"`
	IsFinal    bool   `json:"is_final"`
	IsValid    *bool  `json:"is_valid"`
}

func (e resultRequest) validate() error {
	switch {
	case strings.TrimSpace(e.TeamSlug) == "":
		return errors.New("missing team_slug")
	case strings.TrimSpace(e.Time) == "":
		return errors.New("missing time")
	case e.TeamNumber < 0:
		return errors.New("team_number must not be negative")
	case e.Group != nil && *e.Group < 0:
		return errors.New("group must not be negative")
	}
	return nil
}

// HandleInsert handles POST /results/{id}/category/{category} with a JSON
// array of entries. Group defaults to 0 and validity to true.
func (h *ResultsHandler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	var reqs []resultRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if len(reqs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("empty result batch"))
		return
	}
	if h.maxBatch > 0 && len(reqs) > h.maxBatch {
		writeError(w, http.StatusBadRequest, "batch_exceeded", errors.New("result batch too large"))
		return
	}

	entries := make([]repository.ResultEntry, 0, len(reqs))
	for _, req := range reqs {
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		entry := repository.ResultEntry{
			TeamSlug:   req.TeamSlug,
			TeamNumber: req.TeamNumber,
			Time:       req.Time,
			IsFinal:    req.IsFinal,
			IsValid:    true,
		}
		if req.Group != nil {
			entry.Group = *req.Group
		}
		if req.IsValid != nil {
			entry.IsValid = *req.IsValid
		}
		entries = append(entries, entry)
	}

	vars := mux.Vars(r)
	stored, err := h.deps.InsertResults(r.Context(), vars["id"], vars["category"], entries)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}
