// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okian/regata/internal/domain/model"
)

// TeamsHandler handles team and palmares requests.
type TeamsHandler struct {
	deps        Dependencies
	cacheMaxAge int
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies, cacheMaxAge int) *TeamsHandler {
	return &TeamsHandler{deps: deps, cacheMaxAge: cacheMaxAge}
}

// HandleFindAll handles GET /teams.
func (h *TeamsHandler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, teams)
}

// HandleBySlug handles GET /teams/{slug}.
func (h *TeamsHandler) HandleBySlug(w http.ResponseWriter, r *http.Request) {
	team, err := h.deps.TeamBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	setCacheHeader(w, h.cacheMaxAge)
	writeJSON(w, http.StatusOK, team)
}

// HandlePalmares handles GET /teams/{slug}/palmares: the team's year-keyed
// achievement record.
func (h *TeamsHandler) HandlePalmares(w http.ResponseWriter, r *http.Request) {
	record, err := h.deps.BuildCareer(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// teamRequest mirrors the create payload.
type teamRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Logo string `json:"logo"`
}

func (t teamRequest) validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return errors.New("missing name")
	case strings.TrimSpace(t.Slug) == "":
		return errors.New("missing slug")
	}
	return nil
}

// HandleCreate handles POST /teams.
func (h *TeamsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	team, err := h.deps.CreateTeam(r.Context(), model.Team{
		Name: req.Name,
		Slug: req.Slug,
		Logo: req.Logo,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}
