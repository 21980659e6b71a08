// Package model contains domain models passed between layers.
package model

import "time"

// BoatType identifies the boat class a competition is rowed in.
type BoatType string

// Boat classes raced by the federation.
const (
	BoatBatel     BoatType = "BATEL"
	BoatLlautMed  BoatType = "LLAUT_MED"
	BoatLlagutCat BoatType = "LLAGUT_CAT"
)

// Competition describes a single regatta. Competitions are created by the
// persistence layer and are read-only to the aggregation core.
type Competition struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Location       string    `json:"location"`
	Date           time.Time `json:"date"`
	BoatType       BoatType  `json:"boat_type"`
	Lanes          int       `json:"lanes"`
	LaneDistance   int       `json:"lane_distance"` // meters per lane
	IsCancelled    bool      `json:"is_cancelled"`
	IsLeague       bool      `json:"is_league"`
	IsChampionship bool      `json:"is_championship"`
	IsActive       bool      `json:"is_active"`
}

// Year returns the season year the competition belongs to.
func (c Competition) Year() int {
	return c.Date.Year()
}

// Result is one crew's raced outcome within a competition category.
// A team may field several crews, distinguished by TeamNumber; Group is the
// heat/lane grouping, 0 meaning ungrouped or time-trial.
type Result struct {
	ID            string `json:"id"`
	CompetitionID string `json:"competition_id"`
	Category      string `json:"category"`
	TeamSlug      string `json:"team_slug"`
	TeamNumber    int    `json:"team_number"`
	Time          string `json:"time"` // "M:S:MS", or "DNS"/"DNF"
	Group         int    `json:"group"`
	IsFinal       bool   `json:"is_final"`
	IsValid       bool   `json:"is_valid"`
}

// RankedResult pairs a result with its 1-based position within its
// (competition, category) ranking. Derived on demand, never persisted.
type RankedResult struct {
	Result
	Position int `json:"position"`
}

// Team carries presentation metadata for a club. The ranking and aggregation
// logic never consults it.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Logo string `json:"logo,omitempty"`
}
