// Package league folds a season's competition results into cumulative
// per-boat-type, per-category standings.
package league

import (
	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/ranking"
)

const defaultBasePoints = 20

// TeamStanding is one team's accumulated points within a table. Identity is
// the composite (slug, number) key since a club may field several crews.
type TeamStanding struct {
	TeamSlug   string `json:"team_slug"`
	TeamNumber int    `json:"team_number"`
	Points     int    `json:"points"`
}

// Table is the league standing for one (boat type, category) pair. Standings
// arrive in first-seen order; sorting by points is the consumer's job.
type Table struct {
	BoatType  model.BoatType `json:"boat_type"`
	Category  string         `json:"category"`
	Standings []TeamStanding `json:"standings"`
}

type tableKey struct {
	boatType model.BoatType
	category string
}

type teamKey struct {
	slug   string
	number int
}

// Builder aggregates league tables for a season.
type Builder struct {
	basePoints int
}

// NewBuilder creates a Builder with default scoring.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{basePoints: defaultBasePoints}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build computes the league tables for one season.
//
// competitions must be pre-filtered to league competitions overlapping the
// season; results to valid results belonging to them. An empty set on either
// side is a not-found condition (ErrNoCompetitions / ErrNoResults).
//
// Per competition, results are grouped by category (first-seen order), each
// category ranked, and points awarded from basePoints downward, floored at
// zero. Points accumulate across competitions keyed by
// (boat type, category, team slug, team number); tables come back in
// first-seen order with standings unsorted.
func (b *Builder) Build(year int, competitions []model.Competition, results []model.Result) ([]Table, error) {
	_ = year // the inputs are already season-scoped; kept for the query contract

	if len(competitions) == 0 {
		return nil, ErrNoCompetitions
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	byCompetition := make(map[string][]model.Result, len(competitions))
	for _, r := range results {
		byCompetition[r.CompetitionID] = append(byCompetition[r.CompetitionID], r)
	}

	var (
		tables     []Table
		tableIndex = make(map[tableKey]int)
		standings  = make(map[tableKey]map[teamKey]int) // team -> index into Standings
	)

	for _, comp := range competitions {
		categories, order := groupByCategory(byCompetition[comp.ID])

		for _, category := range order {
			ordered, err := ranking.Rank(categories[category])
			if err != nil {
				return nil, err
			}

			tk := tableKey{boatType: comp.BoatType, category: category}
			ti, ok := tableIndex[tk]
			if !ok {
				ti = len(tables)
				tables = append(tables, Table{BoatType: comp.BoatType, Category: category})
				tableIndex[tk] = ti
				standings[tk] = make(map[teamKey]int)
			}

			points := b.basePoints
			for _, res := range ordered {
				key := teamKey{slug: res.TeamSlug, number: res.TeamNumber}
				if si, seen := standings[tk][key]; seen {
					tables[ti].Standings[si].Points += points
				} else {
					standings[tk][key] = len(tables[ti].Standings)
					tables[ti].Standings = append(tables[ti].Standings, TeamStanding{
						TeamSlug:   res.TeamSlug,
						TeamNumber: res.TeamNumber,
						Points:     points,
					})
				}
				if points > 0 {
					points--
				}
			}
		}
	}

	return tables, nil
}

// groupByCategory splits results by category label, preserving the order in
// which categories first appear.
func groupByCategory(results []model.Result) (map[string][]model.Result, []string) {
	grouped := make(map[string][]model.Result)
	var order []string
	for _, r := range results {
		if _, ok := grouped[r.Category]; !ok {
			order = append(order, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}
	return grouped, order
}
