// Package career folds championship placements and league standings across
// all known seasons into one team's historical record (its palmarès).
//
// Team lookup here matches on slug alone and does not disambiguate crews by
// team number. That mirrors the podium sheets, where a club appears once per
// category; it is a deliberate simplification of the composite identity the
// league fold uses.
package career

import (
	"sort"

	"github.com/okian/regata/internal/domain/league"
	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/ranking"
)

// Achievement is one entry in a team's record: a competition (or league
// table) name, the category, and the team's 1-based position in it.
type Achievement struct {
	Competition string `json:"competition"`
	Category    string `json:"category"`
	Position    int    `json:"position"`
}

// Builder assembles career records.
type Builder struct {
	leagues *league.Builder
}

// NewBuilder creates a Builder that derives league positions with lb.
func NewBuilder(lb *league.Builder) *Builder {
	return &Builder{leagues: lb}
}

// Build assembles the year-keyed record for teamSlug.
//
// competitions and results are the full known sets; years is every season
// with at least one competition. Championship placements come from podium
// (raw-time) rankings; league positions from a full points-descending sort of
// each season's tables, zero-point teams included. Years where the team
// appears nowhere are omitted. Empty inputs yield an empty map, not an error.
func (b *Builder) Build(teamSlug string, competitions []model.Competition, results []model.Result, years []int) (map[int][]Achievement, error) {
	record := make(map[int][]Achievement)

	byCompetition := make(map[string][]model.Result, len(competitions))
	for _, r := range results {
		byCompetition[r.CompetitionID] = append(byCompetition[r.CompetitionID], r)
	}

	for _, comp := range competitions {
		if !comp.IsChampionship {
			continue
		}
		grouped, order := groupByCategory(byCompetition[comp.ID])
		for _, category := range order {
			ordered, err := ranking.RankByTime(grouped[category])
			if err != nil {
				return nil, err
			}
			for i, res := range ordered {
				if res.TeamSlug != teamSlug {
					continue
				}
				record[comp.Year()] = append(record[comp.Year()], Achievement{
					Competition: comp.Name,
					Category:    category,
					Position:    i + 1,
				})
				break
			}
		}
	}

	for _, year := range years {
		tables, err := b.leagueTables(year, competitions, results)
		if err != nil {
			return nil, err
		}
		for _, table := range tables {
			standings := sortStandings(table.Standings)
			for i, st := range standings {
				if st.TeamSlug != teamSlug {
					continue
				}
				record[year] = append(record[year], Achievement{
					Competition: string(table.BoatType),
					Category:    table.Category,
					Position:    i + 1,
				})
				break
			}
		}
	}

	return record, nil
}

// leagueTables computes the league tables for one season, treating a season
// with nothing scored as simply absent rather than an error.
func (b *Builder) leagueTables(year int, competitions []model.Competition, results []model.Result) ([]league.Table, error) {
	var comps []model.Competition
	ids := make(map[string]bool)
	for _, c := range competitions {
		if c.IsLeague && c.Year() == year {
			comps = append(comps, c)
			ids[c.ID] = true
		}
	}

	var scoped []model.Result
	for _, r := range results {
		if r.IsValid && ids[r.CompetitionID] {
			scoped = append(scoped, r)
		}
	}

	if len(comps) == 0 || len(scoped) == 0 {
		return nil, nil
	}
	return b.leagues.Build(year, comps, scoped)
}

// sortStandings orders a copy of standings by points descending with an
// explicit tie-break: team slug ascending, then team number ascending. The
// tie-break is a stated contract, not an accident of sort stability.
func sortStandings(in []league.TeamStanding) []league.TeamStanding {
	out := make([]league.TeamStanding, len(in))
	copy(out, in)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].TeamSlug != out[j].TeamSlug {
			return out[i].TeamSlug < out[j].TeamSlug
		}
		return out[i].TeamNumber < out[j].TeamNumber
	})
	return out
}

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
