// Package ranking orders the results of a single competition category.
package ranking

import (
	"sort"

	"github.com/okian/regata/internal/domain/model"
	"github.com/okian/regata/internal/domain/racetime"
)

// Rank orders results for one (competition, category) pair.
//
// Eligible entries (valid flag set and a finite time) are sorted with the
// group as primary key: higher-numbered heats rank first (the last heat
// seeds the strongest crews), and within a heat the faster crew wins. Heats
// never interleave by raw time. Ties keep input order. Ineligible entries
// (invalid flag, DNS or DNF) go after every eligible one in their original
// relative order, whatever their group.
//
// A single malformed time aborts the whole batch; there is no partial
// ranking. Positions are the caller's to derive from index.
func Rank(results []model.Result) ([]model.Result, error) {
	type timed struct {
		res model.Result
		ms  racetime.Millis
	}

	eligible := make([]timed, 0, len(results))
	ineligible := make([]model.Result, 0)

	for _, r := range results {
		ms, finite, err := racetime.Parse(r.Time)
		if err != nil {
			return nil, err
		}
		if r.IsValid && finite {
			eligible = append(eligible, timed{res: r, ms: ms})
			continue
		}
		ineligible = append(ineligible, r)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].res.Group != eligible[j].res.Group {
			return eligible[i].res.Group > eligible[j].res.Group
		}
		return eligible[i].ms < eligible[j].ms
	})

	ordered := make([]model.Result, 0, len(results))
	for _, t := range eligible {
		ordered = append(ordered, t.res)
	}
	return append(ordered, ineligible...), nil
}

// RankByTime orders results by raw time only, ignoring groups. This is the
// podium comparator used for championship placements, where heats have
// already been folded into finals and only the clock matters. Ineligible
// entries trail in input order, as in Rank.
func RankByTime(results []model.Result) ([]model.Result, error) {
	type timed struct {
		res model.Result
		ms  racetime.Millis
	}

	eligible := make([]timed, 0, len(results))
	ineligible := make([]model.Result, 0)

	for _, r := range results {
		ms, finite, err := racetime.Parse(r.Time)
		if err != nil {
			return nil, err
		}
		if r.IsValid && finite {
			eligible = append(eligible, timed{res: r, ms: ms})
			continue
		}
		ineligible = append(ineligible, r)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].ms < eligible[j].ms
	})

	ordered := make([]model.Result, 0, len(results))
	for _, t := range eligible {
		ordered = append(ordered, t.res)
	}
	return append(ordered, ineligible...), nil
}

// Positions wraps an ordered slice with 1-based positions.
func Positions(ordered []model.Result) []model.RankedResult {
	ranked := make([]model.RankedResult, len(ordered))
	for i, r := range ordered {
		ranked[i] = model.RankedResult{Result: r, Position: i + 1}
	}
	return ranked
}
