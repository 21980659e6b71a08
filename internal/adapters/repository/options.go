package repository

import (
	"github.com/okian/regata/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCompetitions seeds the store with competitions. Missing ids are
// assigned on load.
func WithCompetitions(comps ...model.Competition) Option {
	return func(s *MemoryStore) {
		for _, c := range comps {
			s.seedCompetition(c)
		}
	}
}

// WithResults seeds the store with results. Missing ids are assigned on load.
func WithResults(results ...model.Result) Option {
	return func(s *MemoryStore) {
		for _, r := range results {
			s.seedResult(r)
		}
	}
}

// WithTeams seeds the store with teams. Missing ids are assigned on load.
func WithTeams(teams ...model.Team) Option {
	return func(s *MemoryStore) {
		for _, t := range teams {
			s.seedTeam(t)
		}
	}
}
