package league

import "errors"

// Sentinel kinds for league aggregation. Both are not-found conditions: a
// season with nothing scored is an error state for this query, never an
// empty table.
var (
	ErrNoCompetitions = errors.New("no league competitions found")
	ErrNoResults      = errors.New("no league results found")
)
