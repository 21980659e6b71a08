// Package racetime parses raced time strings into totally ordered durations.
//
// Times come off the finish-line sheets as "minutes:seconds:milliseconds"
// (e.g. "7:15:230"). Two reserved tokens, "DNS" and "DNF", mark crews that
// never produced a finite time; they map to a sentinel that sorts after every
// finite duration.
package racetime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Millis is a race duration in integer milliseconds.
type Millis int64

// Infinite is the sentinel for DNS/DNF entries. It compares greater than any
// finite duration.
const Infinite Millis = math.MaxInt64

// Reserved non-finishing tokens.
const (
	DidNotStart  = "DNS"
	DidNotFinish = "DNF"
)

// ErrMalformedTime is the kind for inputs that fail the time grammar.
// Callers match it with errors.Is.
var ErrMalformedTime = errors.New("malformed race time")

const (
	timeParts    = 3
	millisPerSec = 1000
	millisPerMin = 60 * millisPerSec
)

// Parse converts text into a duration. It returns finite=false for the
// reserved DNS/DNF tokens and finite=true for well-formed times. Any other
// input is rejected with an ErrMalformedTime wrap; nothing is coerced.
func Parse(text string) (Millis, bool, error) {
	if text == DidNotStart || text == DidNotFinish {
		return Infinite, false, nil
	}

	parts := strings.Split(text, ":")
	if len(parts) != timeParts {
		return 0, false, fmt.Errorf("%w: %q: want minutes:seconds:milliseconds", ErrMalformedTime, text)
	}

	var fields [timeParts]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%w: %q: component %q is not an integer", ErrMalformedTime, text, p)
		}
		if n < 0 {
			return 0, false, fmt.Errorf("%w: %q: negative component", ErrMalformedTime, text)
		}
		fields[i] = n
	}

	ms := Millis(fields[0]*millisPerMin + fields[1]*millisPerSec + fields[2])
	return ms, true, nil
}

// IsNonFinishing reports whether text is one of the reserved tokens without
// running the full grammar.
func IsNonFinishing(text string) bool {
	return text == DidNotStart || text == DidNotFinish
}
