package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DayEffects maps an observation day to a systematic mean separation applied
// between the arms on that day. Entries with magnitude zero are kept but
// inert: Active skips them explicitly rather than treating them as an error.
type DayEffects map[int]float64

// DefaultDayEffects returns the stock effect profile: separation ramps up
// from day 3, peaks on day 5, and eases off through day 7.
func DefaultDayEffects() DayEffects {
	return DayEffects{3: 15, 4: 25, 5: 35, 6: 30, 7: 20}
}

// ParseDayEffects parses a "day:magnitude,day:magnitude" flag value.
// An empty string yields an empty mapping.
func ParseDayEffects(s string) (DayEffects, error) {
	effects := DayEffects{}
	s = strings.TrimSpace(s)
	if s == "" {
		return effects, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("day effect %q is not day:magnitude", pair)}
		}
		day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("day effect %q has a non-integer day", pair)}
		}
		magnitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("day effect %q has a non-numeric magnitude", pair)}
		}
		effects[day] = magnitude
	}
	if err := effects.Validate(); err != nil {
		return nil, err
	}
	return effects, nil
}

// Validate rejects days outside the observation window and negative
// magnitudes. Zero magnitudes are allowed and skipped at application time.
func (e DayEffects) Validate() error {
	for day, magnitude := range e {
		if day < DayMin || day > DayMax {
			return &ConfigurationError{Reason: fmt.Sprintf("day effect day %d outside window [%d, %d]", day, DayMin, DayMax)}
		}
		if magnitude < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("day effect for day %d has negative magnitude %g", day, magnitude)}
		}
	}
	return nil
}

// Active returns the magnitude for a day, skipping absent and non-positive
// entries.
func (e DayEffects) Active(day int) (float64, bool) {
	magnitude, ok := e[day]
	if !ok || magnitude <= 0 {
		return 0, false
	}
	return magnitude, true
}

// String renders the mapping in flag syntax, days ascending.
func (e DayEffects) String() string {
	days := make([]int, 0, len(e))
	for day := range e {
		days = append(days, day)
	}
	sort.Ints(days)
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, fmt.Sprintf("%d:%g", day, e[day]))
	}
	return strings.Join(parts, ",")
}
