package domain

import "time"

// Run records one generated cohort: its identity, when it was produced, and
// the generation parameters needed to reproduce it.
type Run struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Seed      int64      `json:"seed"`
	NPerGroup int        `json:"n_per_group"`
	Effects   DayEffects `json:"day_effects"`
}
