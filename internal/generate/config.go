package generate

import (
	"fmt"

	"github.com/tomitschek/crptrial/internal/domain"
)

// Default generation parameters.
const (
	DefaultNPerGroup    = 20
	DefaultBaselineMean = 5.0
	DefaultBaselineSD   = 2.0
	DefaultPeakTreated  = 150.0
	DefaultPeakControl  = 180.0
	DefaultDecayTreated = 0.5
	DefaultDecayControl = 0.3
	DefaultSeed         = 42
)

// Config controls synthetic cohort generation.
type Config struct {
	NPerGroup    int
	BaselineMean float64
	BaselineSD   float64
	PeakTreated  float64
	PeakControl  float64
	DecayTreated float64
	DecayControl float64
	Effects      domain.DayEffects
	Seed         int64
}

// DefaultConfig returns the stock configuration, including the default
// day-effect profile.
func DefaultConfig() Config {
	return Config{
		NPerGroup:    DefaultNPerGroup,
		BaselineMean: DefaultBaselineMean,
		BaselineSD:   DefaultBaselineSD,
		PeakTreated:  DefaultPeakTreated,
		PeakControl:  DefaultPeakControl,
		DecayTreated: DefaultDecayTreated,
		DecayControl: DefaultDecayControl,
		Effects:      domain.DefaultDayEffects(),
		Seed:         DefaultSeed,
	}
}

// Validate checks the configuration before any random draw happens.
func (c Config) Validate() error {
	if c.NPerGroup < 1 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("n per group must be positive, got %d", c.NPerGroup)}
	}
	if c.BaselineSD < 0 {
		return &domain.ConfigurationError{Reason: fmt.Sprintf("baseline sd must be non-negative, got %g", c.BaselineSD)}
	}
	return c.Effects.Validate()
}
