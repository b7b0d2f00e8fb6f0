package generate

import (
	"math"
	"math/rand"

	"github.com/tomitschek/crptrial/internal/domain"
)

// Trajectory phase constants. CRP rises linearly from baseline to the
// group peak through riseEndDay, then decays exponentially.
const (
	riseEndDay = 2

	baselineNoiseSD   = 15.0
	riseNoiseFactor   = 0.3
	decayNoiseFactor  = 0.35
	effectNoiseFactor = 0.3

	minCRPBase  = 0.5
	minCRPScale = 0.5
)

// Simulator produces one CRP value per (patient, day) call. It is stateless
// apart from the shared random source, and its draw order per call is fixed:
// the day-0 floor then the phase noise, the day-effect draw when one is
// configured for the day, and finally the per-observation floor. Callers must
// iterate patients in the outer loop and days in the inner loop for a run to
// be reproducible from its seed.
type Simulator struct {
	rng     *rand.Rand
	effects domain.DayEffects
}

// NewSimulator creates a simulator drawing from rng.
func NewSimulator(rng *rand.Rand, effects domain.DayEffects) *Simulator {
	return &Simulator{rng: rng, effects: effects}
}

// Simulate returns the CRP value for one day of a patient's trajectory.
func (s *Simulator) Simulate(p domain.Patient, day int) float64 {
	var crp float64
	if day == domain.DayMin {
		crp = math.Max(s.minCRP(), p.Baseline+s.normal(0, baselineNoiseSD))
	} else if day <= riseEndDay {
		progress := float64(day) / float64(riseEndDay)
		base := p.Baseline + (p.Peak-p.Baseline)*progress
		crp = base + s.normal(0, base*riseNoiseFactor)
		crp += p.IndividualVariation
	} else {
		base := p.Peak * math.Exp(-p.Decay*float64(day-riseEndDay))
		crp = base + s.normal(0, base*decayNoiseFactor)
		crp += p.IndividualVariation
	}

	// The treated arm is shifted down by the full effect plus noise; the
	// control arm receives the noise only. The asymmetry produces a mean
	// separation of about the effect magnitude while keeping the variance
	// of the two arms comparable.
	if effect, ok := s.effects.Active(day); ok {
		randomEffect := s.normal(0, effect*effectNoiseFactor)
		if p.Group == domain.GroupTreated {
			crp -= effect + randomEffect
		} else {
			crp += randomEffect
		}
	}

	return round2(math.Max(s.minCRP(), crp))
}

// minCRP draws a fresh positive floor for a single observation, so no value
// is ever exactly zero.
func (s *Simulator) minCRP() float64 {
	return minCRPBase + s.rng.ExpFloat64()*minCRPScale
}

func (s *Simulator) normal(mean, sd float64) float64 {
	return s.rng.NormFloat64()*sd + mean
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
