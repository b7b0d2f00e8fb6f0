package generate

import (
	"math/rand"

	"github.com/tomitschek/crptrial/internal/domain"
)

// Generate builds the tidy dataset for one seeded run: 2·NPerGroup patients,
// one observation per patient per day. The random source is seeded exactly
// once here and shared by the allocator and the simulator; patients are
// simulated in allocation order with the first NPerGroup assigned to the
// treated arm, and each patient's days run in ascending order.
func Generate(cfg Config) (*domain.Dataset, []domain.Patient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	ids := NewAllocator(rng).Allocate(2 * cfg.NPerGroup)
	sim := NewSimulator(rng, cfg.Effects)

	patients := make([]domain.Patient, 0, len(ids))
	observations := make([]domain.Observation, 0, len(ids)*domain.DaysPerPatient)

	for idx, id := range ids {
		p := domain.Patient{ID: id, Group: domain.GroupControl}
		if idx < cfg.NPerGroup {
			p.Group = domain.GroupTreated
		}

		// Per-patient draws happen before any of the patient's days.
		p.Baseline = rng.NormFloat64()*cfg.BaselineSD + cfg.BaselineMean
		p.IndividualVariation = rng.NormFloat64() * individualVariationSD

		if p.Group == domain.GroupTreated {
			p.Peak, p.Decay = cfg.PeakTreated, cfg.DecayTreated
		} else {
			p.Peak, p.Decay = cfg.PeakControl, cfg.DecayControl
		}

		for day := domain.DayMin; day <= domain.DayMax; day++ {
			observations = append(observations, domain.Observation{
				PatientID: p.ID,
				Group:     p.Group,
				Day:       day,
				CRP:       sim.Simulate(p, day),
			})
		}
		patients = append(patients, p)
	}

	return &domain.Dataset{Observations: observations}, patients, nil
}

// individualVariationSD spreads whole trajectories up or down per patient,
// independent of group.
const individualVariationSD = 35.0
