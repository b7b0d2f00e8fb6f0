package generate

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/tomitschek/crptrial/internal/domain"
)

func TestGenerateSchemaInvariants(t *testing.T) {
	cfg := DefaultConfig()
	ds, patients, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	wantRows := 2 * cfg.NPerGroup * domain.DaysPerPatient
	if ds.Len() != wantRows {
		t.Fatalf("rows = %d, want %d", ds.Len(), wantRows)
	}
	if len(patients) != 2*cfg.NPerGroup {
		t.Fatalf("patients = %d, want %d", len(patients), 2*cfg.NPerGroup)
	}

	seen := make(map[string]bool)
	for _, o := range ds.Observations {
		if o.Day < domain.DayMin || o.Day > domain.DayMax {
			t.Fatalf("day %d outside window", o.Day)
		}
		if o.CRP <= 0 {
			t.Fatalf("crp %g is not positive (patient %d day %d)", o.CRP, o.PatientID, o.Day)
		}
		if !o.Group.Valid() {
			t.Fatalf("invalid group %q", o.Group)
		}
		key := fmt.Sprintf("%d/%d", o.PatientID, o.Day)
		if seen[key] {
			t.Fatalf("duplicate (patient, day) pair %s", key)
		}
		seen[key] = true
	}
}

func TestGenerateReproducible(t *testing.T) {
	cfg := DefaultConfig()

	first, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Len() != second.Len() {
		t.Fatalf("row counts differ: %d vs %d", first.Len(), second.Len())
	}
	for i := range first.Observations {
		if first.Observations[i] != second.Observations[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, first.Observations[i], second.Observations[i])
		}
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	cfg := DefaultConfig()
	first, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cfg.Seed = 7
	second, _, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	identical := true
	for i := range first.Observations {
		if first.Observations[i].CRP != second.Observations[i].CRP {
			identical = false
			break
		}
	}
	if identical {
		t.Fatal("different seeds produced identical CRP values")
	}
}

func TestGenerateGroupAssignment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NPerGroup = 5
	_, patients, err := Generate(cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for i, p := range patients {
		want := domain.GroupControl
		if i < cfg.NPerGroup {
			want = domain.GroupTreated
		}
		if p.Group != want {
			t.Fatalf("patient %d group = %q, want %q", i, p.Group, want)
		}
		if p.Group == domain.GroupTreated && (p.Peak != cfg.PeakTreated || p.Decay != cfg.DecayTreated) {
			t.Fatalf("treated patient has peak/decay %g/%g", p.Peak, p.Decay)
		}
		if p.Group == domain.GroupControl && (p.Peak != cfg.PeakControl || p.Decay != cfg.DecayControl) {
			t.Fatalf("control patient has peak/decay %g/%g", p.Peak, p.Decay)
		}
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero patients", mutate: func(c *Config) { c.NPerGroup = 0 }},
		{name: "negative baseline sd", mutate: func(c *Config) { c.BaselineSD = -1 }},
		{name: "effect day outside window", mutate: func(c *Config) { c.Effects = domain.DayEffects{8: 10} }},
		{name: "negative effect magnitude", mutate: func(c *Config) { c.Effects = domain.DayEffects{5: -10} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, _, err := Generate(cfg)
			var cfgErr *domain.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error = %v, want *ConfigurationError", err)
			}
		})
	}
}

func TestAllocatorFormatAndUniqueness(t *testing.T) {
	alloc := NewAllocator(rand.New(rand.NewSource(1)))
	ids := alloc.Allocate(500)

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id < 64000000 || id > 64999999 {
			t.Fatalf("id %d outside the 64xxxxxx range", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestSimulatorDayEffectSeparation(t *testing.T) {
	// With a single large day-5 effect the treated arm mean on day 5 must
	// sit clearly below the control arm mean. This is a statistical
	// property, so it is checked over many reseeded runs rather than once.
	const runs = 50
	lower := 0
	for seed := int64(1); seed <= runs; seed++ {
		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.Effects = domain.DayEffects{5: 50}
		ds, _, err := Generate(cfg)
		if err != nil {
			t.Fatalf("Generate(seed=%d): %v", seed, err)
		}
		treated, control := ds.CRPByGroup(5)
		if mean(treated) < mean(control) {
			lower++
		}
	}
	if lower < runs*8/10 {
		t.Fatalf("treated mean below control mean in only %d/%d runs", lower, runs)
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
