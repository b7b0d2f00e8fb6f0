package domain

import "math"

// Observation window: measurements are taken daily on days 0 through 7.
const (
	DayMin         = 0
	DayMax         = 7
	DaysPerPatient = DayMax - DayMin + 1
)

// Observation is one (patient, day) measurement. CRP is NaN when the value
// is missing, which only happens in loaded datasets, never in generated ones.
type Observation struct {
	PatientID int64
	Group     Group
	Day       int
	CRP       float64
}

// Missing reports whether the CRP value is absent.
func (o Observation) Missing() bool {
	return math.IsNaN(o.CRP)
}
