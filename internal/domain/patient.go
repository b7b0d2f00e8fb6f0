package domain

// Group labels a trial arm.
type Group string

const (
	GroupTreated Group = "treated"
	GroupControl Group = "control"
)

// Valid reports whether g is one of the two known arms.
func (g Group) Valid() bool {
	return g == GroupTreated || g == GroupControl
}

// Patient holds the identity and latent parameters of one simulated patient.
// All fields are drawn or assigned once at cohort creation and never change.
type Patient struct {
	ID    int64
	Group Group

	// Latent trajectory parameters. Baseline and IndividualVariation are
	// drawn per patient; Peak and Decay are functions of the group.
	Baseline            float64
	IndividualVariation float64
	Peak                float64
	Decay               float64
}
