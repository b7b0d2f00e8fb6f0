package domain

// NormalCRPThreshold is the clinical cutoff below which CRP counts as
// normalized.
const NormalCRPThreshold = 100.0

// DaysToNormalize returns the first day of a patient's trajectory where CRP
// drops below NormalCRPThreshold. The second return is false when the
// threshold is never reached. Missing values never count as normalized.
func DaysToNormalize(trajectory []Observation) (int, bool) {
	day := 0
	found := false
	for _, o := range trajectory {
		if o.Missing() || o.CRP >= NormalCRPThreshold {
			continue
		}
		if !found || o.Day < day {
			day = o.Day
			found = true
		}
	}
	return day, found
}
