package domain

import "sort"

// Dataset is a tidy observation table: one row per (patient, day) pair.
type Dataset struct {
	Observations []Observation
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Observations)
}

// Days returns the distinct days present, ascending.
func (d *Dataset) Days() []int {
	seen := make(map[int]struct{})
	for _, o := range d.Observations {
		seen[o.Day] = struct{}{}
	}
	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// ByPatient groups observations per patient, each trajectory sorted by day.
func (d *Dataset) ByPatient() map[int64][]Observation {
	byPatient := make(map[int64][]Observation)
	for _, o := range d.Observations {
		byPatient[o.PatientID] = append(byPatient[o.PatientID], o)
	}
	for id := range byPatient {
		traj := byPatient[id]
		sort.Slice(traj, func(i, j int) bool { return traj[i].Day < traj[j].Day })
		byPatient[id] = traj
	}
	return byPatient
}

// PatientIDs returns the distinct patient identifiers, ascending.
func (d *Dataset) PatientIDs() []int64 {
	seen := make(map[int64]struct{})
	for _, o := range d.Observations {
		seen[o.PatientID] = struct{}{}
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GroupOf returns the arm a patient belongs to. The group is constant across
// a patient's rows, so the first row wins.
func (d *Dataset) GroupOf(patientID int64) (Group, bool) {
	for _, o := range d.Observations {
		if o.PatientID == patientID {
			return o.Group, true
		}
	}
	return "", false
}

// CRPByGroup splits non-missing CRP values for one day into the two arms.
func (d *Dataset) CRPByGroup(day int) (treated, control []float64) {
	for _, o := range d.Observations {
		if o.Day != day || o.Missing() {
			continue
		}
		switch o.Group {
		case GroupTreated:
			treated = append(treated, o.CRP)
		case GroupControl:
			control = append(control, o.CRP)
		}
	}
	return treated, control
}
