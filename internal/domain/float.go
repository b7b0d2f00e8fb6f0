package domain

import (
	"math"
	"strconv"
)

// Float is a float64 that marshals NaN and infinities as JSON null.
// Degraded statistics are recorded as NaN (skipped comparisons, empty
// groups), and those travel through the run store and the API as null.
type Float float64

// NaN returns a missing Float value.
func NaN() Float {
	return Float(math.NaN())
}

// IsNaN reports whether the value is missing.
func (f Float) IsNaN() bool {
	return math.IsNaN(float64(f))
}

func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NaN()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*f = Float(v)
	return nil
}
