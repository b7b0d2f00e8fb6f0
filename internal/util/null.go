package util

import (
	"database/sql"
	"math"
)

// NullCRP converts a CRP value to sql.NullFloat64.
// NaN marks a missing measurement and is stored as null.
func NullCRP(crp float64) sql.NullFloat64 {
	if math.IsNaN(crp) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: crp, Valid: true}
}

// CRPFromNull converts sql.NullFloat64 back to a CRP value.
// Null values are returned as NaN.
func CRPFromNull(nf sql.NullFloat64) float64 {
	if !nf.Valid {
		return math.NaN()
	}
	return nf.Float64
}
