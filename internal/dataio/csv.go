// Package dataio reads and writes trial datasets in the tabular interchange
// formats: tidy CSV plus wide-format CSV and XLSX exports.
package dataio

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomitschek/crptrial/internal/domain"
)

var requiredColumns = []string{"patient_id", "group", "day", "crp"}

// Load reads a tidy dataset from a CSV file.
func Load(path string) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader reads a tidy dataset from CSV content. Column names are matched
// case-insensitively and may appear in any order; a missing column or a
// non-coercible value aborts the load with a SchemaError before any partial
// dataset is returned. Empty crp cells load as missing values.
func LoadReader(r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, &domain.SchemaError{Reason: fmt.Sprintf("cannot read header: %v", err)}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, column := range requiredColumns {
		if _, ok := index[column]; !ok {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("missing required column %q", column)}
		}
	}

	var observations []domain.Observation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("row %d: %v", line+1, err)}
		}
		line++

		patientID, err := strconv.ParseInt(strings.TrimSpace(record[index["patient_id"]]), 10, 64)
		if err != nil {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("row %d: patient_id %q is not an integer", line, record[index["patient_id"]])}
		}
		group := domain.Group(strings.ToLower(strings.TrimSpace(record[index["group"]])))
		if !group.Valid() {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("row %d: unknown group %q", line, record[index["group"]])}
		}
		day, err := strconv.Atoi(strings.TrimSpace(record[index["day"]]))
		if err != nil {
			return nil, &domain.SchemaError{Reason: fmt.Sprintf("row %d: day %q is not an integer", line, record[index["day"]])}
		}

		crp := math.NaN()
		if raw := strings.TrimSpace(record[index["crp"]]); raw != "" {
			crp, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &domain.SchemaError{Reason: fmt.Sprintf("row %d: crp %q is not numeric", line, raw)}
			}
		}

		observations = append(observations, domain.Observation{
			PatientID: patientID,
			Group:     group,
			Day:       day,
			CRP:       crp,
		})
	}

	return &domain.Dataset{Observations: observations}, nil
}

// Save writes a tidy dataset as CSV with two-decimal CRP values. Missing
// values are written as empty cells.
func Save(ds *domain.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()
	if err := Write(ds, f); err != nil {
		return err
	}
	return f.Close()
}

// Write streams a tidy dataset as CSV.
func Write(ds *domain.Dataset, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(requiredColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, o := range ds.Observations {
		record := []string{
			strconv.FormatInt(o.PatientID, 10),
			string(o.Group),
			strconv.Itoa(o.Day),
			formatCRP(o.CRP),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCRP(crp float64) string {
	if math.IsNaN(crp) {
		return ""
	}
	return strconv.FormatFloat(crp, 'f', 2, 64)
}
