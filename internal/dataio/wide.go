package dataio

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tomitschek/crptrial/internal/domain"
)

// WideRow is one patient in wide format: a CRP column per day of the window.
// Days without an observation stay NaN and export as empty cells.
type WideRow struct {
	PatientID int64
	Group     domain.Group
	CRP       [domain.DaysPerPatient]float64
}

// WideRows pivots a tidy dataset into wide format, sorted by (group,
// patient_id) ascending. Days outside the observation window are ignored.
func WideRows(ds *domain.Dataset) []WideRow {
	byPatient := make(map[int64]*WideRow)
	order := make([]int64, 0)
	for _, o := range ds.Observations {
		row, ok := byPatient[o.PatientID]
		if !ok {
			row = &WideRow{PatientID: o.PatientID, Group: o.Group}
			for i := range row.CRP {
				row.CRP[i] = math.NaN()
			}
			byPatient[o.PatientID] = row
			order = append(order, o.PatientID)
		}
		if o.Day >= domain.DayMin && o.Day <= domain.DayMax {
			row.CRP[o.Day-domain.DayMin] = o.CRP
		}
	}

	rows := make([]WideRow, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byPatient[id])
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Group != rows[j].Group {
			return rows[i].Group < rows[j].Group
		}
		return rows[i].PatientID < rows[j].PatientID
	})
	return rows
}

func wideHeader() []string {
	header := []string{"patient_id", "group"}
	for day := domain.DayMin; day <= domain.DayMax; day++ {
		header = append(header, fmt.Sprintf("day_%d", day))
	}
	return header
}

// SaveWideCSV writes the wide-format pivot as CSV.
func SaveWideCSV(ds *domain.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create wide csv: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(wideHeader()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range WideRows(ds) {
		record := []string{strconv.FormatInt(row.PatientID, 10), string(row.Group)}
		for _, crp := range row.CRP {
			record = append(record, formatCRP(crp))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return f.Close()
}

// SaveWideXLSX writes the wide-format pivot as an Excel workbook.
func SaveWideXLSX(ds *domain.Dataset, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	for col, name := range wideHeader() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to map header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, row := range WideRows(ds) {
		values := []interface{}{row.PatientID, string(row.Group)}
		for _, crp := range row.CRP {
			if math.IsNaN(crp) {
				values = append(values, nil)
			} else {
				values = append(values, crp)
			}
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to map cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
