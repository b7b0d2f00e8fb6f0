package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomitschek/crptrial/internal/dataio"
)

var (
	exportRunID  string
	exportInput  string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a dataset in wide format",
	Long: `Export a dataset as a wide table with one row per patient and one
column per day, as CSV or as an Excel workbook.

Examples:
  crptrial export --input crp_data.csv --format xlsx -o crp_wide.xlsx
  crptrial export --run 6e9a8f50-... -o crp_wide.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "export a stored run by id")
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "export a tidy CSV file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default crp_wide.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ds, _, err := loadDataset(context.Background(), exportRunID, exportInput)
	if err != nil {
		return err
	}

	output := exportOutput
	if output == "" {
		output = "crp_wide." + exportFormat
	}
	path, err := resolveOutputPath(output)
	if err != nil {
		return err
	}

	switch exportFormat {
	case "csv":
		err = dataio.SaveWideCSV(ds, path)
	case "xlsx":
		err = dataio.SaveWideXLSX(ds, path)
	default:
		return fmt.Errorf("unknown format %q, want csv or xlsx", exportFormat)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d observations to %s\n", ds.Len(), path)
	return nil
}
