package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tomitschek/crptrial/internal/report"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a run and its stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a run and its observations",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

func init() {
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	appCtx, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	runs, err := appCtx.RunRepo.List(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"id", "created", "seed", "n/group", "day effects"})
	table.SetAutoFormatHeaders(false)
	for _, run := range runs {
		effects := run.Effects.String()
		if effects == "" {
			effects = "-"
		}
		table.Append([]string{
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", run.Seed),
			fmt.Sprintf("%d", run.NPerGroup),
			effects,
		})
	}
	table.Render()
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	appCtx, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	id := args[0]
	run, err := appCtx.RunRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	ds, err := appCtx.ObservationRepo.ListByRunID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s\n", run.ID)
	fmt.Printf("  created:      %s\n", run.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  seed:         %d\n", run.Seed)
	fmt.Printf("  n per group:  %d\n", run.NPerGroup)
	if effects := run.Effects.String(); effects != "" {
		fmt.Printf("  day effects:  %s\n", effects)
	}
	fmt.Printf("  observations: %d\n", ds.Len())

	result, err := appCtx.AnalysisRepo.GetByRunID(ctx, id)
	if err != nil {
		return err
	}
	if result == nil {
		fmt.Println("No stored analysis; run crptrial analyze --run " + id + " --save")
		return nil
	}
	fmt.Println()
	fmt.Print(report.RenderTerminal(result))
	return nil
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	appCtx, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	id := args[0]
	run, err := appCtx.RunRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}

	if err := appCtx.RunRepo.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", id)
	return nil
}
