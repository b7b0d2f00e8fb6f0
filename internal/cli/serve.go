package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomitschek/crptrial/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored runs and analyses over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCtx, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	server := web.NewServer(appCtx.Config.Addr, appCtx.RunRepo, appCtx.ObservationRepo, appCtx.AnalysisRepo)
	return server.Start(ctx)
}
