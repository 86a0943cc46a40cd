package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"crmlake/internal/api"
)

var servePort string

// serveCmd starts the dashboard HTTP server. The server only reads
// pipeline artifacts; it never triggers runs.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard summary and quality reports over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	port := servePort
	if port == "" {
		port = d.cfg.Port
	}

	router := api.NewRouter(d.store, d.cfg.DashboardDir, d.log)
	server := api.NewServer(port, router, d.log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
