package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpiface "github.com/mofml/ffpgen/internal/interfaces/http"
)

// newServeCommand builds `ffpgen serve`: run the HTTP API server until
// interrupted.
func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			rt, err := buildRuntime(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			defer rt.close()

			router := httpiface.NewRouter(httpiface.RouterConfig{
				Precursor: httpiface.NewPrecursorHandler(rt.service),
				Health:    httpiface.NewHealthHandler(rt.ready),
				Metrics:   rt.metrics,
				Logger:    logger.Named("http"),
				Mode:      cfg.Server.Mode,
			})
			server := httpiface.NewServer(cfg.Server, router, logger.Named("http"))

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-stop:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}
}
