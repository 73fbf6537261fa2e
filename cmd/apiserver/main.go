// The apiserver binary runs the prediction API without the CLI wrapper,
// configured entirely from the environment and an optional config file
// named by FFPGEN_CONFIG.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/mofml/ffpgen/internal/interfaces/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "apiserver:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg *config.Config
	var err error
	if path := os.Getenv("FFPGEN_CONFIG"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx := context.Background()
	metrics := prometheus.NewMetrics("ffpgen")
	deps, err := buildDependencies(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer deps.close()

	router := httpiface.NewRouter(httpiface.RouterConfig{
		Precursor: httpiface.NewPrecursorHandler(deps.service),
		Health:    httpiface.NewHealthHandler(deps.ready),
		Metrics:   metrics,
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
	case sig := <-stop:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
