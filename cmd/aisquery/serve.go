package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	aissearch "github.com/hibik17/ais-search"
	"github.com/hibik17/ais-search/internal/config"
	logpkg "github.com/hibik17/ais-search/internal/logger"
	"github.com/hibik17/ais-search/internal/metrics"
	chiTransport "github.com/hibik17/ais-search/internal/transport/chi"
	"github.com/hibik17/ais-search/internal/usecase/query"
	"github.com/hibik17/ais-search/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search API",
	Long: `Start the HTTP server. Configuration is read from config/<ENV>.yaml
(ENV defaults to "local").`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting aisquery API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("models_dir", cfg.Models.Dir),
		zap.String("default_variant", cfg.Models.DefaultVariant),
		zap.String("metadata_driver", cfg.Metadata.Driver),
	)

	metrics.RegisterQueryMetrics()

	client, err := buildClient(cfg, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	server := chiTransport.NewServer(client.Service(), pingerFor(cfg, client), logger)
	handler := server.Routes(cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// buildClient assembles the SDK client from file configuration.
func buildClient(cfg config.Config, logger *zap.Logger) (*aissearch.Client, error) {
	opts := []aissearch.Option{
		aissearch.WithModelsDir(cfg.Models.Dir),
		aissearch.WithModelName(cfg.Models.Name),
		aissearch.WithDefaultVariant(cfg.Models.DefaultVariant),
		aissearch.WithSearchConfig(searchConfig(cfg)),
		aissearch.WithLogger(logger),
	}

	switch cfg.Metadata.Driver {
	case "redis":
		opts = append(opts,
			aissearch.WithRedisMetadata(cfg.Metadata.Addrs, cfg.Metadata.Username, cfg.Metadata.Password),
			aissearch.WithRedisKeyPrefix(cfg.Metadata.KeyPrefix),
		)
	default:
		opts = append(opts, aissearch.WithMetadataDir(cfg.Metadata.Dir))
	}

	if cfg.Tokenizer.Mode == "simple" {
		opts = append(opts, aissearch.WithSimpleTokenizer())
	}

	client, err := aissearch.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("build search client: %w", err)
	}
	return client, nil
}

// searchConfig maps file configuration onto the engine parameters, keeping
// the engine defaults for anything the file does not set.
func searchConfig(cfg config.Config) query.Config {
	qc := query.DefaultConfig()
	qc.MaxCandidates = cfg.Search.MaxCandidates
	qc.MinResults = cfg.Search.MinResults
	qc.SelfMatchCeiling = cfg.Search.SelfMatchCeiling
	qc.YearMin = cfg.Search.YearMin
	qc.YearMax = cfg.Search.YearMax
	qc.SIGStart = cfg.Search.SIGStart
	qc.SIGEnd = cfg.Search.SIGEnd
	qc.Infer.Alpha = cfg.Models.Infer.Alpha
	qc.Infer.MinAlpha = cfg.Models.Infer.MinAlpha
	qc.Infer.Epochs = cfg.Models.Infer.Epochs
	return qc
}

// pingerFor exposes the metadata backend probe to the health endpoint when
// the driver has one.
func pingerFor(cfg config.Config, client *aissearch.Client) chiTransport.Pinger {
	if cfg.Metadata.Driver == "redis" {
		return client
	}
	return nil
}
