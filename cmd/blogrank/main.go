// Command blogrank runs the blog analysis HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/blogrank/blogrank/internal/adapi"
	"github.com/blogrank/blogrank/internal/analyzer"
	"github.com/blogrank/blogrank/internal/api"
	"github.com/blogrank/blogrank/internal/blog"
	"github.com/blogrank/blogrank/internal/config"
	"github.com/blogrank/blogrank/internal/discover"
	"github.com/blogrank/blogrank/internal/fetch"
	"github.com/blogrank/blogrank/internal/logging"
	"github.com/blogrank/blogrank/internal/metrics"
	"github.com/blogrank/blogrank/internal/report"
	"github.com/blogrank/blogrank/internal/score"
	"github.com/blogrank/blogrank/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "blogrank:", err)
		os.Exit(1)
	}
}

func run() error {
	// Missing .env is fine; env vars may come from the shell.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eps := endpointsFromConfig(cfg)

	fetcher := fetch.NewCollyFetcher(fetch.Config{
		UserAgent:      cfg.Analyzer.UserAgent,
		Referer:        eps.DesktopBase,
		AcceptLanguage: "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7",
		Timeout:        cfg.FetchTimeout(),
	}, logger.Named("fetch"))

	discoverer := discover.New(fetcher, eps, cfg.Analyzer.MaxPosts, logger.Named("discover"))

	var keywordAPI analyzer.KeywordAnalyzer
	if cfg.AdAPI.Enabled {
		client, err := adapi.New(adapi.Config{
			BaseURL:       cfg.AdAPI.BaseURL,
			AccessLicense: cfg.AdAPI.AccessLicense,
			SecretKey:     cfg.AdAPI.SecretKey,
			CustomerID:    cfg.AdAPI.CustomerID,
		}, logger.Named("adapi"))
		if err != nil {
			logger.Warn("keyword API disabled", zap.Error(err))
		} else {
			keywordAPI = client
		}
	}

	engine := analyzer.New(
		fetcher,
		discoverer,
		score.DefaultRubric(),
		keywordAPI,
		eps,
		analyzer.Config{
			MaxPosts:          cfg.Analyzer.MaxPosts,
			Concurrency:       cfg.Analyzer.Concurrency,
			EnrichDelay:       cfg.EnrichDelay(),
			MaxEnrichKeywords: cfg.Analyzer.MaxEnrichKeywords,
		},
		logger.Named("analyzer"),
	)

	var sink api.ReportSink
	if cfg.Storage.Enabled {
		fsSink, err := report.NewFileSystemSink(cfg.Storage.ReportDir, logger.Named("report"))
		if err != nil {
			return fmt.Errorf("report sink: %w", err)
		}
		sink = fsSink
	}

	var store api.ReportStore
	if cfg.DB.DSN != "" {
		pgStore, err := postgres.NewReportStore(ctx, postgres.ReportStoreConfig{
			DSN:   cfg.DB.DSN,
			Table: cfg.DB.Table,
		})
		if err != nil {
			return fmt.Errorf("report store: %w", err)
		}
		defer pgStore.Close()
		store = pgStore
	}

	server := api.NewServer(engine, sink, store, logger.Named("api"))

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.Int("port", cfg.Server.Port))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func endpointsFromConfig(cfg config.Config) blog.Endpoints {
	eps := blog.DefaultEndpoints()
	if cfg.Endpoints.DesktopBase != "" {
		eps.DesktopBase = cfg.Endpoints.DesktopBase
	}
	if cfg.Endpoints.MobileBase != "" {
		eps.MobileBase = cfg.Endpoints.MobileBase
	}
	if cfg.Endpoints.FeedBase != "" {
		eps.FeedBase = cfg.Endpoints.FeedBase
	}
	return eps
}
