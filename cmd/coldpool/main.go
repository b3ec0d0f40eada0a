package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/irenelivia/DakarNowcasting/internal/adapter/csvfile"
	httpadapter "github.com/irenelivia/DakarNowcasting/internal/adapter/http"
	kafkaadapter "github.com/irenelivia/DakarNowcasting/internal/adapter/kafka"
	"github.com/irenelivia/DakarNowcasting/internal/adapter/store"
	"github.com/irenelivia/DakarNowcasting/internal/config"
	"github.com/irenelivia/DakarNowcasting/internal/domain"
	"github.com/irenelivia/DakarNowcasting/internal/observability"
	"github.com/irenelivia/DakarNowcasting/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := csvfile.NewReader(cfg.SeriesPath, cfg.Station, logger)

	var sinks []pipeline.ReportSink
	var closers []io.Closer

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		closers = append(closers, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic)
	}
	if cfg.StoreEnabled {
		db, err := store.Open(cfg.StorePath, logger)
		if err != nil {
			logger.Error("failed to open report store", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, db)
		closers = append(closers, db)
		logger.Info("report store enabled", "path", cfg.StorePath)
	}
	if len(sinks) == 0 {
		logger.Info("no sinks enabled, reports are logged only")
		sinks = append(sinks, &logSink{logger: logger})
	}

	runner := pipeline.New(source, sinks, cfg.Detection.Params(), logger, metrics, cfg.RunInterval)

	srv := httpadapter.NewServer(cfg.HTTPAddr, runner, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start detection runner.
	go func() {
		if err := runner.Run(ctx); err != nil {
			logger.Error("runner error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("sink close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// logSink reports events through the logger when no real sink is configured.
type logSink struct {
	logger *slog.Logger
}

func (s *logSink) Name() string { return "log" }

func (s *logSink) Store(_ context.Context, reports []domain.Report) error {
	for _, r := range reports {
		s.logger.Info("cold pool detected",
			"id", r.ID,
			"station", r.Station,
			"time", r.Time,
			"temperature_drop", r.TemperatureDrop,
			"rainfall_sum", r.RainfallSum,
		)
	}
	return nil
}
