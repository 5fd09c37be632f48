package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/VerteraIO/hostpulse/internal/agent/collector"
	"github.com/VerteraIO/hostpulse/internal/agent/executor"
	"github.com/VerteraIO/hostpulse/internal/config"
	"github.com/VerteraIO/hostpulse/internal/controlplane/tasks"
	httpserver "github.com/VerteraIO/hostpulse/internal/http"
	v1 "github.com/VerteraIO/hostpulse/internal/http/v1"
	"github.com/VerteraIO/hostpulse/internal/logging"
	"github.com/VerteraIO/hostpulse/internal/metrics"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "token" {
		os.Exit(runToken(os.Args[2:], os.Stdout, os.Stderr))
	}

	cfg, err := config.LoadServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hosts := collector.NewHostCollector(collector.WithLogger(logger))
	api := &v1.API{
		Hosts: hosts,
		Runs:  tasks.NewManager(),
		NewRunner: func(l *slog.Logger) v1.Runner {
			return executor.NewFlakyTask(l, executor.GlobalSource{}, cfg.SuccessRate)
		},
		Metrics:   metrics.New(reg),
		Logger:    logger,
		RunSecret: []byte(cfg.RunJWTSecret),
	}

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpserver.NewServer(httpserver.Options{
			API:            api,
			Gatherer:       reg,
			Logger:         logger,
			RequestTimeout: cfg.RequestTimeout,
			CORSOrigins:    cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.GRPCAddr != "" {
		go startGRPC(ctx, cfg, hosts, logger)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", "error", err)
		}
	}()

	logger.Info("hostpulse-server listening", "addr", cfg.HTTPAddr, "run_auth", cfg.RunJWTSecret != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("hostpulse-server stopped")
}
