package main

import (
	"context"
	"log/slog"

	"github.com/VerteraIO/hostpulse/internal/agent/collector"
	"github.com/VerteraIO/hostpulse/internal/config"
	grpchealth "github.com/VerteraIO/hostpulse/internal/grpc/health"
)

// startGRPC serves the gRPC health service until ctx is done. Failures are
// logged and do not take the HTTP server down.
func startGRPC(ctx context.Context, cfg config.Server, hosts *collector.HostCollector, logger *slog.Logger) {
	srv := grpchealth.New(hosts, logger.With("component", "grpc"), cfg.ProbeInterval)
	if err := srv.Run(ctx, cfg.GRPCAddr); err != nil {
		logger.Error("gRPC health server error", "error", err)
	}
}
