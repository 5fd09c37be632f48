package health

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/VerteraIO/hostpulse/internal/agent/collector"
)

// Service is the health service name reporting host identity resolution.
const Service = "hostpulse.HostIdentity"

// Server exposes grpc.health.v1.Health. Its status follows periodic host
// identity probes: SERVING while resolution works, NOT_SERVING otherwise.
type Server struct {
	grpc     *grpc.Server
	health   *health.Server
	hosts    collector.Collector
	logger   *slog.Logger
	interval time.Duration

	// stopGrace bounds GracefulStop; Watch streams never finish on their own.
	stopGrace time.Duration
}

func New(hosts collector.Collector, logger *slog.Logger, interval time.Duration, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gs := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	reflection.Register(gs)
	return &Server{grpc: gs, health: hs, hosts: hosts, logger: logger, interval: interval, stopGrace: 5 * time.Second}
}

// Probe resolves the host identity once and publishes the resulting status.
func (s *Server) Probe(ctx context.Context) error {
	status := healthpb.HealthCheckResponse_SERVING
	info, err := s.hosts.Collect(ctx)
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn("health probe failed", "collector", s.hosts.Name(), "error", err)
	} else {
		s.logger.Debug("health probe ok", "collector", s.hosts.Name(), "host", info["host"], "ip", info["ip"])
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
	return err
}

// Serve probes once, then serves on lis until ctx is cancelled. Open RPCs get
// stopGrace to finish before the server is stopped hard.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	_ = s.Probe(ctx)
	go s.probeLoop(ctx)
	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.stop()
	}()
	err := s.grpc.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Run starts the gRPC server on addr (e.g., ":9090").
func (s *Server) Run(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("gRPC health listening", "addr", lis.Addr().String())
	return s.Serve(ctx, lis)
}

func (s *Server) stop() {
	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(s.stopGrace):
		s.logger.Warn("gRPC graceful stop timed out, forcing", "grace", s.stopGrace)
		s.grpc.Stop()
	}
}

func (s *Server) probeLoop(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Probe(ctx)
		}
	}
}
