package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// RelayService is the name health checks use to ask about the chat listener itself.
// The empty name reports the process as a whole.
const RelayService = "chatrelay.Relay"

// AdminServer exposes the standard gRPC health protocol so that orchestrators
// can check the relay without speaking the chat protocol.
type AdminServer struct {
	log    *slog.Logger
	health *health.Server
	server *grpc.Server
}

func NewAdminServer(log *slog.Logger) *AdminServer {
	hs := health.NewServer()
	hs.SetServingStatus(RelayService, healthpb.HealthCheckResponse_NOT_SERVING)

	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return &AdminServer{log: log, health: hs, server: s}
}

// SetServing flips the relay status, typically once the chat listener accepts connections.
func (a *AdminServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	a.health.SetServingStatus(RelayService, status)
	a.log.Debug("Health status changed", "service", RelayService, "status", status.String())
}

// Serve blocks until ctx is done. Every service is reported NOT_SERVING before the server stops.
func (a *AdminServer) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		a.health.Shutdown()
		// open Watch streams would keep GracefulStop waiting forever
		a.server.Stop()
	})
	defer stop()

	a.log.Info("Admin gRPC listening", "address", listener.Addr().String())
	if err := a.server.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("admin gRPC server: %w", err)
	}
	return nil
}
