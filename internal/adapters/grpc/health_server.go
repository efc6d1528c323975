package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// EngineService is the health service name the daemon reports on
const EngineService = "antbot.TurnEngine"

// HealthServer exposes the standard gRPC health service for the daemon.
// The overall ("") status follows EngineService.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener

	stopOnce sync.Once
}

// NewHealthServer listens on a TCP host:port. Port 0 picks a free port.
func NewHealthServer(address string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(EngineService, healthpb.HealthCheckResponse_NOT_SERVING)

	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)

	return &HealthServer{
		server:   server,
		health:   hs,
		listener: listener,
	}, nil
}

// Addr returns the address actually bound
func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// SetServing flips the engine's reported status
func (s *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(EngineService, status)
}

// Serve blocks until Stop is called
func (s *HealthServer) Serve() error {
	if err := s.server.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC health server error: %w", err)
	}
	return nil
}

// Stop marks every service NOT_SERVING and drains connections, forcing the
// stop if ctx expires first
func (s *HealthServer) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		s.health.Shutdown()

		done := make(chan struct{})
		go func() {
			s.server.GracefulStop()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			s.server.Stop()
		}
	})
}
