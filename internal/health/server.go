// Package health exposes the standard gRPC health service for the dashboard
// host. The host reports NOT_SERVING until the startup session check has
// resolved and SERVING afterwards.
package health

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/admindash/internal/client/services"
	"github.com/dmitrijs2005/admindash/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported next to the overall ("") status.
const ServiceName = "admindash"

// StateSource publishes auth state transitions. *services.AuthService
// satisfies it.
type StateSource interface {
	Subscribe() (<-chan services.State, func())
}

type Server struct {
	address string
	source  StateSource
	logger  logging.Logger
	hs      *health.Server
}

func NewServer(address string, source StateSource, l logging.Logger) *Server {
	return &Server{
		address: address,
		source:  source,
		logger:  l.With("module", "health"),
		hs:      health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, s.hs)

	s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	states, cancel := s.source.Subscribe()
	go s.watch(ctx, states, cancel)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping health server...")
		s.hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting health server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (s *Server) watch(ctx context.Context, states <-chan services.State, cancel func()) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			if st == services.StateUnknown {
				s.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
			} else {
				s.setStatus(healthpb.HealthCheckResponse_SERVING)
			}
		}
	}
}

func (s *Server) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	s.hs.SetServingStatus("", status)
	s.hs.SetServingStatus(ServiceName, status)
}
