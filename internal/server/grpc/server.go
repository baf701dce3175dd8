// Package grpc serves the standard grpc.health.v1 service so orchestrators
// can probe the server and see which features are usable.
package grpc

import (
	"context"
	"net"

	"github.com/centrinote/centrinote/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Health service names. The empty name is the server as a whole.
const (
	ServiceMeetings = "centrinote.meetings"
	ServiceDatabase = "centrinote.database"
)

type GRPCServer struct {
	address string
	logger  logging.Logger
	health  *health.Server
}

// NewGRPCServer prepares the health service. ServiceMeetings reports
// SERVING only when meeting signatures can be generated.
func NewGRPCServer(a string, l logging.Logger, sdkConfigured bool) *GRPCServer {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceMeetings, servingStatus(sdkConfigured))
	hs.SetServingStatus(ServiceDatabase, healthpb.HealthCheckResponse_UNKNOWN)

	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		health:  hs,
	}
}

func servingStatus(ok bool) healthpb.HealthCheckResponse_ServingStatus {
	if ok {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// SetDatabaseStatus updates the ServiceDatabase health entry.
func (s *GRPCServer) SetDatabaseStatus(ok bool) {
	s.health.SetServingStatus(ServiceDatabase, servingStatus(ok))
}

// Health exposes the underlying health server, mostly for tests.
func (s *GRPCServer) Health() healthpb.HealthServer {
	return s.health
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.loggingUnaryInterceptor),
		grpc.ChainStreamInterceptor(s.loggingStreamInterceptor),
	)

	healthpb.RegisterHealthServer(srv, s.health)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
