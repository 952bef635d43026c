// Package grpc serves the standard gRPC health service so orchestrators can
// check the server on a dedicated port.
package grpc

import (
	"context"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
)

// ServiceName is the health-check service name reported next to the
// overall ("") status.
const ServiceName = "taskkeeper.Tasks"

type HealthServer struct {
	address string
	logger  logging.Logger
	health  *health.Server
}

func NewHealthServer(a string, l logging.Logger) *HealthServer {
	return &HealthServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		health:  health.NewServer(),
	}
}

// SetServing flips both the overall and the named service status.
func (s *HealthServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

func (s *HealthServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HealthServer) serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor),
	)
	healthpb.RegisterHealthServer(srv, s.health)
	s.SetServing(true)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
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
