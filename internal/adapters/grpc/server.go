package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"
)

// Server wraps the gRPC server exposing the standard grpc.health.v1 service.
type Server struct {
	gsrv        *grpc.Server
	health      *health.Server
	logger      domain.Logger
	cfgProvider config.Provider
	appCtx      context.Context // server lifecycle, derived from the app context
	cancelCtx   context.CancelFunc
}

// NewServer creates a new gRPC server instance. Health starts as NOT_SERVING until Start.
func NewServer(appCtx context.Context, logger domain.Logger, cfgProvider config.Provider) *Server {
	gsrv := grpc.NewServer()
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(gsrv, hs)

	serverLifecycleCtx, serverLifecycleCancel := context.WithCancel(appCtx)
	return &Server{
		gsrv:        gsrv,
		health:      hs,
		logger:      logger,
		cfgProvider: cfgProvider,
		appCtx:      serverLifecycleCtx,
		cancelCtx:   serverLifecycleCancel,
	}
}

// Start listens on server.grpc_port and serves in the background.
func (s *Server) Start() error {
	grpcPort := s.cfgProvider.Get().Server.GRPCPort
	if grpcPort == 0 {
		s.logger.Warn(s.appCtx, "gRPC port is not configured or is 0. gRPC server will not start.")
		return fmt.Errorf("gRPC port not configured")
	}
	addr := fmt.Sprintf(":%d", grpcPort)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		s.logger.Error(s.appCtx, "Failed to listen for gRPC", "address", addr, "error", err.Error())
		return fmt.Errorf("failed to listen for gRPC on %s: %w", addr, err)
	}
	s.Serve(lis)
	return nil
}

// Serve serves on an existing listener in the background and marks the service SERVING.
func (s *Server) Serve(lis net.Listener) {
	s.logger.Info(s.appCtx, "gRPC server starting", "address", lis.Addr().String())
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	safego.Execute(s.appCtx, s.logger, "GRPCServerServe", func() {
		if err := s.gsrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.logger.Error(s.appCtx, "gRPC server failed to serve", "error", err.Error())
		}
		s.cancelCtx()
	})

	safego.Execute(s.appCtx, s.logger, "GRPCServerContextWatcher", func() {
		<-s.appCtx.Done()
		s.health.Shutdown()
		s.gsrv.GracefulStop()
		s.logger.Info(context.Background(), "gRPC server gracefully stopped")
	})
}

// SetNotServing flips the health status so load balancers stop routing new sessions here.
func (s *Server) SetNotServing() {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
}

// GracefulStop cancels the server lifecycle context, which stops the server.
func (s *Server) GracefulStop() {
	s.SetNotServing()
	s.cancelCtx()
}
