package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
)

func TestServer_HealthLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// nop logger: the stop watcher logs after the test body returns
	srv := NewServer(ctx, logger.NewFromZap(zap.NewNop()), config.NewStaticProvider(config.Defaults()))
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv.Serve(lis)
	defer srv.GracefulStop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	checkCtx, checkCancel := context.WithTimeout(ctx, 5*time.Second)
	defer checkCancel()

	resp, err := client.Check(checkCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	srv.SetNotServing()
	resp, err = client.Check(checkCtx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestServer_StartWithoutPort(t *testing.T) {
	cfg := config.Defaults()
	cfg.Server.GRPCPort = 0
	srv := NewServer(context.Background(), logger.NewFromZap(zap.NewNop()), config.NewStaticProvider(cfg))
	assert.Error(t, srv.Start())
}
