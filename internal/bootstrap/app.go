package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apphttp "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/http"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/middleware"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
	"gitlab.com/timkado/api/alumni-chat-service/pkg/safego"
)

// readinessChecks lists the dependencies reported by /ready. A nil check is reported as not configured.
func (a *App) readinessChecks() map[string]apphttp.DependencyCheck {
	checks := map[string]apphttp.DependencyCheck{
		"database": a.messageStore.Ping,
		"redis":    nil,
		"nats":     nil,
	}
	if a.recencyCache != nil {
		checks["redis"] = a.recencyCache.Ping
	}
	if a.natsConn != nil {
		nc := a.natsConn
		checks["nats"] = func(context.Context) error {
			if status := nc.Status(); status != nats.CONNECTED {
				return fmt.Errorf("nats status %s", status.String())
			}
			return nil
		}
	}
	return checks
}

// registerRoutes mounts health, metrics, REST and WebSocket routes on the shared mux.
func (a *App) registerRoutes(ctx context.Context) {
	a.httpServeMux.Handle("GET /health", middleware.RequestIDMiddleware(apphttp.HealthHandler()))
	a.httpServeMux.Handle("GET /ready", middleware.RequestIDMiddleware(apphttp.ReadyHandler(a.logger, a.readinessChecks())))
	a.httpServeMux.Handle("GET /metrics", middleware.RequestIDMiddleware(promhttp.Handler()))
	a.logger.Info(ctx, "Prometheus metrics endpoint registered at /metrics")

	a.httpHandlers.RegisterRoutes(a.httpServeMux)
	a.wsRouter.RegisterRoutes(ctx, a.httpServeMux)
}

// Run starts the HTTP and gRPC servers and blocks until shutdown completes.
func (a *App) Run(ctx context.Context) error {
	appCfg := a.configProvider.Get().App
	a.logger.Info(ctx, "Starting application", "service_name", appCfg.ServiceName, "version", appCfg.Version)

	a.registerRoutes(ctx)

	if err := a.grpcServer.Start(); err != nil {
		a.logger.Warn(ctx, "gRPC health server not started", "error", err.Error())
	}

	shutdownDone := make(chan struct{})
	safego.Execute(ctx, a.logger, "SignalListenerAndGracefulShutdown", func() {
		defer close(shutdownDone)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case sig := <-quit:
			a.logger.Info(context.Background(), "Shutdown signal received, initiating graceful shutdown...", "signal", sig.String())
		case <-ctx.Done():
			a.logger.Info(context.Background(), "Application context cancelled, initiating graceful shutdown...")
		}
		a.shutdown()
	})

	a.logger.Info(ctx, fmt.Sprintf("HTTP server listening on port %d", a.configProvider.Get().Server.HTTPPort))
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error(ctx, "HTTP server ListenAndServe error", "error", err.Error())
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-shutdownDone
	a.logger.Info(ctx, "Application shut down gracefully.")
	return nil
}

// shutdown stops accepting traffic, closes every session with 1001 and drains the cache writer.
func (a *App) shutdown() {
	shutdownTimeout := 15 * time.Second
	if secs := a.configProvider.Get().App.ShutdownTimeoutSeconds; secs > 0 {
		shutdownTimeout = time.Duration(secs) * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.grpcServer.SetNotServing()

	a.logger.Info(context.Background(), "Closing all WebSocket connections gracefully...")
	a.connectionManager.GracefullyCloseAllConnections(domain.StatusGoingAway, "Server is shutting down")

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(context.Background(), "HTTP server graceful shutdown failed", "error", err.Error())
	}
	a.logger.Info(context.Background(), "HTTP server shut down.")

	a.chatService.Close()
	a.grpcServer.GracefulStop()
}
