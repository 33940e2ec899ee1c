package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/wire"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/config"
	appgrpc "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/grpc"
	apphttp "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/http"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/logger"
	appnats "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/nats"
	"gitlab.com/timkado/api/alumni-chat-service/internal/adapters/persistence"
	appredis "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/redis"
	wsadapter "gitlab.com/timkado/api/alumni-chat-service/internal/adapters/websocket"
	"gitlab.com/timkado/api/alumni-chat-service/internal/application"
	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// InitialZapLoggerProvider provides a basic *zap.Logger instance, used until the configured logger exists.
func InitialZapLoggerProvider() (*zap.Logger, func(), error) {
	logger, err := zap.NewProduction()
	if err != nil {
		logger, err = zap.NewDevelopment()
		if err != nil {
			logger = zap.NewExample()
			fmt.Fprintf(os.Stderr, "Failed to create initial zap logger, falling back to example logger: %v\n", err)
		}
	}

	cleanup := func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync initial zap logger: %v\n", syncErr)
		}
	}
	return logger, cleanup, nil
}

// App holds everything Run needs.
type App struct {
	configProvider    config.Provider
	logger            domain.Logger
	httpServeMux      *http.ServeMux
	httpServer        *http.Server
	grpcServer        *appgrpc.Server
	wsRouter          *wsadapter.Router
	httpHandlers      *apphttp.Handlers
	connectionManager *application.ConnectionManager
	chatService       *application.ChatService
	messageStore      domain.ChatMessageStore
	recencyCache      *appredis.RecencyCacheAdapter
	natsConn          *nats.Conn
}

// NewApp is the constructor for App.
func NewApp(
	cfgProvider config.Provider,
	appLogger domain.Logger,
	mux *http.ServeMux,
	server *http.Server,
	grpcSrv *appgrpc.Server,
	wsRouter *wsadapter.Router,
	handlers *apphttp.Handlers,
	connManager *application.ConnectionManager,
	chatService *application.ChatService,
	store domain.ChatMessageStore,
	recencyCache *appredis.RecencyCacheAdapter,
	natsConn *nats.Conn,
) (*App, func(), error) {
	app := &App{
		configProvider:    cfgProvider,
		logger:            appLogger,
		httpServeMux:      mux,
		httpServer:        server,
		grpcServer:        grpcSrv,
		wsRouter:          wsRouter,
		httpHandlers:      handlers,
		connectionManager: connManager,
		chatService:       chatService,
		messageStore:      store,
		recencyCache:      recencyCache,
		natsConn:          natsConn,
	}

	cleanup := func() {
		app.logger.Info(context.Background(), "Running app cleanup...")
		app.chatService.Close()
		if app.grpcServer != nil {
			app.grpcServer.GracefulStop()
		}
	}
	return app, cleanup, nil
}

// ConfigProvider provides the application configuration. appCtx bounds the reload watchers.
func ConfigProvider(appCtx context.Context, logger *zap.Logger) (config.Provider, error) {
	return config.NewViperProvider(appCtx, logger)
}

// LoggerProvider provides the application logger.
func LoggerProvider(cfgProvider config.Provider) (domain.Logger, error) {
	return logger.NewZapAdapter(cfgProvider)
}

// HTTPServeMuxProvider provides the main HTTP multiplexer.
func HTTPServeMuxProvider() *http.ServeMux {
	return http.NewServeMux()
}

// HTTPGracefulServerProvider provides the HTTP server. Only header reads are bounded: read and write
// deadlines would also apply to hijacked WebSocket connections.
func HTTPGracefulServerProvider(cfgProvider config.Provider, mux *http.ServeMux) *http.Server {
	appCfg := cfgProvider.Get()
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", appCfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// DatabaseProvider opens the gorm connection pool.
func DatabaseProvider(cfgProvider config.Provider, appLogger domain.Logger) (*gorm.DB, func(), error) {
	return persistence.NewDatabase(cfgProvider, appLogger)
}

// MessageStoreProvider provides the chat message repository.
func MessageStoreProvider(db *gorm.DB) domain.ChatMessageStore {
	return persistence.NewMessageRepository(db)
}

// UserDirectoryProvider provides the user repository.
func UserDirectoryProvider(db *gorm.DB) domain.UserDirectory {
	return persistence.NewUserRepository(db)
}

// RedisClientProvider provides a Redis client and a cleanup function. An unreachable Redis is logged
// and tolerated: the recency cache is best-effort and go-redis reconnects on demand.
func RedisClientProvider(cfgProvider config.Provider, appLogger domain.Logger) (*redis.Client, func(), error) {
	appCfg := cfgProvider.Get()
	client := redis.NewClient(&redis.Options{
		Addr:     appCfg.Redis.Address,
		Password: appCfg.Redis.Password,
		DB:       appCfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		appLogger.Warn(context.Background(), "Redis unreachable at startup, recency cache updates will fail until it is back", "error", err.Error(), "address", appCfg.Redis.Address)
	} else {
		appLogger.Info(context.Background(), "Successfully connected to Redis", "address", appCfg.Redis.Address)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			appLogger.Error(context.Background(), "Error closing Redis client", "error", err.Error())
			return
		}
		appLogger.Info(context.Background(), "Redis connection closed")
	}
	return client, cleanup, nil
}

// RecencyCacheAdapterProvider provides the Redis-backed recency cache.
func RecencyCacheAdapterProvider(redisClient *redis.Client, appLogger domain.Logger) *appredis.RecencyCacheAdapter {
	return appredis.NewRecencyCacheAdapter(redisClient, appLogger)
}

// NatsConnProvider provides the NATS connection, nil when publishing is disabled.
func NatsConnProvider(ctx context.Context, cfgProvider config.Provider, appLogger domain.Logger) (*nats.Conn, func(), error) {
	return appnats.NewConnection(ctx, cfgProvider, appLogger)
}

// ChatEventPublisherProvider provides the chat event publisher.
func ChatEventPublisherProvider(nc *nats.Conn, cfgProvider config.Provider, appLogger domain.Logger) domain.ChatEventPublisher {
	return appnats.NewPublisherAdapter(nc, cfgProvider, appLogger)
}

// ConnectionManagerProvider provides the session registry.
func ConnectionManagerProvider(appLogger domain.Logger, cfgProvider config.Provider) *application.ConnectionManager {
	return application.NewConnectionManager(appLogger, cfgProvider)
}

// DispatcherProvider provides the unicast/broadcast dispatcher.
func DispatcherProvider(appLogger domain.Logger, connManager *application.ConnectionManager) *application.Dispatcher {
	return application.NewDispatcher(appLogger, connManager)
}

// AuthServiceProvider provides the AuthService.
func AuthServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, users domain.UserDirectory) *application.AuthService {
	return application.NewAuthService(appLogger, cfgProvider, users)
}

// ChatServiceProvider provides the message pipeline.
func ChatServiceProvider(
	appLogger domain.Logger,
	cfgProvider config.Provider,
	store domain.ChatMessageStore,
	users domain.UserDirectory,
	cache domain.RecencyCache,
	publisher domain.ChatEventPublisher,
	dispatcher *application.Dispatcher,
) *application.ChatService {
	return application.NewChatService(appLogger, cfgProvider, store, users, cache, publisher, dispatcher)
}

// HTTPHandlersProvider provides the REST handlers.
func HTTPHandlersProvider(appLogger domain.Logger, cfgProvider config.Provider, authService *application.AuthService, chatService *application.ChatService, dispatcher *application.Dispatcher) *apphttp.Handlers {
	return apphttp.NewHandlers(appLogger, cfgProvider, authService, chatService, dispatcher)
}

// WebsocketHandlerProvider provides the chat session handler.
func WebsocketHandlerProvider(appLogger domain.Logger, cfgProvider config.Provider, authService *application.AuthService, connManager *application.ConnectionManager, chatService *application.ChatService) *wsadapter.Handler {
	return wsadapter.NewHandler(appLogger, cfgProvider, authService, connManager, chatService)
}

// WebsocketRouterProvider provides the websocket router.
func WebsocketRouterProvider(appLogger domain.Logger, wsHandler *wsadapter.Handler) *wsadapter.Router {
	return wsadapter.NewRouter(appLogger, wsHandler)
}

// GRPCServerProvider provides the gRPC health server.
func GRPCServerProvider(appCtx context.Context, appLogger domain.Logger, cfgProvider config.Provider) *appgrpc.Server {
	return appgrpc.NewServer(appCtx, appLogger, cfgProvider)
}

// ProviderSet is the Wire provider set for the entire application.
var ProviderSet = wire.NewSet(
	InitialZapLoggerProvider,
	ConfigProvider,
	LoggerProvider,
	HTTPServeMuxProvider,
	HTTPGracefulServerProvider,

	// Infrastructure adapters
	DatabaseProvider,
	MessageStoreProvider,
	UserDirectoryProvider,
	RedisClientProvider,
	RecencyCacheAdapterProvider,
	wire.Bind(new(domain.RecencyCache), new(*appredis.RecencyCacheAdapter)),
	NatsConnProvider,
	ChatEventPublisherProvider,

	// Application services
	ConnectionManagerProvider,
	DispatcherProvider,
	AuthServiceProvider,
	ChatServiceProvider,

	// Transports
	HTTPHandlersProvider,
	WebsocketHandlerProvider,
	WebsocketRouterProvider,
	GRPCServerProvider,

	NewApp,
)
