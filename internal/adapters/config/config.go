package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "ALUMNI_CHAT"

// ServerConfig holds listener ports.
type ServerConfig struct {
	HTTPPort int `mapstructure:"http_port"`
	GRPCPort int `mapstructure:"grpc_port"`
}

// DatabaseConfig selects the gorm driver and connection string.
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"` // "sqlite" or "postgres"
	DSN                    string `mapstructure:"dsn"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime_seconds"`
}

// RedisConfig holds Redis-related configurations.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// NATSConfig holds the chat event publisher settings.
type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

// LogConfig holds logging-related configurations.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig holds token and admin credentials. Secrets should come from the environment.
type AuthConfig struct {
	SecretKey                string `mapstructure:"secret_key"`
	Algorithm                string `mapstructure:"algorithm"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
	AdminAPIKey              string `mapstructure:"admin_api_key"`
}

// AppConfig holds application-specific configurations.
type AppConfig struct {
	ServiceName            string `mapstructure:"service_name"`
	Version                string `mapstructure:"version"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`

	PingIntervalSeconds             int      `mapstructure:"ping_interval_seconds"`
	WriteTimeoutSeconds             int      `mapstructure:"write_timeout_seconds"`
	ReadIdleTimeoutSeconds          int      `mapstructure:"read_idle_timeout_seconds"`
	ReadLimitBytes                  int64    `mapstructure:"read_limit_bytes"`
	WebsocketMessageBufferSize      int      `mapstructure:"websocket_message_buffer_size"`
	WebsocketBackpressureDropPolicy string   `mapstructure:"websocket_backpressure_drop_policy"` // "drop_oldest" or "block"
	CloseSupersededConnections      bool     `mapstructure:"close_superseded_connections"`
	AllowedOrigins                  []string `mapstructure:"websocket_allowed_origins"` // coder/websocket origin patterns

	PersistTimeoutSeconds int `mapstructure:"persist_timeout_seconds"`
	CacheTimeoutMs        int `mapstructure:"cache_timeout_ms"`
	CacheQueueSize        int `mapstructure:"cache_queue_size"`
}

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	App      AppConfig      `mapstructure:"app"`
}

// Provider defines an interface for accessing application configuration.
type Provider interface {
	Get() *Config
}

// setDefaults registers every key so that AutomaticEnv can override keys absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "alumni.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_seconds", 300)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject_prefix", "chat.messages")

	v.SetDefault("log.level", "info")

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.access_token_expire_minutes", 10080)
	v.SetDefault("auth.admin_api_key", "")

	v.SetDefault("app.service_name", "alumni-chat-service")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.shutdown_timeout_seconds", 15)
	v.SetDefault("app.ping_interval_seconds", 30)
	v.SetDefault("app.write_timeout_seconds", 10)
	v.SetDefault("app.read_idle_timeout_seconds", 0)
	v.SetDefault("app.read_limit_bytes", 32768)
	v.SetDefault("app.websocket_message_buffer_size", 100)
	v.SetDefault("app.websocket_backpressure_drop_policy", "drop_oldest")
	v.SetDefault("app.close_superseded_connections", false)
	v.SetDefault("app.websocket_allowed_origins", []string{"*"})
	v.SetDefault("app.persist_timeout_seconds", 5)
	v.SetDefault("app.cache_timeout_ms", 500)
	v.SetDefault("app.cache_queue_size", 1024)
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.SecretKey == "" {
		errs = append(errs, errors.New("auth.secret_key is required"))
	}
	if !strings.HasPrefix(strings.ToUpper(c.Auth.Algorithm), "HS") {
		errs = append(errs, fmt.Errorf("auth.algorithm %q is not supported, use HS256, HS384 or HS512", c.Auth.Algorithm))
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	switch c.App.WebsocketBackpressureDropPolicy {
	case "drop_oldest", "block":
	default:
		errs = append(errs, fmt.Errorf("app.websocket_backpressure_drop_policy %q is not supported", c.App.WebsocketBackpressureDropPolicy))
	}
	if c.App.WebsocketMessageBufferSize <= 0 {
		errs = append(errs, errors.New("app.websocket_message_buffer_size must be positive"))
	}
	return errors.Join(errs...)
}

// viperProvider implements the Provider interface using Viper.
type viperProvider struct {
	config atomic.Pointer[Config]
	logger *zap.Logger // zap directly, domain.Logger is built from this config
}

// NewViperProvider loads configuration from the YAML file named by VIPER_CONFIG_NAME in
// VIPER_CONFIG_PATH (or the working directory) and from ALUMNI_CHAT_* environment variables.
// The configuration is reloaded on SIGHUP and when the file changes until appCtx is done.
func NewViperProvider(appCtx context.Context, logger *zap.Logger) (Provider, error) {
	v := viper.New()
	setDefaults(v)

	configName := os.Getenv("VIPER_CONFIG_NAME")
	if configName == "" {
		configName = "config"
	}
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if p := os.Getenv("VIPER_CONFIG_PATH"); p != "" {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")) // server.http_port -> ALUMNI_CHAT_SERVER_HTTP_PORT

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logger.Error("Failed to read config file", zap.Error(err))
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fileFound = false
		logger.Warn("Config file not found; relying on defaults and environment variables", zap.Error(err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		logger.Error("Failed to unmarshal config", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &viperProvider{logger: logger}
	p.config.Store(cfg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	go func() {
		defer signal.Stop(sigChan)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Panic recovered in SIGHUP handler goroutine",
					zap.Any("panic_info", r),
					zap.String("stacktrace", string(debug.Stack())),
				)
			}
		}()
		for {
			select {
			case <-sigChan:
				p.logger.Info("SIGHUP received, reloading configuration")
				if fileFound {
					if err := v.ReadInConfig(); err != nil {
						p.logger.Error("Failed to re-read config file on SIGHUP", zap.Error(err))
						continue
					}
				}
				p.reload(v, "sighup")
			case <-appCtx.Done():
				return
			}
		}
	}()

	if fileFound {
		v.OnConfigChange(func(e fsnotify.Event) {
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("Panic recovered in OnConfigChange callback",
						zap.String("event_name", e.Name),
						zap.Any("panic_info", r),
						zap.String("stacktrace", string(debug.Stack())),
					)
				}
			}()
			p.logger.Info("Config file changed", zap.String("name", e.Name), zap.String("op", e.Op.String()))
			p.reload(v, "file_change")
		})
		v.WatchConfig()
	}

	p.logger.Info("Configuration loaded", zap.String("config_file_used", v.ConfigFileUsed()))
	return p, nil
}

// reload swaps in a freshly unmarshalled config. An invalid config keeps the previous one.
func (p *viperProvider) reload(v *viper.Viper, trigger string) {
	newCfg := &Config{}
	if err := v.Unmarshal(newCfg); err != nil {
		p.logger.Error("Failed to unmarshal reloaded config", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	if err := newCfg.Validate(); err != nil {
		p.logger.Error("Reloaded config is invalid, keeping previous", zap.String("trigger", trigger), zap.Error(err))
		return
	}
	p.config.Store(newCfg)
	p.logger.Info("Configuration reloaded", zap.String("trigger", trigger))
}

// Get returns the current configuration.
func (p *viperProvider) Get() *Config {
	return p.config.Load()
}

// staticProvider serves a fixed configuration.
type staticProvider struct {
	cfg *Config
}

// NewStaticProvider wraps an already built Config, for tests and tools.
func NewStaticProvider(cfg *Config) Provider {
	return &staticProvider{cfg: cfg}
}

func (s *staticProvider) Get() *Config {
	return s.cfg
}

// Defaults returns a Config populated with the built-in defaults only.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}
