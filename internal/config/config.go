package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-required:"true"`
	HTTP     HTTPConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Sync     SyncConfig
	Board    BoardConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-required:"true"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME" env-required:"true"`
	Password       string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database       string        `env:"POSTGRES_DATABASE" env-required:"true"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
	LoadTimeout    time.Duration `env:"POSTGRES_LOAD_TIMEOUT" env-default:"30s"`
}

// AuthConfig guards mutating routes. An empty SharedSecret rejects every
// mutating request.
type AuthConfig struct {
	SharedSecret string `env:"AUTH_SHARED_SECRET"`
	Header       string `env:"AUTH_HEADER" env-default:"X-Api-Key"`
}

type SyncConfig struct {
	QueueSize   int           `env:"SYNC_QUEUE_SIZE" env-default:"1024"`
	MaxAttempts int           `env:"SYNC_MAX_ATTEMPTS" env-default:"5"`
	Timeout     time.Duration `env:"SYNC_TIMEOUT" env-default:"10s"`
	BaseDelay   time.Duration `env:"SYNC_BASE_DELAY" env-default:"500ms"`
	MaxDelay    time.Duration `env:"SYNC_MAX_DELAY" env-default:"30s"`
	MaxFailures int           `env:"SYNC_MAX_FAILURES" env-default:"100"`

	// DrainTimeout bounds how long shutdown keeps writing queued changes.
	DrainTimeout time.Duration `env:"SYNC_DRAIN_TIMEOUT" env-default:"10s"`
}

type BoardConfig struct {
	ViewsFile   string `env:"BOARD_VIEWS_FILE"`
	DefaultView string `env:"BOARD_DEFAULT_VIEW"`
}
