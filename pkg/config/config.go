package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable the service reads.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config aggregates every tunable the service reads from the environment.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Store         StoreConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load parses the environment into a Config and normalizes derived values.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MEDSUPPLY_APP_ENV" required:"true"`
	Port         string `envconfig:"MEDSUPPLY_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MEDSUPPLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MEDSUPPLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MEDSUPPLY_DB_DSN"`
	Driver string `envconfig:"MEDSUPPLY_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MEDSUPPLY_DB_HOST"`
	Port     int    `envconfig:"MEDSUPPLY_DB_PORT" default:"5432"`
	User     string `envconfig:"MEDSUPPLY_DB_USER"`
	Password string `envconfig:"MEDSUPPLY_DB_PASSWORD"`
	Name     string `envconfig:"MEDSUPPLY_DB_NAME"`
	SSLMode  string `envconfig:"MEDSUPPLY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MEDSUPPLY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MEDSUPPLY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MEDSUPPLY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MEDSUPPLY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN assembles a DSN from the discrete fields when one is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name are required")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	d.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MEDSUPPLY_REDIS_URL"`
	Address      string        `envconfig:"MEDSUPPLY_REDIS_ADDR"`
	Password     string        `envconfig:"MEDSUPPLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"MEDSUPPLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MEDSUPPLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MEDSUPPLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MEDSUPPLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MEDSUPPLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MEDSUPPLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"MEDSUPPLY_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"MEDSUPPLY_JWT_ISSUER" default:"medsupply"`
	ExpirationMinutes      int    `envconfig:"MEDSUPPLY_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"MEDSUPPLY_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    uint32 `envconfig:"MEDSUPPLY_PASSWORD_ARGON_MEMORY_KB" default:"65536"`
	ArgonIterations  uint32 `envconfig:"MEDSUPPLY_PASSWORD_ARGON_ITERATIONS" default:"3"`
	ArgonParallelism uint8  `envconfig:"MEDSUPPLY_PASSWORD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLength  uint32 `envconfig:"MEDSUPPLY_PASSWORD_ARGON_SALT_LENGTH" default:"16"`
	ArgonKeyLength   uint32 `envconfig:"MEDSUPPLY_PASSWORD_ARGON_KEY_LENGTH" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"MEDSUPPLY_AUTH_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"MEDSUPPLY_AUTH_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit int           `envconfig:"MEDSUPPLY_AUTH_LOGIN_EMAIL_LIMIT" default:"5"`
}

// StoreConfig carries storefront behaviour knobs that are not persisted settings.
type StoreConfig struct {
	CartTokenHeader string `envconfig:"MEDSUPPLY_CART_TOKEN_HEADER" default:"X-Cart-Token"`
	CORSOrigins     string `envconfig:"MEDSUPPLY_CORS_ORIGINS" default:"http://localhost:3000"`
}

// Origins splits the configured comma-separated CORS origin list.
func (s StoreConfig) Origins() []string {
	parts := strings.Split(s.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MEDSUPPLY_FEATURE_AUTO_MIGRATE" default:"false"`
}
