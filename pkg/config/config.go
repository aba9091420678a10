package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the backend.
	EnvPrefix = "AGROPAZAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
	CORS          CORSConfig
}

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
	Env           string `envconfig:"AGROPAZAR_APP_ENV" required:"true"`
	Port          string `envconfig:"AGROPAZAR_APP_PORT" default:"8080"`
	LogLevel      string `envconfig:"AGROPAZAR_LOG_LEVEL" default:"info"`
	LogWarnStack  bool   `envconfig:"AGROPAZAR_LOG_WARN_STACK" default:"false"`
	ClientBaseURL string `envconfig:"AGROPAZAR_CLIENT_BASE_URL" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGROPAZAR_DB_DSN"`
	Driver string `envconfig:"AGROPAZAR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"AGROPAZAR_DB_HOST"`
	Port     int    `envconfig:"AGROPAZAR_DB_PORT" default:"5432"`
	User     string `envconfig:"AGROPAZAR_DB_USER"`
	Password string `envconfig:"AGROPAZAR_DB_PASSWORD"`
	Name     string `envconfig:"AGROPAZAR_DB_NAME"`
	SSLMode  string `envconfig:"AGROPAZAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGROPAZAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGROPAZAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGROPAZAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGROPAZAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"AGROPAZAR_DB_AUTO_MIGRATE" default:"false"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("database DSN or host/user/name components are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"AGROPAZAR_REDIS_URL"`
	Address      string        `envconfig:"AGROPAZAR_REDIS_ADDR"`
	Password     string        `envconfig:"AGROPAZAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGROPAZAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGROPAZAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGROPAZAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGROPAZAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGROPAZAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGROPAZAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The API can
// run without redis; login throttling is skipped in that case.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"AGROPAZAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AGROPAZAR_JWT_ISSUER" default:"agropazar"`
	ExpirationMinutes int    `envconfig:"AGROPAZAR_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGROPAZAR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGROPAZAR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGROPAZAR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGROPAZAR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGROPAZAR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"AGROPAZAR_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	Root          string `envconfig:"AGROPAZAR_UPLOADS_ROOT" default:"./uploads"`
	PublicBaseURL string `envconfig:"AGROPAZAR_UPLOADS_PUBLIC_BASE_URL" default:"/api/documents"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"AGROPAZAR_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
