package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
	Setup    SetupConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" envDefault:"8080"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"development"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	AllowedOrigins string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"hr"`
	Password     string `env:"DB_PASSWORD" envDefault:"hr"`
	DBName       string `env:"DB_NAME" envDefault:"hrdb"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type JWTConfig struct {
	PrivateKeyPath    string        `env:"JWT_PRIVATE_KEY_PATH" envDefault:"./keys/private.pem"`
	PublicKeyPath     string        `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./keys/public.pem"`
	AccessTokenExpiry time.Duration `env:"JWT_ACCESS_EXPIRY" envDefault:"8h"`
	Issuer            string        `env:"JWT_ISSUER" envDefault:"hr-service"`
}

type AuthConfig struct {
	MaxFailedLogins int           `env:"AUTH_MAX_FAILED_LOGINS" envDefault:"5"`
	LockDuration    time.Duration `env:"AUTH_LOCK_DURATION" envDefault:"15m"`
	// SessionPruneInterval is how often expired sessions are deleted.
	SessionPruneInterval time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"1h"`
}

type KafkaConfig struct {
	Brokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	SessionTopic string   `env:"KAFKA_SESSION_TOPIC" envDefault:"hr.sessions"`
}

// SetupConfig guards the one-time bootstrap of the first platform admin.
type SetupConfig struct {
	Token string `env:"SETUP_TOKEN"`
}

func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Auth.MaxFailedLogins <= 0 {
		return nil, fmt.Errorf("AUTH_MAX_FAILED_LOGINS must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
