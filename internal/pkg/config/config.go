package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const EnvDevelopment = "development"

type Config struct {
	Port       string `env:"PORT,         default=3001"`
	Env        string `env:"ENV,          default=development"`
	LogLevel   string `env:"LOG_LEVEL,    default=info"`
	AppBaseURL string `env:"APP_BASE_URL, default=http://localhost:3001"`
	BcryptCost int    `env:"BCRYPT_COST,  default=10"`
	SentryDSN  string `env:"SENTRY_DSN"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Session SessionConfig
	JWT     JWTConfig
	SMTP    SMTPConfig
	Admin   AdminConfig
}

type MongoConfig struct {
	URI      string `env:"MONGODB_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,    default=crud_app"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET, default=change-me-in-production"`
	TTL    time.Duration `env:"SESSION_TTL,    default=24h"`
}

// JWTConfig enables bearer tokens when Secret is set.
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL, default=24h"`
}

type SMTPConfig struct {
	Host   string `env:"SMTP_HOST,   default=smtp.gmail.com"`
	Port   int    `env:"SMTP_PORT,   default=587"`
	User   string `env:"SMTP_USER"`
	Pass   string `env:"SMTP_PASS"`
	Secure bool   `env:"SMTP_SECURE, default=false"`
	From   string `env:"MAIL_FROM"`
}

type AdminConfig struct {
	Name     string `env:"ADMIN_NAME, default=Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
