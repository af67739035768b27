package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"time"

	"photogram/core/email/adapters/cleanup"
	"photogram/core/email/adapters/smtp"
	imagedomain "photogram/core/image/domain"
	"photogram/modules/auth"
	"photogram/modules/db/postgres"
	"photogram/modules/db/redis"
	"photogram/modules/hmac"
	"photogram/modules/middleware/ratelimit"
	"photogram/modules/server"
	"photogram/modules/telemetry"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultDotEnv = ".env"

type Config struct {
	Env      string     `env:"ENV"       envDefault:"dev"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	Server ServerConfig `envPrefix:"SERVER_"`

	// --- core infra ----
	HMAC     hmac.HMACConfig         `envPrefix:"HMAC_"`
	Redis    redis.RedisConfig       `envPrefix:"REDIS_"`
	Postgres postgres.PostgresConfig `envPrefix:"POSTGRES_"`

	// --- domain ----
	JWT     auth.Config        `envPrefix:"JWT_"`
	Mail    MailConfig         `envPrefix:"MAIL_"`
	Image   imagedomain.Config `envPrefix:"IMAGE_"`
	Post    PostConfig         `envPrefix:"POST_"`
	User    UserConfig         `envPrefix:"USER_"`
	Cleanup cleanup.Config     `envPrefix:"CLEANUP_"`

	// --- middlewares ----
	RateLimit ratelimit.RestHTTPConfig `envPrefix:"RATE_LIMIT_"`

	// --- otel ----
	// since it has special naming conventions, we do not use prefix here
	Otel telemetry.Config
}

type (
	ServerConfig struct {
		Host            string        `env:"HOST"             envDefault:"0.0.0.0"`
		Port            int           `env:"PORT"             envDefault:"8080"`
		ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"10s"`
		WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

		// ValidateRequests checks every request against the embedded OpenAPI document.
		ValidateRequests bool `env:"VALIDATE_REQUESTS" envDefault:"true"`
	}

	MailConfig struct {
		SMTP smtp.Config `envPrefix:"SMTP_"`

		ConfirmationTTL    time.Duration `env:"CONFIRMATION_TTL"     envDefault:"24h"`
		ConfirmationURL    string        `env:"CONFIRMATION_URL"     envDefault:"http://localhost:8080/users/confirm"`
		ConfirmationTitle  string        `env:"CONFIRMATION_TITLE"   envDefault:"Confirm your Photogram account"`
		PasswordResetTitle string        `env:"PASSWORD_RESET_TITLE" envDefault:"Your new Photogram password"`

		Workers int `env:"WORKERS" envDefault:"2"`
		Buffer  int `env:"BUFFER"  envDefault:"128"`
	}

	PostConfig struct {
		CursorTTL time.Duration `env:"CURSOR_TTL" envDefault:"1h"`
	}

	UserConfig struct {
		BcryptCost    int   `env:"BCRYPT_COST"     envDefault:"10"`
		MaxAvatarSize int64 `env:"MAX_AVATAR_SIZE" envDefault:"2097152"`
	}
)

// Load reads an optional dotenv file, then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadDotEnv reads DOTENV_PATH, or .env when unset. Only an explicitly named
// file is required to exist.
func loadDotEnv() error {
	path, explicit := os.LookupEnv("DOTENV_PATH")
	if !explicit || path == "" {
		path, explicit = defaultDotEnv, false
	}

	err := godotenv.Load(path)
	switch {
	case err == nil:
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("appconfig: load %s: %w", path, err)
	}
}

func validate(c *Config) error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > server.MAX_TCP_PORT {
		errs = append(errs, fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port))
	}
	if c.JWT.Secret == c.HMAC.Secret {
		errs = append(errs, errors.New("JWT_SECRET and HMAC_SECRET must differ"))
	}
	if c.Env == "prod" && len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes in prod"))
	}
	if c.JWT.Expiration <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if u, err := url.Parse(c.Mail.ConfirmationURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("MAIL_CONFIRMATION_URL %q is not an absolute URL", c.Mail.ConfirmationURL))
	}
	if c.Image.MaxSize <= 0 || c.User.MaxAvatarSize <= 0 {
		errs = append(errs, errors.New("IMAGE_MAX_SIZE and USER_MAX_AVATAR_SIZE must be positive"))
	}
	if s := c.RateLimit.Store; s != ratelimit.RedisStore && s != ratelimit.MemoryStore {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE %q is neither %q nor %q", s, ratelimit.RedisStore, ratelimit.MemoryStore))
	}
	if c.Cleanup.LockAtLeastFor > c.Cleanup.LockAtMostFor {
		errs = append(errs, errors.New("CLEANUP_LOCK_AT_LEAST_FOR exceeds CLEANUP_LOCK_AT_MOST_FOR"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("appconfig: %w", errors.Join(errs...))
	}
	return nil
}
