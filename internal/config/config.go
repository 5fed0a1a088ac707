package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	// MinJWTSecretLength is the minimum accepted HS256 signing key size.
	MinJWTSecretLength = 32

	DefaultSeedAdminPassword = "admin123"
)

// knownWeakSecrets are example values that must never sign real tokens.
var knownWeakSecrets = []string{
	"church-secret-key-123",
	"change-me-to-a-32-byte-secret-key",
	"dev-secret-key-change-in-production",
}

type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	Env         string `env:"APP_ENV" envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"pastoral.db"`
	CORSOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	SeedAdminName     string `env:"SEED_ADMIN_NAME" envDefault:"Administrador"`
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@elo.com"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD" envDefault:"admin123"`

	// Member lifecycle tightening, both off by default.
	StrictStatusTransitions bool `env:"STRICT_STATUS_TRANSITIONS" envDefault:"false"`
	OwnershipScopedEdits    bool `env:"OWNERSHIP_SCOPED_EDITS" envDefault:"false"`

	LoginRateLimit   float64       `env:"LOGIN_RATE_LIMIT" envDefault:"0.5"`
	LoginBurst       int           `env:"LOGIN_BURST" envDefault:"5"`
	LoginMaxFailures int           `env:"LOGIN_MAX_FAILURES" envDefault:"5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT" envDefault:"15m"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesDefaultAdminPassword is true while the seed admin still has the shipped password.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.SeedAdminPassword == DefaultSeedAdminPassword
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse builds a Config from the process environment (or opts.Environment
// when set) and validates it.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d", MinJWTSecretLength, len(c.JWTSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("JWT_SECRET is a known default value and must not be used")
		}
	}

	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if strings.TrimSpace(c.SeedAdminEmail) == "" || c.SeedAdminPassword == "" {
		return fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD are required")
	}
	return nil
}

// CORSOriginList splits CORS_ALLOWED_ORIGINS into trimmed entries.
func (c *Config) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
