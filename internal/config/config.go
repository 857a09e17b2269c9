package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every process-wide setting. It is parsed from the environment
// once at startup and passed by reference to the components that need it;
// nothing reads the environment afterwards.
type Config struct {
	Environment string `env:"APP_ENV"          envDefault:"development"`
	Port        int    `env:"PORT"             envDefault:"5000"`

	MongoURI       string `env:"MONGO_URI"         envDefault:"mongodb://localhost:27017"`
	DatabaseName   string `env:"DB_NAME"           envDefault:"farmbit_test"`
	DatabaseLive   string `env:"DB_NAME_LIVE"      envDefault:"farmbit_live"`
	OriginsList    string `env:"ORIGINS_WHITELIST"`
	OriginsLive    string `env:"ORIGINS_WHITELIST_LIVE"`

	TokenSecret        string        `env:"TOKEN_SECRET"`
	TokenIssuer        string        `env:"TOKEN_ISSUER"         envDefault:"farmbit-mobile-api"`
	AccessTokenExpiry  time.Duration `env:"TOKEN_EXPIRY"         envDefault:"15m"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"720h"`
	VerificationExpiry time.Duration `env:"VERIFICATION_EXPIRY"  envDefault:"1h"`

	MaxFileSizeMB int    `env:"MAX_FILE_SIZE_MB" envDefault:"5"`
	FilesDir      string `env:"FILES_DIR"        envDefault:"files"`

	ConsulRegister bool   `env:"CONSUL_REGISTER"  envDefault:"false"`
	ServiceName    string `env:"SERVICE_NAME"     envDefault:"farmbit-mobile-api"`
	AdvertiseHost  string `env:"ADVERTISE_HOST"   envDefault:"localhost"`
}

// Parse builds a Config from environment variables.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the settings that have no usable default.
func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.AccessTokenExpiry >= c.RefreshTokenExpiry {
		return fmt.Errorf("TOKEN_EXPIRY must be shorter than REFRESH_TOKEN_EXPIRY")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}
	return nil
}

// Production reports whether the process runs against the live environment.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// Database returns the environment-selected database name.
func (c *Config) Database() string {
	if c.Production() {
		return c.DatabaseLive
	}
	return c.DatabaseName
}

// AllowedOrigins returns the environment-selected CORS origin allow-list.
func (c *Config) AllowedOrigins() []string {
	raw := c.OriginsList
	if c.Production() {
		raw = c.OriginsLive
	}
	if raw == "" {
		return nil
	}

	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// MaxFileSizeBytes returns the upload size ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}
