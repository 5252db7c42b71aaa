// Package config manages environment variables.
//
// It reads variables from the process environment (and the `.env` file,
// if present), loads them into structured Go types, and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (media, observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any config is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix RECIPES_.
	Keys are normalized (lowercased, prefix removed) and nested struct
	fields are mapped via "dot notation":

		RECIPES_SERVER.PORT          -> server.port          -> Config.Server.Port
		RECIPES_DATABASE.SSL_MODE    -> database.ssl_mode    -> Config.Database.SSLMode
		RECIPES_MEDIA.ROOT           -> media.root           -> Config.Media.Root
*/

// EnvPrefix is the prefix every recognized environment variable carries.
const EnvPrefix = "RECIPES_"

// Config is the root configuration object for the application.
//
// Media and Observability are pointers because they are optional.
// If not provided, defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Media         *MediaConfig         `koanf:"media"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are stored in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// BodyLimit caps request bodies (echo size notation, e.g. "10M").
	// Base64 photos inflate uploads by a third, so keep some headroom.
	BodyLimit string `koanf:"body_limit"`

	// RateLimit is the sustained requests per second allowed per client
	// IP, with bursts of twice that. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// MediaConfig controls where uploaded files live and how they are exposed.
type MediaConfig struct {
	// Root is the filesystem directory uploaded files are written to and
	// served from under /media.
	Root string `koanf:"root" validate:"required"`

	// BaseURL is prepended to stored relative paths when building the
	// public URL of a file (e.g. "/media/" or "https://cdn.example.com/media/").
	BaseURL string `koanf:"base_url" validate:"required"`
}

// DefaultMediaConfig keeps uploads in ./media, served from /media/.
func DefaultMediaConfig() *MediaConfig {
	return &MediaConfig{
		Root:    "media",
		BaseURL: "/media/",
	}
}

// DefaultBodyLimit is applied when server.body_limit is not set.
const DefaultBodyLimit = "10M"

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix RECIPES_
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default media and observability blocks if missing
//   - Overrides observability service name + environment
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	// Defaults are decoded over, so a partial media or observability block
	// keeps the remaining defaults.
	mainConfig := &Config{
		Media:         DefaultMediaConfig(),
		Observability: DefaultObservabilityConfig(),
	}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// koanf reads every env var as a string; a comma separated origin list
	// arrives as a single element.
	mainConfig.Server.CORSAllowedOrigins = splitList(mainConfig.Server.CORSAllowedOrigins)

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if mainConfig.Server.BodyLimit == "" {
		mainConfig.Server.BodyLimit = DefaultBodyLimit
	}

	if mainConfig.Media == nil {
		mainConfig.Media = DefaultMediaConfig()
	}
	if !strings.HasSuffix(mainConfig.Media.BaseURL, "/") {
		mainConfig.Media.BaseURL += "/"
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env so
	// logs and traces agree.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
