// Package config assembles the typed service configuration.
//
// Values come from three layers, later layers winning: built-in defaults,
// the TOML config store, and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// Session store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Defaults applied before the file and environment layers.
const (
	DefaultAddr        = ":5000"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultIdleTTL     = 30 * 24 * time.Hour
)

// Config is the complete service configuration.
type Config struct {
	Server  ServerConfig
	Google  GoogleConfig
	Session SessionConfig
	// HTTPTimeout bounds every outbound call to the provider.
	HTTPTimeout time.Duration
	Verbose     bool
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Addr string
	// PublicURL is the externally visible base URL used to build the
	// callback URL. Empty derives it from each request.
	PublicURL string
}

// GoogleConfig holds the OAuth client registration and API limits.
type GoogleConfig struct {
	Provider          domain.OAuthProviderConfig
	RequestsPerSecond float64
	Burst             int
}

// SessionConfig selects and tunes the session store.
type SessionConfig struct {
	Driver  string
	DataDir string
	// SecureCookie forces the Secure flag on the session cookie.
	SecureCookie bool
	// IdleTTL is how long an untouched sqlite session is kept.
	IdleTTL time.Duration
}

// envOverrides holds raw environment values. Zero values mean unset.
type envOverrides struct {
	Addr          string        `env:"SIGNIN_ADDR"`
	PublicURL     string        `env:"SIGNIN_PUBLIC_URL"`
	ClientID      string        `env:"GOOGLE_ID"`
	ClientSecret  string        `env:"GOOGLE_SECRET"`
	Scopes        []string      `env:"GOOGLE_SCOPES"         envSeparator:","`
	SessionDriver string        `env:"SIGNIN_SESSION_DRIVER"`
	DataDir       string        `env:"SIGNIN_DATA_DIR"`
	HTTPTimeout   time.Duration `env:"SIGNIN_HTTP_TIMEOUT"`
	Verbose       bool          `env:"SIGNIN_VERBOSE"`
}

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: DefaultAddr},
		Google: GoogleConfig{
			Provider: domain.OAuthProviderConfig{}.WithDefaults(),
		},
		Session: SessionConfig{
			Driver:  DriverMemory,
			IdleTTL: DefaultIdleTTL,
		},
		HTTPTimeout: DefaultHTTPTimeout,
	}
}

// Load builds the configuration from store and the process environment.
// store may be nil.
func Load(store driven.ConfigStore) (Config, error) {
	cfg := Default()
	if store != nil {
		if err := cfg.applyStore(store); err != nil {
			return Config{}, err
		}
	}

	var raw envOverrides
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.applyEnv(raw)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyStore(store driven.ConfigStore) error {
	setString(&c.Server.Addr, store.GetString("server.addr"))
	setString(&c.Server.PublicURL, store.GetString("server.public_url"))

	p := &c.Google.Provider
	setString(&p.ClientID, store.GetString("google.client_id"))
	setString(&p.ClientSecret, store.GetString("google.client_secret"))
	setString(&p.AuthURL, store.GetString("google.auth_url"))
	setString(&p.TokenURL, store.GetString("google.token_url"))
	setString(&p.APIBaseURL, store.GetString("google.api_base_url"))
	if scopes := store.GetStringSlice("google.scopes"); len(scopes) > 0 {
		p.Scopes = scopes
	}
	if rps := store.GetFloat("google.requests_per_second"); rps > 0 {
		c.Google.RequestsPerSecond = rps
	}
	if burst := store.GetInt("google.burst"); burst > 0 {
		c.Google.Burst = burst
	}

	setString(&c.Session.Driver, store.GetString("session.driver"))
	setString(&c.Session.DataDir, store.GetString("session.data_dir"))
	if store.GetBool("session.secure_cookie") {
		c.Session.SecureCookie = true
	}
	if ttl := store.GetString("session.idle_ttl"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("%w: session.idle_ttl: %v", domain.ErrInvalidInput, err)
		}
		c.Session.IdleTTL = d
	}

	if secs := store.GetInt("http.timeout_seconds"); secs > 0 {
		c.HTTPTimeout = time.Duration(secs) * time.Second
	}
	if store.GetBool("log.verbose") {
		c.Verbose = true
	}
	return nil
}

func (c *Config) applyEnv(raw envOverrides) {
	setString(&c.Server.Addr, raw.Addr)
	setString(&c.Server.PublicURL, raw.PublicURL)
	setString(&c.Google.Provider.ClientID, raw.ClientID)
	setString(&c.Google.Provider.ClientSecret, raw.ClientSecret)
	if len(raw.Scopes) > 0 {
		c.Google.Provider.Scopes = raw.Scopes
	}
	setString(&c.Session.Driver, raw.SessionDriver)
	setString(&c.Session.DataDir, raw.DataDir)
	if raw.HTTPTimeout > 0 {
		c.HTTPTimeout = raw.HTTPTimeout
	}
	if raw.Verbose {
		c.Verbose = true
	}
}

// Validate checks the settings the server cannot start without.
func (c Config) Validate() error {
	if err := c.Google.Provider.Validate(); err != nil {
		return fmt.Errorf("google client id and secret are required (set GOOGLE_ID and GOOGLE_SECRET): %w", err)
	}
	switch c.Session.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown session driver %q", domain.ErrInvalidInput, c.Session.Driver)
	}
	if c.Server.PublicURL != "" && !strings.HasPrefix(c.Server.PublicURL, "http") {
		return fmt.Errorf("%w: server.public_url must be an http(s) URL", domain.ErrInvalidInput)
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
