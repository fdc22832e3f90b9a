package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/spice-console/internal/common"
	"github.com/Veraticus/spice-console/internal/model"
	"github.com/spf13/viper"
)

// Backend names accepted by the backend key.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Defaults applied when a key is absent.
const (
	DefaultDatabasePath   = "$HOME/.local/share/spice/admin.db"
	DefaultLogFile        = "$HOME/.local/share/spice/console.log"
	DefaultServerAddr     = "127.0.0.1:8787"
	DefaultPageSize       = 10
	DefaultRequestTimeout = 10 * time.Second
)

// Config is the resolved runtime configuration of spice-admin.
type Config struct {
	Server   ServerConfig
	Remote   RemoteConfig
	Backend  string
	Database string
	LogFile  string
	Console  ConsoleConfig
}

// RemoteConfig points the console at an HTTP collaborator.
type RemoteConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Tokens maps bearer tokens to the identity they authenticate.
	Tokens map[string]model.Identity
	Addr   string
}

// TokenEntry is one element of the server.tokens list.
type TokenEntry struct {
	Token   string   `mapstructure:"token"`
	Subject string   `mapstructure:"subject"`
	Name    string   `mapstructure:"name"`
	Roles   []string `mapstructure:"roles"`
}

// ConsoleConfig tunes the interactive console.
type ConsoleConfig struct {
	PageSize       int
	RequestTimeout time.Duration
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("backend", BackendLocal)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.file", DefaultLogFile)
	v.SetDefault("remote.timeout", DefaultRequestTimeout)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("console.page_size", DefaultPageSize)
	v.SetDefault("console.request_timeout", DefaultRequestTimeout)
}

// Load resolves configuration from v.
// It follows this precedence:
// 1. Viper configuration (from config file or SPICE_ADMIN_ env vars)
// 2. Direct environment variables (SPICE_TOKEN, SPICE_URL)
// 3. Default values
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := Config{
		Backend:  strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		Database: ExpandPath(v.GetString("database.path")),
		LogFile:  ExpandPath(v.GetString("logging.file")),
		Remote: RemoteConfig{
			URL:     strings.TrimRight(v.GetString("remote.url"), "/"),
			Token:   v.GetString("remote.token"),
			Timeout: v.GetDuration("remote.timeout"),
		},
		Server: ServerConfig{
			Addr:   v.GetString("server.addr"),
			Tokens: map[string]model.Identity{},
		},
		Console: ConsoleConfig{
			PageSize:       v.GetInt("console.page_size"),
			RequestTimeout: v.GetDuration("console.request_timeout"),
		},
	}

	// Listed rather than keyed because viper lowercases map keys.
	var entries []TokenEntry
	if err := v.UnmarshalKey("server.tokens", &entries); err != nil {
		return nil, fmt.Errorf("%w: server.tokens: %v", common.ErrInvalidConfig, err)
	}
	for _, entry := range entries {
		cfg.Server.Tokens[entry.Token] = model.Identity{
			Subject:     entry.Subject,
			DisplayName: entry.Name,
			Roles:       entry.Roles,
		}
	}

	// Override with direct environment variables if not set
	if cfg.Remote.Token == "" {
		cfg.Remote.Token = os.Getenv("SPICE_TOKEN")
	}
	if cfg.Remote.URL == "" {
		cfg.Remote.URL = strings.TrimRight(os.Getenv("SPICE_URL"), "/")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values the commands cannot work with.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal:
		if c.Database == "" {
			return fmt.Errorf("%w: database.path is required for the local backend", common.ErrMissingConfig)
		}
	case BackendRemote:
		if c.Remote.URL == "" {
			return fmt.Errorf("%w: remote.url is required for the remote backend", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", common.ErrInvalidConfig, c.Backend)
	}

	if c.Console.PageSize <= 0 {
		return fmt.Errorf("%w: console.page_size must be positive", common.ErrInvalidConfig)
	}
	if c.Console.RequestTimeout <= 0 {
		return fmt.Errorf("%w: console.request_timeout must be positive", common.ErrInvalidConfig)
	}

	for token, identity := range c.Server.Tokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: empty token in server.tokens", common.ErrInvalidConfig)
		}
		if identity.Subject == "" {
			return fmt.Errorf("%w: token for %q has no subject", common.ErrInvalidConfig, identity.DisplayName)
		}
	}

	return nil
}
