package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Firefox FirefoxConfig     `yaml:"firefox"`
	Archive ArchiveConfig     `yaml:"archive"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Watch   WatchConfig       `yaml:"watch"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Firefox.Validate(); err != nil {
		return err
	}
	if err := c.Archive.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the status API server configuration (serve mode only).
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// FirefoxConfig selects the profile and the bookmark folder to archive.
//
// ProfileDir may be empty, in which case the default profile is resolved
// from ~/.mozilla/firefox/profiles.ini.
type FirefoxConfig struct {
	ProfileDir string `yaml:"profile_dir"`
	FolderName string `yaml:"folder_name"`
}

// Validate validates the Firefox configuration.
func (c *FirefoxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FolderName, validation.Required),
	)
}

// ArchiveConfig holds the archiver command and output locations.
type ArchiveConfig struct {
	DestinationDir string   `yaml:"destination_dir"`
	ProcessedLog   string   `yaml:"processed_log"`
	Command        []string `yaml:"command"`
}

// Validate validates the archive configuration.
func (c *ArchiveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DestinationDir, validation.Required),
		validation.Field(&c.ProcessedLog, validation.Required),
		validation.Field(&c.Command, validation.Required, validation.Length(1, 0)),
	)
}

// CatalogConfig holds the SQLite catalog location.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// WatchConfig controls backup-directory watching in serve mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Debounce returns the watch debounce interval.
func (c *WatchConfig) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// AuthConfig holds status API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Empty mode means disabled.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Firefox: FirefoxConfig{
			FolderName: "Archive",
		},
		Archive: ArchiveConfig{
			DestinationDir: "./archive",
			ProcessedLog:   "./processed_urls.log",
			Command:        []string{"npx", "single-file"},
		},
		Catalog: CatalogConfig{
			Path: "./raido.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
