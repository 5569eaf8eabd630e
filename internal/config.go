package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/noteweave/internal/artifact"
	"github.com/starford/noteweave/internal/notes"
	"github.com/starford/noteweave/internal/render"
	"github.com/starford/noteweave/internal/search"
	"github.com/starford/noteweave/internal/watcher"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app" toml:"app"`
	Notes    NotesConfig       `yaml:"notes" toml:"notes"`
	Artifact ArtifactConfig    `yaml:"artifact" toml:"artifact"`
	Render   RenderConfig      `yaml:"render" toml:"render"`
	Search   SearchConfig      `yaml:"search" toml:"search"`
	Watch    WatchConfig       `yaml:"watch" toml:"watch"`
	Auth     AuthConfig        `yaml:"auth" toml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if err := c.Artifact.Validate(); err != nil {
		return fmt.Errorf("artifact: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NotesConfig describes the notes directory.
type NotesConfig struct {
	Dir          string             `yaml:"dir" toml:"dir"`
	Extensions   []string           `yaml:"extensions" toml:"extensions"`
	DateFallback notes.DateFallback `yaml:"date_fallback" toml:"date_fallback"`
}

var errExtension = errors.New("must start with '.'")

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	if len(c.Extensions) == 0 {
		c.Extensions = notes.DefaultExtensions
	}
	if c.DateFallback == "" {
		c.DateFallback = notes.FallbackModTime
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.Extensions, validation.Each(validation.By(func(v any) error {
			if s, _ := v.(string); !strings.HasPrefix(s, ".") {
				return errExtension
			}
			return nil
		}))),
		validation.Field(&c.DateFallback, validation.In(notes.FallbackModTime, notes.FallbackNow)),
	)
}

// ArtifactConfig holds the path of the generated JSON artifact.
type ArtifactConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Validate validates the artifact configuration.
func (c *ArtifactConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// RenderConfig controls HTML rendering.
type RenderConfig struct {
	BasePath   string   `yaml:"base_path" toml:"base_path"`
	EscapeHTML bool     `yaml:"escape_html" toml:"escape_html"`
	AutoLink   bool     `yaml:"auto_link" toml:"auto_link"`
	Keywords   []string `yaml:"keywords" toml:"keywords"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if c.BasePath == "" {
		c.BasePath = render.DefaultBasePath
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.BasePath, validation.By(func(any) error {
			if !strings.HasPrefix(c.BasePath, "/") {
				return errors.New("must start with '/'")
			}
			return nil
		})),
		validation.Field(&c.Keywords, validation.Each(validation.Required)),
	)
}

// Options converts the section into render options.
func (c *RenderConfig) Options() render.Options {
	return render.Options{
		BasePath:   c.BasePath,
		EscapeHTML: c.EscapeHTML,
		AutoLink:   c.AutoLink,
		Keywords:   c.Keywords,
	}
}

// SearchConfig holds the query index database configuration.
type SearchConfig struct {
	DSN string `yaml:"dsn" toml:"dsn"`
}

// Validate validates the search configuration.
func (c *SearchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DSN, validation.Required),
	)
}

// WatchConfig controls the notes directory watcher used by serve.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled" toml:"enabled"`
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" toml:"mode"`
	Token string `yaml:"token" toml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
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
		Notes: NotesConfig{
			Dir:          "./notes",
			Extensions:   notes.DefaultExtensions,
			DateFallback: notes.FallbackModTime,
		},
		Artifact: ArtifactConfig{
			Path: "./" + artifact.DefaultPath,
		},
		Render: RenderConfig{
			BasePath: render.DefaultBasePath,
			AutoLink: true,
			Keywords: render.DefaultKeywords,
		},
		Search: SearchConfig{
			DSN: search.MemoryDSN,
		},
		Watch: WatchConfig{
			Enabled:  true,
			Debounce: watcher.DefaultDebounce,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
