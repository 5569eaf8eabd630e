package internal

import "log/slog"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config       *Config
	logger       *slog.Logger
	version      string
	fromArtifact bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogger replaces the default JSON logger on stdout.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithArtifactSource serves the generated artifact instead of the notes
// directory. The directory is not watched.
func WithArtifactSource() Option {
	return func(a *application) {
		a.fromArtifact = true
	}
}
