package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/noteweave/internal"
	pkgconfig "github.com/starford/noteweave/pkg/config"
)

var version = "dev"

// loadConfig reads the config file named by --config. A missing file is only
// an error when the flag was set explicitly; otherwise defaults are used.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); err == nil || cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if dir := cmd.String("dir"); dir != "" {
		cfg.Notes.Dir = dir
	}
	if out := cmd.String("out"); out != "" {
		cfg.Artifact.Path = out
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func stderrLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sum, err := internal.Build(ctx,
		internal.WithConfig(cfg),
		internal.WithLogger(stderrLogger(cfg.App.LogLevel)),
	)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	for _, w := range sum.Report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Fprintf(os.Stdout, "Generated %d notes in %s\n", sum.Notes, sum.Path)
	return nil
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	warnings, err := internal.Check(ctx,
		internal.WithConfig(cfg),
		internal.WithLogger(stderrLogger(slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stdout, w)
	}
	if len(warnings) == 0 {
		fmt.Fprintln(os.Stdout, "no problems found")
		return nil
	}
	if cmd.Bool("strict") {
		return fmt.Errorf("check: %d warnings", len(warnings))
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}
	if cmd.Bool("from-artifact") {
		opts = append(opts, internal.WithArtifactSource())
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogger(stderrLogger(cfg.App.LogLevel)),
		internal.WithVersion(version),
	}
	if cmd.Bool("from-artifact") {
		opts = append(opts, internal.WithArtifactSource())
	}
	return internal.ServeMCP(ctx, opts...)
}

func main() {
	dirFlag := &cli.StringFlag{
		Name:  "dir",
		Usage: "Notes directory (overrides notes.dir)",
	}
	fromArtifactFlag := &cli.BoolFlag{
		Name:  "from-artifact",
		Usage: "Serve the generated artifact instead of the notes directory",
	}

	cmd := &cli.Command{
		Name:    "noteweave",
		Usage:   "Markdown notes with wiki-links, built into a JSON artifact or served over HTTP and MCP",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (.yaml or .toml)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build the notes directory into the JSON artifact",
				Flags: []cli.Flag{
					dirFlag,
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Artifact path (overrides artifact.path)",
					},
				},
				Action: build,
			},
			{
				Name:  "check",
				Usage: "Report skipped documents, duplicate titles and broken links",
				Flags: []cli.Flag{
					dirFlag,
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Exit non-zero when warnings are found",
					},
				},
				Action: check,
			},
			{
				Name:   "serve",
				Usage:  "Serve the notes over HTTP with live reload",
				Flags:  []cli.Flag{dirFlag, fromArtifactFlag},
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the notes over MCP on stdin/stdout",
				Flags:  []cli.Flag{dirFlag, fromArtifactFlag},
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
