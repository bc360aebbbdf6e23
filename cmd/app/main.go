package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/starford/tiwaz/internal"
	pkgconfig "github.com/starford/tiwaz/pkg/config"
)

var version = "dev"

// loadConfig overlays the config file on the built-in defaults. A missing
// file is only an error when --config was given explicitly.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), cmd.IsSet("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func printTree(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	plain := cmd.Bool("plain") || !isatty.IsTerminal(os.Stdout.Fd())
	return internal.PrintTree(ctx, os.Stdout, internal.TreeOptions{
		Open:  cmd.String("open"),
		All:   cmd.Bool("all"),
		Plain: plain,
	}, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Check(ctx, os.Stdout, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx,
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithLogOutput(os.Stderr))
}

func main() {
	cmd := &cli.Command{
		Name:    "tiwaz",
		Usage:   "Objectives dashboard: company, department and individual goals as an expandable tree",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the dashboard, JSON API and event stream",
				Action: serve,
			},
			{
				Name:   "tree",
				Usage:  "Print the objectives tree",
				Action: printTree,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "open", Usage: "Comma-separated objective ids to expand"},
					&cli.BoolFlag{Name: "all", Usage: "Expand every objective"},
					&cli.BoolFlag{Name: "plain", Usage: "Disable colours"},
				},
			},
			{
				Name:   "check",
				Usage:  "Validate the dataset and print warnings",
				Action: check,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: serveMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
