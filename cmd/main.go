package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/services"
	"github.com/wkelton/jellytrek/internal/shared"
)

const (
	defaultConfigPath   = "config.toml"
	configPathEnvVar    = "JELLYTREK_CONFIG"
	jellyfinUserEnvVar  = "JELLYFIN_USER_ID"
	jellyfinTokenEnvVar = "JELLYFIN_TOKEN"
)

// Exit codes shared with scripts wrapping the update command.
const (
	exitError         = 1
	exitEmptyLibrary  = 2
	exitShrinking     = 3
	exitCountMismatch = 4
)

func main() {
	configPath := os.Getenv(configPathEnvVar)
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		shared.NewLogger(nil).Fatalf("failed to load config: %v", err)
	}

	logger, err := shared.NewConfiguredLogger(nil, config.Log)
	if err != nil {
		shared.NewLogger(nil).Fatalf("failed to set up logging: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})
	defer runner.Close()

	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.logger.Error(err)
		runner.Close()
		os.Exit(exitCode(err))
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jellytrek",
		Usage:   "Build and grow a chronological Star Trek playlist in Jellyfin",
		Version: services.ClientVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user-id",
				Usage:   "Jellyfin user id (overrides config and stored sessions)",
				Sources: cli.EnvVars(jellyfinUserEnvVar),
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Jellyfin access token (overrides config and stored sessions)",
				Sources: cli.EnvVars(jellyfinTokenEnvVar),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(r.logger, log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: r.register(),
	}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrEmptyLibrary):
		return exitEmptyLibrary
	case errors.Is(err, shared.ErrShrinkingPlaylist):
		return exitShrinking
	case errors.Is(err, shared.ErrCountMismatch):
		return exitCountMismatch
	default:
		return exitError
	}
}
