// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/formatter"
)

func formatNames() string {
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func manifestArg() cli.Argument {
	return &cli.StringArg{Name: "manifest", UsageText: "pipe-delimited viewing order file"}
}

func playlistArg() cli.Argument {
	return &cli.StringArg{Name: "playlist", UsageText: "playlist name"}
}

// setupCommand handles database setup and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize the session database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Revert the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// loginCommand authenticates against Jellyfin and stores the session.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in to Jellyfin with a username and password and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "username",
				Aliases:  []string{"u"},
				Usage:    "Jellyfin username",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Jellyfin password",
				Sources: cli.EnvVars("JELLYFIN_PASSWORD"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Login,
	}
}

// sessionsCommand manages stored logins.
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Manage stored Jellyfin sessions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List stored sessions, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include sessions for other servers",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionsList,
			},
			{
				Name:      "delete",
				Usage:     "Forget a stored session",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.SessionsDelete,
			},
		},
	}
}

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Report format (" + formatNames() + ")",
			Value:   string(formatter.FormatText),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write the report to a file instead of stdout",
		},
	}
}

// checkVideosCommand reconciles a manifest against the catalog.
func checkVideosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check-videos",
		Usage:     "Match every manifest entry against the Jellyfin libraries and report the misses",
		Arguments: []cli.Argument{manifestArg()},
		Flags:     reportFlags(),
		Action:    r.CheckVideos,
	}
}

// checkPlaylistCommand compares a playlist with the manifest order.
func checkPlaylistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "check-playlist",
		Usage:     "Compare an existing playlist with the manifest position by position",
		Arguments: []cli.Argument{manifestArg(), playlistArg()},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.CheckPlaylist,
	}
}

// createPlaylistCommand creates a playlist from the manifest.
func createPlaylistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "create-playlist",
		Usage:     "Create a playlist holding every matched video in manifest order",
		Arguments: []cli.Argument{manifestArg(), playlistArg()},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the new playlist in the Jellyfin web client",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.CreatePlaylist,
	}
}

// updatePlaylistCommand grows a playlist with newly matched videos.
func updatePlaylistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "update-playlist",
		Usage:     "Insert newly matched videos into an existing playlist at their manifest positions",
		Arguments: []cli.Argument{manifestArg(), playlistArg()},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Print the planned moves without changing the playlist",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.UpdatePlaylist,
	}
}

// reviewCommand launches the interactive report browser.
func reviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "review",
		Aliases:   []string{"ui"},
		Usage:     "Browse match results interactively",
		Arguments: []cli.Argument{manifestArg()},
		Action:    r.Review,
	}
}
