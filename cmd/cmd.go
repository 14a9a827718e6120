// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the session database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the session database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Database path (default: session.path from config, then $XDG_DATA_HOME/mcat/session.db)",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Output path (default: $XDG_CONFIG_HOME/mcat/config.toml)",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

func loginFlags(identity, usage string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  identity,
			Usage: usage,
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Password (or set MCAT_PASSWORD)",
			Sources: cli.EnvVars("MCAT_PASSWORD"),
		},
	}
}

// authCommand handles end-user sign in, sign out and status.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "End-user session commands",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with email and password",
				Flags:  loginFlags("email", "Account email"),
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored credential",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Verify the stored session with the server",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "history",
						Usage: "Number of recent session events to show",
						Value: 5,
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

func matchFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "match",
		Aliases: []string{"m"},
		Usage:   "Keyword matching: include or exact",
		Value:   "include",
	}
}

func lengthFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "min-length", Usage: "Minimum length (H:MM:SS, M:SS or seconds)"},
		&cli.StringFlag{Name: "max-length", Usage: "Maximum length (H:MM:SS, M:SS or seconds)"},
	}
}

// searchCommand handles catalog searches.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Commands: []*cli.Command{
			{
				Name:  "songs",
				Usage: "Search songs",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title keyword"},
					&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Artist keyword"},
					&cli.StringFlag{Name: "provider", Usage: "Provider keyword"},
					&cli.StringFlag{Name: "from", Usage: "Released on or after (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "to", Usage: "Released on or before (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "sort", Usage: "Sort by title, artist, length, release date or provider"},
					&cli.StringFlag{Name: "order", Usage: "ascending or descending"},
					matchFlag(),
				}, lengthFlags()...),
				Action: r.SearchSongs,
			},
			{
				Name:  "playlists",
				Usage: "Search playlists",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title keyword"},
					&cli.StringFlag{Name: "owner", Aliases: []string{"o"}, Usage: "Owner keyword"},
					&cli.StringFlag{Name: "min-songs", Usage: "Minimum song count"},
					&cli.StringFlag{Name: "max-songs", Usage: "Maximum song count"},
					&cli.StringFlag{Name: "min-comments", Usage: "Minimum comment count"},
					&cli.StringFlag{Name: "max-comments", Usage: "Maximum comment count"},
					matchFlag(),
				}, lengthFlags()...),
				Action: r.SearchPlaylists,
			},
			{
				Name:  "artists",
				Usage: "Search artists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Name keyword"},
					&cli.StringFlag{Name: "gender", Usage: "All, male or female"},
					&cli.StringSliceFlag{Name: "role", Usage: "singer, composer or lyricist (repeatable)"},
					matchFlag(),
				},
				Action: r.SearchArtists,
			},
		},
	}
}

// playlistsCommand handles public playlist browsing and export.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse and export playlists",
		Commands: []*cli.Command{
			{
				Name:   "top",
				Usage:  "List the top ranked playlists",
				Action: r.PlaylistsTop,
			},
			{
				Name:      "show",
				Usage:     "Show a playlist with its songs",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.PlaylistsShow,
			},
			{
				Name:      "export",
				Usage:     "Export one or more playlists to files",
				ArgsUsage: "<id>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "as",
						Usage: "File format: json, csv, md or txt",
						Value: "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   ".",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers (1-10)",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Playlist fetches per second",
						Value: 2,
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// accountCommand handles the signed-in user's own data.
func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "Manage your account (requires 'mcat auth login')",
		Commands: []*cli.Command{
			{
				Name:  "playlists",
				Usage: "List your playlists",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tab", Usage: "owned, shared or editable", Value: "owned"},
				},
				Action: r.AccountPlaylists,
			},
			{
				Name:   "comments",
				Usage:  "List your comments",
				Action: r.AccountComments,
			},
			{
				Name:  "password",
				Usage: "Change your password",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "current", Usage: "Current password", Sources: cli.EnvVars("MCAT_PASSWORD")},
					&cli.StringFlag{Name: "new", Usage: "New password (at least 8 characters)", Sources: cli.EnvVars("MCAT_NEW_PASSWORD")},
				},
				Action: r.AccountPassword,
			},
			{
				Name:      "nickname",
				Usage:     "Change your display name",
				Arguments: []cli.Argument{&cli.StringArg{Name: "nickname"}},
				Action:    r.AccountNickname,
			},
			{
				Name:  "delete",
				Usage: "Delete your account",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm deletion"},
				},
				Action: r.AccountDelete,
			},
		},
	}
}

func deleteCommand(r *Runner, entity string) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete one or more " + entity + "s by ID",
		ArgsUsage: "<id>...",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Usage: "Concurrent deletes (1-10)", Value: 3},
			&cli.Float64Flag{Name: "rate", Usage: "Deletes per second", Value: 5},
		},
		Action: r.adminDelete(entity),
	}
}

// adminCommand handles the management namespace.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Catalog management (requires 'mcat admin auth login')",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Administrator session commands",
				Commands: []*cli.Command{
					{
						Name:   "login",
						Usage:  "Sign in as an administrator",
						Flags:  loginFlags("username", "Administrator username"),
						Action: r.AdminLogin,
					},
					{
						Name:   "logout",
						Usage:  "Sign out the administrator",
						Action: r.AdminLogout,
					},
				},
			},
			{
				Name:  "artists",
				Usage: "Manage artists",
				Commands: []*cli.Command{
					{Name: "list", Aliases: []string{"ls"}, Usage: "List artists", Action: r.AdminArtists},
					{
						Name:      "show",
						Usage:     "Show one artist",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Action:    r.AdminArtist,
					},
					{
						Name:  "create",
						Usage: "Create an artist",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true, Usage: "Artist name"},
							&cli.StringFlag{Name: "gender", Usage: "M or F; omit for groups"},
							&cli.StringSliceFlag{Name: "role", Usage: "singer, composer or lyricist (repeatable)"},
						},
						Action: r.AdminCreateArtist,
					},
					deleteCommand(r, "artist"),
				},
			},
			{
				Name:  "providers",
				Usage: "Manage streaming providers",
				Commands: []*cli.Command{
					{Name: "list", Aliases: []string{"ls"}, Usage: "List providers", Action: r.AdminProviders},
					{
						Name:  "create",
						Usage: "Create a provider",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true, Usage: "Provider name"},
							&cli.StringFlag{Name: "link", Required: true, Usage: "Provider home page URL"},
						},
						Action: r.AdminCreateProvider,
					},
					{
						Name:      "open",
						Usage:     "Open a provider's page in the browser",
						Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
						Action:    r.AdminOpenProvider,
					},
					deleteCommand(r, "provider"),
				},
			},
			{
				Name:  "requests",
				Usage: "Review song requests",
				Commands: []*cli.Command{
					{Name: "list", Aliases: []string{"ls"}, Usage: "List song requests", Action: r.AdminRequests},
					deleteCommand(r, "request"),
				},
			},
			{
				Name:  "dump",
				Usage: "Snapshot artists, providers and requests as JSON",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
					&cli.StringFlag{Name: "save", Usage: "Also write the dump to this file"},
				},
				Action: r.AdminDump,
			},
		},
	}
}

// tuiCommand launches the interactive browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the catalog interactively",
		Action: r.TUI,
	}
}
