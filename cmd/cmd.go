// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// filterFlags are shared by every command that selects songs from the catalog.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Case-insensitive search in title or artist",
		},
		&cli.StringFlag{
			Name:  "era",
			Usage: "Exact era, or \"all\"",
			Value: "all",
		},
		&cli.StringFlag{
			Name:  "artist",
			Usage: "Exact artist, or \"all\"",
			Value: "all",
		},
		&cli.StringFlag{
			Name:  "tag",
			Usage: "Tag the song must carry, or \"all\"",
			Value: "all",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "default, popularityAsc, popularityDesc, energyAsc or energyDesc",
			Value: "default",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "text, markdown, csv or json",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "chords",
			Usage: "Include chord charts",
		},
		&cli.IntFlag{
			Name:    "transpose",
			Aliases: []string{"t"},
			Usage:   "Semitones to shift chord charts by",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of stdout",
		},
	}
}

// setupCommand handles first-run setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and storage",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing and run database migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "config",
				Usage:  "Write the default configuration file",
				Action: r.SetupConfig,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
			},
		},
	}
}

// catalogCommand handles browsing the song catalog
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"songs"},
		Usage:   "Browse the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Filter and print songs",
				Flags: append(append(filterFlags(), outputFlags()...),
					&cli.BoolFlag{
						Name:  "hide-unfiltered",
						Usage: "Print nothing until at least one filter is set",
					},
				),
				Action: r.CatalogList,
			},
			{
				Name:   "artists",
				Usage:  "List distinct artists",
				Flags:  outputFlags(),
				Action: r.CatalogValues(artists),
			},
			{
				Name:   "eras",
				Usage:  "List distinct eras",
				Flags:  outputFlags(),
				Action: r.CatalogValues(eras),
			},
			{
				Name:   "tags",
				Usage:  "List distinct tags",
				Flags:  outputFlags(),
				Action: r.CatalogValues(tags),
			},
			{
				Name:  "chords",
				Usage: "Print a song's chord chart",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "transpose",
						Aliases: []string{"t"},
						Usage:   "Semitones to shift the chart by",
					},
				},
				Action: r.CatalogChords,
			},
		},
	}
}

// setCommand handles building and editing saved sets
func setCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Build, edit and export setlists",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Build a smart set from the filtered catalog",
				Flags: append(append(filterFlags(), exportFlags()...),
					&cli.StringFlag{
						Name:    "save",
						Aliases: []string{"s"},
						Usage:   "Save the set under this name",
					},
				),
				Action: r.SetBuild,
			},
			{
				Name:  "show",
				Usage: "Print or export a saved set",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags:  exportFlags(),
				Action: r.SetShow,
			},
			{
				Name:      "add",
				Usage:     "Append songs to a saved set, creating it if needed",
				ArgsUsage: "NAME ID...",
				Action:    r.SetAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove the song at a 1-based position from a saved set",
				ArgsUsage: "NAME POSITION",
				Action:    r.SetRemove,
			},
			{
				Name:  "clear",
				Usage: "Remove every song from a saved set",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.SetClear,
			},
			{
				Name:   "list",
				Usage:  "List saved sets",
				Flags:  outputFlags(),
				Action: r.SetList,
			},
			{
				Name:  "delete",
				Usage: "Delete a saved set",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.SetDelete,
			},
			{
				Name:      "export",
				Usage:     "Export saved sets to a directory, one file per set",
				ArgsUsage: "[NAME...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "text, markdown, csv or json",
						Value:   "text",
					},
					&cli.BoolFlag{
						Name:  "chords",
						Usage: "Include chord charts",
					},
					&cli.IntFlag{
						Name:    "transpose",
						Aliases: []string{"t"},
						Usage:   "Semitones to shift chord charts by",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: sets_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent exports",
						Value: 4,
					},
				},
				Action: r.SetExport,
			},
		},
	}
}

// stageCommand launches the interactive stage view
func stageCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stage",
		Usage: "Interactive stage mode for a saved set",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Action: r.Stage,
	}
}

// serveCommand runs the HTTP surface for a tablet on stage
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog and saved sets over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Override the configured host",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured port",
			},
		},
		Action: r.Serve,
	}
}
