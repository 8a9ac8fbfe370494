package main

import (
	"github.com/urfave/cli/v3"

	"github.com/handiism/bandcamp-sync/internal/config"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   config.DefaultFileName,
		Sources: cli.EnvVars("BS_CONFIG"),
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "The Bandcamp user whose collection to sync",
		Sources: cli.EnvVars("BS_USER"),
	}
}

func cookiesFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "cookies",
		Usage:   "Cookies file (cookies.json export or Netscape cookies.txt); ./cookies.json then ./cookies.txt when omitted",
		Sources: cli.EnvVars("BS_COOKIES"),
	}
}

// runCommand syncs a collection
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Download every release of a collection not downloaded yet",
		Flags: []cli.Flag{
			configFlag(),
			userFlag(),
			cookiesFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Audio format: flac, wav, aac-hi, mp3-320, aiff-lossless, vorbis, mp3-v0, alac",
				Sources: cli.EnvVars("BS_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output-folder",
				Aliases: []string{"o"},
				Usage:   "The folder to extract downloaded releases to",
				Sources: cli.EnvVars("BS_OUTPUT_FOLDER"),
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "The amount of parallel jobs to use",
				Sources: cli.EnvVars("BS_JOBS"),
			},
			&cli.IntFlag{
				Name:    "limit",
				Usage:   "Maximum number of releases to download (0 for all)",
				Sources: cli.EnvVars("BS_LIMIT"),
			},
			&cli.BoolFlag{
				Name:    "force",
				Usage:   "Download releases already recorded in the cache",
				Sources: cli.EnvVars("BS_FORCE"),
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "List what would be downloaded without downloading",
				Sources: cli.EnvVars("BS_DRY_RUN"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Verbose output, including data blobs that fail to parse",
				Sources: cli.EnvVars("BS_DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "include-hidden",
				Usage:   "Also download releases hidden from the collection",
				Sources: cli.EnvVars("BS_INCLUDE_HIDDEN"),
			},
			&cli.StringFlag{
				Name:    "artist",
				Usage:   "Only download releases whose artist contains this text",
				Sources: cli.EnvVars("BS_ARTIST"),
			},
			&cli.StringFlag{
				Name:    "album",
				Usage:   "Only download releases whose title contains this text",
				Sources: cli.EnvVars("BS_ALBUM"),
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show an interactive progress view",
			},
		},
		Action: r.Sync,
	}
}

// debugCollectionCommand dumps the collection page blob
func debugCollectionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "debug-collection",
		Usage: "Print the collection page data, with download links redacted, for bug reports",
		Flags: []cli.Flag{
			configFlag(),
			userFlag(),
			cookiesFlag(),
			&cli.BoolFlag{
				Name:  "full",
				Usage: "Include every field of the page data",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "Write the dump to " + debugFileName + " instead of printing it",
			},
		},
		Action: r.DebugCollection,
	}
}

// initCommand writes a default configuration file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a configuration file with default values",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: r.Init,
	}
}
