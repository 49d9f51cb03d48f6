package main

import (
	"context"

	"github.com/desertthunder/weeklymix/internal/formatter"
	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/repositories"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/desertthunder/weeklymix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Run executes the weekly playlist sequence: create this week's playlist,
// search for the configured track, attach it.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	opts := tasks.RunOptsFromConfig(r.config.Playlist)
	if q := cmd.String("query"); q != "" {
		opts.Query = q
	}
	if p := cmd.String("prefix"); p != "" {
		opts.NamePrefix = p
	}
	if cmd.Bool("public") {
		opts.Public = true
	}

	r.logger.Info("starting weekly run", "query", opts.Query)

	result, err := r.runEngine(ctx, func(progress chan tasks.ProgressUpdate) (*tasks.RunResult, error) {
		return r.engine.RunOnce(ctx, progress, opts)
	})
	if err != nil {
		return err
	}

	if !cmd.Bool("no-history") {
		r.recordRun(result)
	}

	return r.summarize(cmd, result)
}

// Drops executes the new-release scan across the configured artists.
func (r *Runner) Drops(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd)

	opts := tasks.DropsOptsFromConfig(r.config.Playlist)
	if artists := cmd.StringSlice("artist"); len(artists) > 0 {
		opts.Artists = artists
	}
	if days := cmd.Int("lookback"); days > 0 {
		opts.LookbackDays = int(days)
	}
	if max := cmd.Int("max-per-artist"); max > 0 {
		opts.MaxPerArtist = int(max)
	}
	if cmd.Bool("public") {
		opts.Public = true
	}

	r.logger.Info("starting drops run", "artists", len(opts.Artists))

	result, err := r.runEngine(ctx, func(progress chan tasks.ProgressUpdate) (*tasks.RunResult, error) {
		return r.engine.RunDrops(ctx, progress, opts)
	})
	if err != nil {
		return err
	}

	if !cmd.Bool("no-history") {
		r.recordRun(result)
	}

	return r.summarize(cmd, result)
}

// reloadConfig swaps in the config file named by --config, when given.
func (r *Runner) reloadConfig(cmd *cli.Command) {
	path := cmd.String("config")
	if path == "" {
		return
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, keeping current", "path", path, "error", err)
		return
	}
	r.config = config
}

// runEngine drives an engine operation while streaming progress to the output writer.
func (r *Runner) runEngine(ctx context.Context, op func(chan tasks.ProgressUpdate) (*tasks.RunResult, error)) (*tasks.RunResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.ConnectGateway:
				r.writePlain("🔌 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.SearchTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.AddTracks:
				r.writePlain("\n➕ %s\n", update.Message)
			}
		}
	}()

	result, err := op(progressCh)
	close(progressCh)
	<-done

	return result, err
}

// summarize prints the run outcome and optionally exports it to a file.
func (r *Runner) summarize(cmd *cli.Command, result *tasks.RunResult) error {
	if output := cmd.String("output"); output != "" || cmd.String("format") != "" {
		path, err := formatter.WriteRunExport(result, cmd.String("format"), output)
		if err != nil {
			return err
		}
		r.logger.Info("run exported", "path", path)
	}

	if cmd.Bool("json") {
		data, err := formatter.RunToJSON(result)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", data)
	}

	r.writePlainln("")
	r.writePlainHeader("Run Complete")
	text, err := formatter.RunToText(result)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// recordRun persists a run summary to the history database.
//
// Best effort: a missing or broken database only loses history, never fails a run.
func (r *Runner) recordRun(result *tasks.RunResult) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("run not recorded", "error", err)
		return
	}
	defer db.Close()

	run := models.NewRun(
		0,
		result.Playlist.ID,
		result.Playlist.Name,
		result.Query,
		result.WindowStart,
		result.WindowEnd,
		result.TracksAdded,
		result.Status,
	)

	if err := repositories.NewRunRepository(db).Create(run); err != nil {
		r.logger.Warn("run not recorded", "error", err)
		return
	}

	r.logger.Info("run recorded", "id", run.ID(), "status", run.Status())
}

// runCommand handles the weekly playlist run.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Create this week's playlist and add the track of the week",
		Flags: append(outputFlags(),
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Track search query (overrides config)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Playlist name prefix (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
		),
		Action: r.Run,
	}
}

// dropsCommand handles the new-release scan.
func dropsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "drops",
		Usage: "Create this week's playlist from fresh releases by favorite artists",
		Flags: append(outputFlags(),
			&cli.StringSliceFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artist to scan (repeatable, overrides config)",
			},
			&cli.IntFlag{
				Name:  "lookback",
				Usage: "Days back a release still counts as fresh",
			},
			&cli.IntFlag{
				Name:  "max-per-artist",
				Usage: "Cap on tracks kept per artist",
			},
			&cli.BoolFlag{
				Name:  "public",
				Usage: "Make the playlist public",
			},
		),
		Action: r.Drops,
	}
}

// outputFlags are shared by the run and drops commands.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output run summary as JSON",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Export format (json, markdown, txt)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Export file path",
		},
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Skip recording the run in the history database",
		},
	}
}
