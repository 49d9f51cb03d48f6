package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/repositories"
	"github.com/desertthunder/weeklymix/internal/shared"
	"github.com/urfave/cli/v3"
)

// runView is the serializable shape of a recorded run.
type runView struct {
	ID           string `json:"id"`
	Sequence     int    `json:"sequence"`
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Query        string `json:"query"`
	WindowStart  string `json:"window_start"`
	WindowEnd    string `json:"window_end"`
	TracksAdded  int    `json:"tracks_added"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func newRunView(run *models.Run) runView {
	return runView{
		ID:           run.ID(),
		Sequence:     run.Sequence(),
		PlaylistID:   run.PlaylistID(),
		PlaylistName: run.PlaylistName(),
		Query:        run.Query(),
		WindowStart:  run.WindowStart().Format("2006-01-02"),
		WindowEnd:    run.WindowEnd().Format("2006-01-02"),
		TracksAdded:  run.TracksAdded(),
		Status:       string(run.Status()),
		CreatedAt:    run.CreatedAt().Format("2006-01-02 15:04"),
	}
}

// HistoryList lists recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{"limit": int(cmd.Int("limit"))}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	runs, err := repositories.NewRunRepository(db).List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]runView, len(runs))
		for i, run := range runs {
			views[i] = newRunView(run)
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded yet\n")
	}

	r.writePlainHeader(fmt.Sprintf("Playlist Runs (%d)", len(runs)))
	for _, run := range runs {
		r.writePlain("#%d  %s\n", run.Sequence(), run.PlaylistName())
		r.writePlain("    %s • %d tracks • %s • %s\n",
			shared.FormatWindow(run.WindowStart(), run.WindowEnd()),
			run.TracksAdded(),
			run.Status(),
			run.CreatedAt().Format("2006-01-02 15:04"),
		)
	}

	return nil
}

// HistoryShow prints one recorded run by run ID or playlist ID.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: run or playlist ID required", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)

	run, err := repo.Get(id)
	if errors.Is(err, shared.ErrRunNotFound) {
		run, err = repo.GetByPlaylistID(id)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(newRunView(run), true)
	}

	r.writePlainHeader(run.PlaylistName())
	r.writePlain("Run ID: %s (#%d)\n", run.ID(), run.Sequence())
	r.writePlain("Playlist ID: %s\n", run.PlaylistID())
	r.writePlain("Query: %s\n", run.Query())
	r.writePlain("Week: %s\n", shared.FormatWindow(run.WindowStart(), run.WindowEnd()))
	r.writePlain("Tracks added: %d\n", run.TracksAdded())
	r.writePlain("Status: %s\n", run.Status())
	r.writePlain("Recorded: %s\n", run.CreatedAt().Format("2006-01-02 15:04"))

	return nil
}

// HistoryExport writes all recorded runs to a JSON file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(map[string]any{})
	if err != nil {
		return err
	}

	views := make([]runView, len(runs))
	for i, run := range runs {
		views[i] = newRunView(run)
	}

	data, err := shared.MarshalJSON(views, true)
	if err != nil {
		return err
	}

	path := cmd.String("output")
	if path == "" {
		path = "runs.json"
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.writePlain("✓ Exported %d runs to %s\n", len(views), path)
	return nil
}

// historyCommand handles run history operations.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "history",
		Aliases: []string{"hist"},
		Usage:   "Inspect recorded playlist runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded runs, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (full, partial, empty)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "show",
				Usage: "Show one run by run ID or playlist ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export all recorded runs to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: runs.json)",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}
