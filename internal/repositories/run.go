package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
)

// RunRepository implements models.Repository[*models.Run] for run history.
//
// Runs are append-only: Update exists to satisfy the repository contract but
// only touches the mutable summary columns.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, sequence, playlist_id, playlist_name, query, window_start, window_end, tracks_added, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.PlaylistID(),
		run.PlaylistName(),
		run.Query(),
		run.WindowStart(),
		run.WindowEnd(),
		run.TracksAdded(),
		string(run.Status()),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name, query, window_start, window_end, tracks_added, status, created_at, updated_at, deleted_at
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves the run that created the given playlist
func (r *RunRepository) GetByPlaylistID(playlistID string) (*models.Run, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name, query, window_start, window_end, tracks_added, status, created_at, updated_at, deleted_at
		FROM runs
		WHERE playlist_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing run's summary columns
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET playlist_name = ?, tracks_added = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.PlaylistName(),
		run.TracksAdded(),
		string(run.Status()),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}

	return nil
}

// List retrieves all runs matching the given criteria, excluding soft-deleted
// runs, newest first
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name, query, window_start, window_end, tracks_added, status, created_at, updated_at, deleted_at
		FROM runs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

type runColumns struct {
	id           string
	sequence     int
	playlistID   string
	playlistName string
	query        string
	windowStart  time.Time
	windowEnd    time.Time
	tracksAdded  int
	status       string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    sql.NullTime
}

func (c *runColumns) toModel() *models.Run {
	run := models.NewRun(c.sequence, c.playlistID, c.playlistName, c.query, c.windowStart, c.windowEnd, c.tracksAdded, models.RunStatus(c.status))
	run.SetID(c.id)
	run.SetCreatedAt(c.createdAt)
	run.SetUpdatedAt(c.updatedAt)
	if c.deletedAt.Valid {
		run.SetDeletedAt(&c.deletedAt.Time)
	}
	return run
}

// scanOne scans a single row into a [models.Run]
func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	var c runColumns

	err := row.Scan(&c.id, &c.sequence, &c.playlistID, &c.playlistName, &c.query, &c.windowStart, &c.windowEnd, &c.tracksAdded, &c.status, &c.createdAt, &c.updatedAt, &c.deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return c.toModel(), nil
}

// scanRow scans a row from [sql.Rows] into a [models.Run]
func (r *RunRepository) scanRow(rows *sql.Rows) (*models.Run, error) {
	var c runColumns

	err := rows.Scan(&c.id, &c.sequence, &c.playlistID, &c.playlistName, &c.query, &c.windowStart, &c.windowEnd, &c.tracksAdded, &c.status, &c.createdAt, &c.updatedAt, &c.deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return c.toModel(), nil
}

var _ models.Repository[*models.Run] = (*RunRepository)(nil)
