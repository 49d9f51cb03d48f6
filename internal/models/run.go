package models

import (
	"fmt"
	"time"
)

// RunStatus enumerates the terminal states of a playlist run.
type RunStatus string

const (
	RunStatusFull    RunStatus = "full"    // Playlist created and all found tracks added
	RunStatusPartial RunStatus = "partial" // Playlist created but a recoverable step failed
	RunStatusEmpty   RunStatus = "empty"   // Playlist created with no tracks
)

// Run is the persisted record of one execution of the weekly playlist sequence.
//
// Implements [Model]. Runs are append-only history; repeated runs produce
// additional records the same way repeated executions produce additional playlists.
type Run struct {
	id           string
	sequence     int
	playlistID   string
	playlistName string
	query        string
	windowStart  time.Time
	windowEnd    time.Time
	tracksAdded  int
	status       RunStatus
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewRun creates a Run record for a completed playlist sequence.
func NewRun(sequence int, playlistID, playlistName, query string, windowStart, windowEnd time.Time, tracksAdded int, status RunStatus) *Run {
	now := time.Now()
	return &Run{
		sequence:     sequence,
		playlistID:   playlistID,
		playlistName: playlistName,
		query:        query,
		windowStart:  windowStart,
		windowEnd:    windowEnd,
		tracksAdded:  tracksAdded,
		status:       status,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (r *Run) ID() string             { return r.id }
func (r *Run) Sequence() int          { return r.sequence }
func (r *Run) PlaylistID() string     { return r.playlistID }
func (r *Run) PlaylistName() string   { return r.playlistName }
func (r *Run) Query() string          { return r.query }
func (r *Run) WindowStart() time.Time { return r.windowStart }
func (r *Run) WindowEnd() time.Time   { return r.windowEnd }
func (r *Run) TracksAdded() int       { return r.tracksAdded }
func (r *Run) Status() RunStatus      { return r.status }
func (r *Run) CreatedAt() time.Time   { return r.createdAt }
func (r *Run) UpdatedAt() time.Time   { return r.updatedAt }
func (r *Run) DeletedAt() *time.Time  { return r.deletedAt }

func (r *Run) SetID(id string)             { r.id = id }
func (r *Run) SetCreatedAt(t time.Time)    { r.createdAt = t }
func (r *Run) SetUpdatedAt(t time.Time)    { r.updatedAt = t }
func (r *Run) SetDeletedAt(t *time.Time)   { r.deletedAt = t }
func (r *Run) SetTracksAdded(n int)        { r.tracksAdded = n }
func (r *Run) SetStatus(status RunStatus)  { r.status = status }
func (r *Run) SetPlaylistID(id string)     { r.playlistID = id }
func (r *Run) SetPlaylistName(name string) { r.playlistName = name }

// Validate checks that the run record is internally consistent.
func (r *Run) Validate() error {
	if r.playlistName == "" {
		return fmt.Errorf("playlist name is required")
	}
	if r.tracksAdded < 0 {
		return fmt.Errorf("tracks added cannot be negative")
	}
	switch r.status {
	case RunStatusFull, RunStatusPartial, RunStatusEmpty:
	default:
		return fmt.Errorf("invalid run status: %s", r.status)
	}
	if r.windowEnd.Before(r.windowStart) {
		return fmt.Errorf("window end precedes window start")
	}
	return nil
}
