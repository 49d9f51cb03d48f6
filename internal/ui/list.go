package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/weeklymix/internal/models"
	"github.com/desertthunder/weeklymix/internal/shared"
)

var (
	_ list.Item = runItem{}
	_ list.Item = trackItem{}
)

// runItem wraps [models.Run] to implement [list.Item].
type runItem struct {
	run *models.Run
}

func (i runItem) FilterValue() string { return i.run.PlaylistName() }
func (i runItem) Title() string       { return i.run.PlaylistName() }
func (i runItem) Description() string {
	return fmt.Sprintf("%s • %d tracks • %s",
		shared.FormatWindow(i.run.WindowStart(), i.run.WindowEnd()),
		i.run.TracksAdded(),
		i.run.Status(),
	)
}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := i.track.Artist
	if i.track.ReleaseDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.ReleaseDate)
	}
	return desc
}
