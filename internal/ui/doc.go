// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for playlist runs:
//  1. [HistoryListView] : Browse past runs from the local history database
//  2. [ConfirmView] : Confirm a weekly or new-drops run
//  3. [RunView] : Monitor real-time progress updates
//  4. [ResultView] : Display the run summary and any warnings
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
