// Package tasks orchestrates the weekly playlist sequence with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.RunOnce] : The weekly sequence
//     - Connects to the MCP gateway (scoped session, released on all exit paths)
//     - Creates this week's playlist, named from the Monday-to-Sunday window
//     - Searches for the configured track of the week
//     - Attaches the first result to the playlist
//
//  2. [Engine.RunDrops] : New-release scan
//     - Creates this week's playlist
//     - Probes each favorite artist with three search query variants
//     - Keeps tracks released inside the lookback window (release-date
//       filtering, not text matching), deduped and capped per artist
//     - Attaches the full haul in one call
//
// # Failure Semantics
//
// Connection and playlist-creation failures abort the run and surface as
// errors. Everything after creation is recoverable: missing tracks and
// rejected adds are recorded as warnings on the [RunResult] and the
// already-created playlist is left in place, partially populated or empty.
// There are no retries and no rollback.
//
// # Progress Reporting
//
// All operations report progress through a non-blocking channel of
// [ProgressUpdate] values. Updates use select with default so a slow
// consumer never stalls a run.
//
// # Date Windows
//
// Playlist naming derives from a pure Monday-to-Sunday window computation
// over an explicit reference date ([Window], [PlaylistName]), so naming is
// testable without clock mocks. [ParseReleaseDate] understands Spotify's
// variable-precision release dates (YYYY-MM-DD, YYYY-MM, YYYY, Unknown).
package tasks
