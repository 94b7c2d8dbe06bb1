// Package tasks orchestrates catalog loading, manifest reconciliation and playlist changes with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines the operations behind the CLI commands:
//
//  1. [Engine.Check] : reconcile a manifest against the catalog
//     - Fetches the movie and show libraries and indexes them
//     - Resolves every manifest entry and collects diagnostics
//
//  2. [Engine.Compare] : check an existing playlist position by position
//     - Reports a length mismatch and every index whose item differs
//
//  3. [Engine.Create] : create a playlist holding the matched ids in manifest order
//
//  4. [Engine.Update] : grow an existing playlist
//     - Plans additions with [PlanAdditions]
//     - Appends the new ids, re-reads the playlist for their entry ids, then moves each into place
//     - Supports a dry run that only returns the plan
//
// # Playlist Growth
//
// Playlists only grow. [PlanAdditions] fails with [shared.ErrShrinkingPlaylist] when the manifest yields no
// more ids than the playlist holds, and with [shared.ErrCountMismatch] when the playlist contains items the
// manifest no longer produces. Existing items are never removed or reordered.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [PlaylistEngine] implements [Engine] with dependencies on:
//   - [services.CatalogProvider] : library item lists
//   - [services.PlaylistProvider] : existing playlists
//   - [services.PlaylistMutator] : create, append and move
package tasks
