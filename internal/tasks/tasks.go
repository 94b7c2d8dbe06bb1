// package tasks implements the playlist operations behind the CLI commands.
//
// The core abstraction is Engine, which loads the catalog, reconciles a manifest against it and
// creates, compares or grows a playlist. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/wkelton/jellytrek/internal/catalog"
	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/models"
	"github.com/wkelton/jellytrek/internal/services"
	"github.com/wkelton/jellytrek/internal/shared"
)

// CheckResult is the reconciliation of a manifest against the catalog.
type CheckResult struct {
	Report *matching.Report
}

// Mismatch is a playlist position whose item differs from the manifest's.
type Mismatch struct {
	Index   int
	Current string // name of the item in the playlist
	Desired string // name of the matched item, empty past the end of the manifest
}

// CompareResult contains the position-by-position comparison of a playlist with the manifest.
type CompareResult struct {
	Report        *matching.Report
	Playlist      *models.Playlist
	DesiredCount  int
	PlaylistCount int
	Mismatches    []Mismatch
}

// LengthMismatch reports whether the playlist and the matched ids differ in length.
func (c *CompareResult) LengthMismatch() bool { return c.DesiredCount != c.PlaylistCount }

// InSync reports whether the playlist holds exactly the matched ids in order.
func (c *CompareResult) InSync() bool { return !c.LengthMismatch() && len(c.Mismatches) == 0 }

// CreateResult describes a newly created playlist.
type CreateResult struct {
	Report     *matching.Report
	PlaylistID string
	Count      int
}

// Move is one repositioning of an appended playlist entry.
type Move struct {
	ItemID  string
	EntryID string
	Name    string
	Index   int
}

// UpdateResult describes the growth of an existing playlist.
type UpdateResult struct {
	Report   *matching.Report
	Playlist *models.Playlist
	Plan     *models.PlaylistDiffPlan
	Moves    []Move
	DryRun   bool
}

// Engine defines the playlist operations.
type Engine interface {
	// LoadCatalog fetches the movie and show libraries and indexes them.
	LoadCatalog(ctx context.Context, progress chan<- ProgressUpdate) (*catalog.Index, error)

	// Check reconciles entries against the catalog.
	Check(ctx context.Context, entries []manifest.Entry, progress chan<- ProgressUpdate) (*CheckResult, error)

	// Compare checks an existing playlist position by position against the reconciled ids.
	Compare(ctx context.Context, entries []manifest.Entry, name string, progress chan<- ProgressUpdate) (*CompareResult, error)

	// Create makes a new playlist holding the reconciled ids in order.
	Create(ctx context.Context, entries []manifest.Entry, name string, progress chan<- ProgressUpdate) (*CreateResult, error)

	// Update appends the ids missing from an existing playlist and moves each to its place.
	Update(ctx context.Context, entries []manifest.Entry, name string, dryRun bool, progress chan<- ProgressUpdate) (*UpdateResult, error)
}

// PlaylistEngine implements Engine against a media server.
type PlaylistEngine struct {
	catalog   services.CatalogProvider
	playlists services.PlaylistProvider
	mutator   services.PlaylistMutator
	libraries shared.LibrariesConfig
	logger    *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine. Any provider may be nil; operations needing it fail with [shared.ErrServiceUnavailable].
func NewPlaylistEngine(catalogProvider services.CatalogProvider, playlists services.PlaylistProvider, mutator services.PlaylistMutator, libraries shared.LibrariesConfig, logger *log.Logger) *PlaylistEngine {
	return &PlaylistEngine{
		catalog:   catalogProvider,
		playlists: playlists,
		mutator:   mutator,
		libraries: libraries,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *PlaylistEngine) debug(msg string, keyvals ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, keyvals...)
	}
}

// LoadCatalog fetches the movie and show libraries and builds the index.
//
// A library that is missing fails with [shared.ErrLibraryNotFound]; one with no items fails with [shared.ErrEmptyLibrary].
func (e *PlaylistEngine) LoadCatalog(ctx context.Context, progress chan<- ProgressUpdate) (*catalog.Index, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog provider not initialized", shared.ErrServiceUnavailable)
	}

	names := []string{e.libraries.Movies, e.libraries.Shows}
	trees := make([]*catalog.Tree, len(names))
	for i, name := range names {
		e.sendProgress(progress, fetchLibraryUpdate(i+1, len(names), name))

		items, err := e.catalog.FetchLibraryTree(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("cannot find %q library: %w", name, err)
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("%w: cannot get all items from %q", shared.ErrEmptyLibrary, name)
		}

		trees[i] = catalog.Build(name, items, e.logger)
		e.sendProgress(progress, indexedLibraryUpdate(i+1, len(names), trees[i]))
	}

	return catalog.NewIndex(trees[0], trees[1]), nil
}

func (e *PlaylistEngine) reconcile(ctx context.Context, entries []manifest.Entry, progress chan<- ProgressUpdate) (*matching.Report, error) {
	idx, err := e.LoadCatalog(ctx, progress)
	if err != nil {
		return nil, err
	}

	report := matching.Reconcile(entries, idx)
	e.debug("manifest reconciled", "total", report.Total, "matched", report.Matched, "unmatched", report.Unmatched, "merged", report.Merged)
	e.sendProgress(progress, matchedEntriesUpdate(report))
	return report, nil
}

// Check reconciles entries against the catalog.
func (e *PlaylistEngine) Check(ctx context.Context, entries []manifest.Entry, progress chan<- ProgressUpdate) (*CheckResult, error) {
	report, err := e.reconcile(ctx, entries, progress)
	if err != nil {
		return nil, err
	}
	return &CheckResult{Report: report}, nil
}

func (e *PlaylistEngine) fetchPlaylist(ctx context.Context, name string, progress chan<- ProgressUpdate) (*models.Playlist, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: playlist provider not initialized", shared.ErrServiceUnavailable)
	}
	e.sendProgress(progress, fetchPlaylistUpdate(name))
	return e.playlists.FetchPlaylist(ctx, name)
}

// Compare checks an existing playlist position by position against the reconciled ids.
func (e *PlaylistEngine) Compare(ctx context.Context, entries []manifest.Entry, name string, progress chan<- ProgressUpdate) (*CompareResult, error) {
	report, err := e.reconcile(ctx, entries, progress)
	if err != nil {
		return nil, err
	}

	pl, err := e.fetchPlaylist(ctx, name, progress)
	if err != nil {
		return nil, err
	}

	result := &CompareResult{
		Report:        report,
		Playlist:      pl,
		DesiredCount:  len(report.IDs),
		PlaylistCount: len(pl.Entries),
	}
	for i, entry := range pl.Entries {
		if i >= len(report.IDs) {
			result.Mismatches = append(result.Mismatches, Mismatch{Index: i, Current: entry.Name})
			continue
		}
		if entry.ItemID != report.IDs[i] {
			result.Mismatches = append(result.Mismatches, Mismatch{Index: i, Current: entry.Name, Desired: report.Names[i]})
		}
	}
	return result, nil
}

// Create makes a new playlist holding the reconciled ids in order.
//
// Fails with [shared.ErrEmptyPlaylist] when nothing matched and with [shared.ErrInvalidArgument] when a playlist with that name exists.
func (e *PlaylistEngine) Create(ctx context.Context, entries []manifest.Entry, name string, progress chan<- ProgressUpdate) (*CreateResult, error) {
	if e.mutator == nil {
		return nil, fmt.Errorf("%w: playlist mutator not initialized", shared.ErrServiceUnavailable)
	}

	report, err := e.reconcile(ctx, entries, progress)
	if err != nil {
		return nil, err
	}
	result := &CreateResult{Report: report}
	if len(report.IDs) == 0 {
		return result, shared.ErrEmptyPlaylist
	}

	if _, err := e.fetchPlaylist(ctx, name, progress); err == nil {
		return result, fmt.Errorf("%w: playlist %q already exists, use update-playlist", shared.ErrInvalidArgument, name)
	} else if !errors.Is(err, shared.ErrPlaylistNotFound) {
		return result, err
	}

	e.sendProgress(progress, createPlaylistUpdate(name, len(report.IDs)))
	id, err := e.mutator.CreatePlaylist(ctx, name, report.IDs)
	if err != nil {
		return result, fmt.Errorf("failed to create playlist: %w", err)
	}

	result.PlaylistID = id
	result.Count = len(report.IDs)
	return result, nil
}

// Update grows an existing playlist to the reconciled ids.
//
// The plan comes from [PlanAdditions]. New ids are appended in one request; the playlist is then read again
// to learn the entry id of each appended item, and each is moved to its target index in plan order.
// With dryRun the plan is returned and nothing is changed.
func (e *PlaylistEngine) Update(ctx context.Context, entries []manifest.Entry, name string, dryRun bool, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	if e.mutator == nil && !dryRun {
		return nil, fmt.Errorf("%w: playlist mutator not initialized", shared.ErrServiceUnavailable)
	}

	report, err := e.reconcile(ctx, entries, progress)
	if err != nil {
		return nil, err
	}

	pl, err := e.fetchPlaylist(ctx, name, progress)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Report: report, Playlist: pl, DryRun: dryRun}
	plan, err := PlanAdditions(report.IDs, pl.ItemIDs())
	if err != nil {
		return result, err
	}
	result.Plan = plan
	e.sendProgress(progress, plannedUpdate(plan))

	names := make(map[string]string, len(report.IDs))
	for i, id := range report.IDs {
		names[id] = report.Names[i]
	}

	if dryRun {
		for i, id := range plan.NewIDs {
			result.Moves = append(result.Moves, Move{ItemID: id, Name: names[id], Index: plan.TargetIndices[i]})
		}
		return result, nil
	}

	e.sendProgress(progress, appendItemsUpdate(plan.Len()))
	if err := e.mutator.Append(ctx, pl.ID, plan.NewIDs); err != nil {
		return result, fmt.Errorf("failed to append to playlist: %w", err)
	}

	refreshed, err := e.fetchPlaylist(ctx, name, progress)
	if err != nil {
		return result, err
	}
	appended, err := appendedEntries(refreshed, plan.NewIDs)
	if err != nil {
		return result, err
	}

	for i, entry := range appended {
		move := Move{ItemID: entry.ItemID, EntryID: entry.EntryID, Name: names[entry.ItemID], Index: plan.TargetIndices[i]}
		e.sendProgress(progress, moveItemUpdate(i+1, len(appended), move))
		if err := e.mutator.Move(ctx, pl.ID, entry.EntryID, move.Index); err != nil {
			return result, fmt.Errorf("failed to move %s to %d: %w", move.Name, move.Index, err)
		}
		result.Moves = append(result.Moves, move)
	}

	return result, nil
}

// appendedEntries returns the trailing playlist entries holding ids, which an append must have put at the end.
func appendedEntries(pl *models.Playlist, ids []string) ([]models.PlaylistEntry, error) {
	if len(pl.Entries) < len(ids) {
		return nil, fmt.Errorf("%w: playlist has %d entries after appending %d", shared.ErrAPIRequest, len(pl.Entries), len(ids))
	}

	tail := pl.Entries[len(pl.Entries)-len(ids):]
	for i, entry := range tail {
		if entry.ItemID != ids[i] {
			return nil, fmt.Errorf("%w: expected %s at position %d after appending, found %s",
				shared.ErrAPIRequest, ids[i], len(pl.Entries)-len(ids)+i, entry.ItemID)
		}
	}
	return tail, nil
}
