package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/wkelton/jellytrek/internal/formatter"
	"github.com/wkelton/jellytrek/internal/manifest"
	"github.com/wkelton/jellytrek/internal/shared"
	"github.com/wkelton/jellytrek/internal/tasks"
)

type mismatchView struct {
	Index   int    `json:"index"`
	Current string `json:"current"`
	Desired string `json:"desired"`
}

type compareView struct {
	Playlist      string         `json:"playlist"`
	DesiredCount  int            `json:"desired_count"`
	PlaylistCount int            `json:"playlist_count"`
	InSync        bool           `json:"in_sync"`
	Mismatches    []mismatchView `json:"mismatches"`
}

type createView struct {
	Playlist   string `json:"playlist"`
	PlaylistID string `json:"playlist_id"`
	Count      int    `json:"count"`
	Unmatched  int    `json:"unmatched"`
}

type moveView struct {
	ItemID  string `json:"item_id"`
	EntryID string `json:"entry_id,omitempty"`
	Name    string `json:"name"`
	Index   int    `json:"index"`
}

type updateView struct {
	Playlist string     `json:"playlist"`
	DryRun   bool       `json:"dry_run"`
	Added    int        `json:"added"`
	Moves    []moveView `json:"moves"`
}

// loadManifest reads the manifest named by the first argument.
func (r *Runner) loadManifest(cmd *cli.Command) ([]manifest.Entry, error) {
	path := cmd.StringArg("manifest")
	if path == "" {
		return nil, fmt.Errorf("%w: manifest path", shared.ErrMissingArgument)
	}

	entries, err := manifest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	r.logger.Info("loaded manifest", "path", path, "entries", len(entries))
	return entries, nil
}

func playlistName(cmd *cli.Command) (string, error) {
	name := cmd.StringArg("playlist")
	if name == "" {
		return "", fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}
	return name, nil
}

// CheckVideos reconciles the manifest and prints or saves the report.
func (r *Runner) CheckVideos(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	entries, err := r.loadManifest(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(cmd); err != nil {
		return err
	}

	progress, done := r.progress()
	result, err := r.engine.Check(ctx, entries, progress)
	done()
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteReport(result.Report, format, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Report written to %s\n%s\n", written, result.Report.Summary())
	}
	return formatter.WriteTo(r.output, result.Report, format)
}

// CheckPlaylist compares an existing playlist with the manifest order.
func (r *Runner) CheckPlaylist(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.loadManifest(cmd)
	if err != nil {
		return err
	}
	name, err := playlistName(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(cmd); err != nil {
		return err
	}

	progress, done := r.progress()
	result, err := r.engine.Compare(ctx, entries, name, progress)
	done()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		view := compareView{
			Playlist:      name,
			DesiredCount:  result.DesiredCount,
			PlaylistCount: result.PlaylistCount,
			InSync:        result.InSync(),
			Mismatches:    []mismatchView{},
		}
		for _, m := range result.Mismatches {
			view.Mismatches = append(view.Mismatches, mismatchView(m))
		}
		return r.writeJSON(view, true)
	}

	r.writePlain("%s\n", result.Report.Summary())
	if result.LengthMismatch() {
		r.writePlain("Mismatch on number of videos: list=%d, playlist=%d\n", result.DesiredCount, result.PlaylistCount)
	}
	for _, m := range result.Mismatches {
		r.writePlain("%03d %s != %s\n", m.Index, m.Current, m.Desired)
	}
	if result.InSync() {
		return r.writePlain("✓ Playlist %q matches the manifest (%d videos)\n", name, result.PlaylistCount)
	}
	return nil
}

// CreatePlaylist creates a playlist holding every matched video in manifest order.
func (r *Runner) CreatePlaylist(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.loadManifest(cmd)
	if err != nil {
		return err
	}
	name, err := playlistName(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(cmd); err != nil {
		return err
	}

	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	progress, done := r.progress()
	result, err := r.engine.Create(ctx, entries, name, progress)
	done()
	if err != nil {
		return err
	}

	r.logger.Info("created playlist", "name", name, "id", result.PlaylistID, "videos", result.Count)

	if cmd.Bool("open") {
		link := shared.ItemWebURL(r.config.Jellyfin.URL, result.PlaylistID)
		if err := r.openURL(link); err != nil {
			r.logger.Warn("could not open browser", "url", link, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(createView{
			Playlist:   name,
			PlaylistID: result.PlaylistID,
			Count:      result.Count,
			Unmatched:  result.Report.Unmatched,
		}, true)
	}

	r.writePlain("%s\n", result.Report.Summary())
	return r.writePlain("✓ Created playlist %q (%s) with %d videos\n", name, result.PlaylistID, result.Count)
}

// UpdatePlaylist inserts newly matched videos into an existing playlist.
func (r *Runner) UpdatePlaylist(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.loadManifest(cmd)
	if err != nil {
		return err
	}
	name, err := playlistName(cmd)
	if err != nil {
		return err
	}
	if err := r.authenticate(cmd); err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	if !dryRun {
		unlock, err := r.lock()
		if err != nil {
			return err
		}
		defer unlock()
	}

	progress, done := r.progress()
	result, err := r.engine.Update(ctx, entries, name, dryRun, progress)
	done()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		view := updateView{Playlist: name, DryRun: dryRun, Added: len(result.Moves), Moves: []moveView{}}
		for _, m := range result.Moves {
			view.Moves = append(view.Moves, moveView(m))
		}
		return r.writeJSON(view, true)
	}

	r.writePlain("%s\n", result.Report.Summary())
	if dryRun {
		r.writePlainHeader("Dry run: playlist unchanged")
	}
	r.writeMoves(result.Moves)

	if dryRun {
		return r.writePlain("%d videos would be added to %q\n", len(result.Moves), name)
	}
	return r.writePlain("✓ Added %d videos to %q\n", len(result.Moves), name)
}

func (r *Runner) writeMoves(moves []tasks.Move) {
	for _, m := range moves {
		r.writePlain("Moving %s to %d\n", m.Name, m.Index)
	}
}
