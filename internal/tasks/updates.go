package tasks

import (
	"fmt"

	"github.com/wkelton/jellytrek/internal/catalog"
	"github.com/wkelton/jellytrek/internal/matching"
	"github.com/wkelton/jellytrek/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchLibrary Phase = iota
	IndexLibrary
	MatchEntries
	FetchPlaylist
	Plan
	CreatePlaylist
	AppendItems
	MoveItems
)

func (p Phase) String() string {
	switch p {
	case FetchLibrary:
		return "fetch_library"
	case IndexLibrary:
		return "index_library"
	case MatchEntries:
		return "match_entries"
	case FetchPlaylist:
		return "fetch_playlist"
	case Plan:
		return "plan_additions"
	case CreatePlaylist:
		return "create_playlist"
	case AppendItems:
		return "append_items"
	case MoveItems:
		return "move_items"
	default:
		return ""
	}
}

func fetchLibraryUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLibrary,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching library %q...", name),
	}
}

func indexedLibraryUpdate(step, total int, tree *catalog.Tree) ProgressUpdate {
	return ProgressUpdate{
		Phase: IndexLibrary,
		Step:  step,
		Total: total,
		Message: fmt.Sprintf("Indexed %s: %d series, %d seasons, %d episodes, %d top-level",
			tree.Library, tree.Stats.Series, tree.Stats.Seasons, tree.Stats.Episodes, tree.Stats.TopLevel),
		Data: tree.Stats,
	}
}

func matchedEntriesUpdate(report *matching.Report) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchEntries,
		Step:    report.Total,
		Total:   report.Total,
		Message: report.Summary(),
		Data:    report,
	}
}

func fetchPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist %q...", name),
	}
}

func plannedUpdate(plan *models.PlaylistDiffPlan) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Plan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Planned %s", plan),
		Data:    plan,
	}
}

func createPlaylistUpdate(name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q with %d videos...", name, count),
	}
}

func appendItemsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Appending %d videos...", count),
	}
}

func moveItemUpdate(step, total int, move Move) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MoveItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Moving %s to %d", step, total, move.Name, move.Index),
		Data:    move,
	}
}
