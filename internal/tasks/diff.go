package tasks

import (
	"fmt"

	"github.com/wkelton/jellytrek/internal/models"
	"github.com/wkelton/jellytrek/internal/shared"
)

// PlanAdditions computes the ids to append to a playlist and where each must be moved afterwards.
//
// Playlists only grow: desired must be longer than current. Walking desired in order, an id already in
// current moves the anchor to just after its position; an absent id is queued with target index
// anchor + (number already queued), so runs of new ids stay contiguous and in order. The plan is
// rejected when the number of new ids is not exactly the length difference, which happens when the
// playlist holds items the manifest no longer produces.
func PlanAdditions(desired, current []string) (*models.PlaylistDiffPlan, error) {
	if len(desired) <= len(current) {
		return nil, fmt.Errorf("%w: list has %d videos which is not more than already in the playlist: %d",
			shared.ErrShrinkingPlaylist, len(desired), len(current))
	}

	// an id listed twice is matched against its occurrences in playlist order
	positions := make(map[string][]int, len(current))
	for i, id := range current {
		positions[id] = append(positions[id], i)
	}

	plan := &models.PlaylistDiffPlan{}
	anchor := 0
	for _, id := range desired {
		if pos := positions[id]; len(pos) > 0 {
			anchor = pos[0] + 1
			positions[id] = pos[1:]
			continue
		}
		plan.TargetIndices = append(plan.TargetIndices, anchor+len(plan.NewIDs))
		plan.NewIDs = append(plan.NewIDs, id)
	}

	if expected := len(desired) - len(current); plan.Len() != expected {
		return nil, fmt.Errorf("%w: expected %d new videos, but %d would be new to the playlist",
			shared.ErrCountMismatch, expected, plan.Len())
	}
	return plan, nil
}
