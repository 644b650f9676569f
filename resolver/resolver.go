// Package resolver computes, for each monitored hot spot, which scheduled
// video (if any) is playing at a given instant. It is pure: time is passed
// in explicitly, all randomness lives behind ViewerCountProvider, and no
// I/O happens here. The orchestrator in services re-runs it on every
// refresh and fully replaces the previous result.
package resolver

import (
	"fmt"
	"time"

	"trafkin/backend/models"
)

const (
	LabelLive = "En direct"
)

// HotSpotStatus is the derived, non-persisted status of one hot spot at the
// evaluation instant.
type HotSpotStatus struct {
	CurrentVideo   *models.ScheduledVideo `json:"current_video"`
	Viewers        int                    `json:"viewers"`
	LastUpdate     string                 `json:"last_update"`
	ElapsedMinutes int                    `json:"elapsed_minutes"`
}

// IsCurrentlyLive reports whether a schedule entry counts as playing at
// now. The admin go-live flag overrides the time window entirely; otherwise
// the window is [ScheduledAt, ScheduledAt+DurationSeconds). A missing or
// non-positive duration is a zero-length window.
func IsCurrentlyLive(entry *models.ScheduledVideo, now time.Time) bool {
	if entry.IsLive {
		return true
	}
	if entry.ScheduledAt.IsZero() || entry.DurationSeconds <= 0 {
		return false
	}
	end := entry.ScheduledAt.Add(time.Duration(entry.DurationSeconds) * time.Second)
	return !now.Before(entry.ScheduledAt) && now.Before(end)
}

// Resolve maps every hot spot referenced by at least one usable schedule
// entry to its derived status. Entries with no joined video, no hot spot,
// or a zero ScheduledAt are skipped; one bad row never aborts the batch.
//
// When several entries for the same hot spot are current at once, the most
// recently created one wins (last admin action wins), with the higher ID
// breaking exact-timestamp ties.
func Resolve(now time.Time, entries []models.ScheduledVideo, viewers ViewerCountProvider) map[uint]HotSpotStatus {
	winners := make(map[uint]*models.ScheduledVideo)  // current entry per hot spot
	fallback := make(map[uint]*models.ScheduledVideo) // label source when nothing is current

	for i := range entries {
		entry := &entries[i]
		if entry.Video == nil || entry.Video.HotSpotID == nil {
			continue
		}
		if entry.ScheduledAt.IsZero() {
			continue
		}
		hotSpotID := *entry.Video.HotSpotID

		if prev, ok := fallback[hotSpotID]; !ok || createdAfter(entry, prev) {
			fallback[hotSpotID] = entry
		}
		if !IsCurrentlyLive(entry, now) {
			continue
		}
		if prev, ok := winners[hotSpotID]; !ok || createdAfter(entry, prev) {
			winners[hotSpotID] = entry
		}
	}

	statuses := make(map[uint]HotSpotStatus, len(fallback))
	for hotSpotID, entry := range fallback {
		status := HotSpotStatus{
			Viewers: viewers.Viewers(hotSpotID),
		}
		if current, ok := winners[hotSpotID]; ok {
			status.CurrentVideo = current
			status.LastUpdate = LabelLive
			status.ElapsedMinutes = elapsedMinutes(current, now)
		} else {
			status.LastUpdate = lastUpdateLabel(entry, now)
		}
		statuses[hotSpotID] = status
	}
	return statuses
}

func createdAfter(a, b *models.ScheduledVideo) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

// lastUpdateLabel renders the caption for a hot spot with no current video:
// minutes since (or until) the nearest admin-programmed start.
func lastUpdateLabel(entry *models.ScheduledVideo, now time.Time) string {
	diff := now.Sub(entry.ScheduledAt)
	if diff < 0 {
		diff = -diff
	}
	return fmt.Sprintf("Il y a %d min", int(diff.Minutes()))
}

// elapsedMinutes prefers the recorded actual start over the planned one, so
// a video toggled live early or late shows the real elapsed time.
func elapsedMinutes(entry *models.ScheduledVideo, now time.Time) int {
	start := entry.ScheduledAt
	if entry.StartTime != nil && !entry.StartTime.StartedAt.IsZero() {
		start = entry.StartTime.StartedAt
	}
	elapsed := now.Sub(start)
	if elapsed < 0 {
		return 0
	}
	return int(elapsed.Minutes())
}
