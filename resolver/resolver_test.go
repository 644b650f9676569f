package resolver

import (
	"testing"
	"time"

	"trafkin/backend/models"
)

func entry(id, hotSpotID uint, scheduledAt time.Time, duration int, isLive bool, createdAt time.Time) models.ScheduledVideo {
	hsID := hotSpotID
	return models.ScheduledVideo{
		ID:              id,
		VideoID:         id,
		Video:           &models.Video{ID: id, HotSpotID: &hsID},
		ScheduledAt:     scheduledAt,
		DurationSeconds: duration,
		IsLive:          isLive,
		CreatedAt:       createdAt,
	}
}

func TestIsCurrentlyLive(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		schedAt  time.Time
		duration int
		isLive   bool
		now      time.Time
		want     bool
	}{
		{"At window start", start, 300, false, start, true},
		{"Inside window", start, 300, false, start.Add(4*time.Minute + 59*time.Second), true},
		{"Just before window", start, 300, false, start.Add(-time.Second), false},
		{"At window end (exclusive)", start, 300, false, start.Add(5 * time.Minute), false},
		{"After window", start, 300, false, start.Add(time.Hour), false},

		{"Override before window", start, 300, true, start.Add(-time.Hour), true},
		{"Override after window", start, 300, true, start.Add(24 * time.Hour), true},

		{"Zero duration", start, 0, false, start, false},
		{"Negative duration", start, -60, false, start, false},
		{"Zero duration with override", start, 0, true, start, true},
		{"Zero scheduled time", time.Time{}, 300, false, start, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entry(1, 1, tt.schedAt, tt.duration, tt.isLive, start)
			if got := IsCurrentlyLive(&e, tt.now); got != tt.want {
				t.Errorf("IsCurrentlyLive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveCurrentVideoAndLabel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Playing since now-60s with a 120s window.
	entries := []models.ScheduledVideo{
		entry(1, 7, now.Add(-60*time.Second), 120, false, now.Add(-time.Hour)),
	}

	statuses := Resolve(now, entries, FixedViewers{Count: 100})
	status, ok := statuses[7]
	if !ok {
		t.Fatal("Expected a status for hot spot 7")
	}
	if status.CurrentVideo == nil || status.CurrentVideo.ID != 1 {
		t.Fatalf("Expected entry 1 to be current, got %+v", status.CurrentVideo)
	}
	if status.LastUpdate != LabelLive {
		t.Errorf("LastUpdate = %q, want %q", status.LastUpdate, LabelLive)
	}

	// 61 seconds later the window has closed: 121s since the scheduled
	// start rounds down to 2 minutes.
	later := now.Add(61 * time.Second)
	statuses = Resolve(later, entries, FixedViewers{Count: 100})
	status = statuses[7]
	if status.CurrentVideo != nil {
		t.Fatalf("Expected no current video after the window, got %+v", status.CurrentVideo)
	}
	if status.LastUpdate != "Il y a 2 min" {
		t.Errorf("LastUpdate = %q, want %q", status.LastUpdate, "Il y a 2 min")
	}
}

func TestResolveFutureEntryLabel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.ScheduledVideo{
		entry(1, 3, now.Add(5*time.Minute), 300, false, now),
	}

	statuses := Resolve(now, entries, FixedViewers{})
	if got := statuses[3].LastUpdate; got != "Il y a 5 min" {
		t.Errorf("LastUpdate = %q, want %q", got, "Il y a 5 min")
	}
}

func TestResolveExcludesMalformedEntries(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	noVideo := models.ScheduledVideo{ID: 1, ScheduledAt: now, DurationSeconds: 300}
	noHotSpot := models.ScheduledVideo{
		ID:              2,
		Video:           &models.Video{ID: 2},
		ScheduledAt:     now,
		DurationSeconds: 300,
	}
	zeroTime := entry(3, 5, time.Time{}, 300, false, now)
	good := entry(4, 9, now.Add(-time.Minute), 300, false, now)

	statuses := Resolve(now, []models.ScheduledVideo{noVideo, noHotSpot, zeroTime, good}, FixedViewers{})

	if len(statuses) != 1 {
		t.Fatalf("Expected exactly one resolved hot spot, got %d", len(statuses))
	}
	if statuses[9].CurrentVideo == nil || statuses[9].CurrentVideo.ID != 4 {
		t.Errorf("Expected the well-formed entry to survive, got %+v", statuses[9].CurrentVideo)
	}
	if _, ok := statuses[5]; ok {
		t.Error("Entry with zero scheduled time must not produce a status")
	}
}

func TestResolveIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []models.ScheduledVideo{
		entry(1, 2, now.Add(-time.Minute), 300, false, now.Add(-2*time.Hour)),
		entry(2, 2, now.Add(-10*time.Minute), 60, false, now.Add(-time.Hour)),
	}

	first := Resolve(now, entries, NewRandomViewers(50, 550))
	second := Resolve(now, entries, NewRandomViewers(50, 550))

	// Viewer counts are explicitly random; everything else must match.
	for id, a := range first {
		b, ok := second[id]
		if !ok {
			t.Fatalf("Hot spot %d missing from second resolve", id)
		}
		if (a.CurrentVideo == nil) != (b.CurrentVideo == nil) {
			t.Errorf("Hot spot %d: current video presence differs", id)
		}
		if a.CurrentVideo != nil && a.CurrentVideo.ID != b.CurrentVideo.ID {
			t.Errorf("Hot spot %d: current video %d vs %d", id, a.CurrentVideo.ID, b.CurrentVideo.ID)
		}
		if a.LastUpdate != b.LastUpdate {
			t.Errorf("Hot spot %d: label %q vs %q", id, a.LastUpdate, b.LastUpdate)
		}
	}
}

func TestResolveOverlapTieBreak(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	older := entry(1, 4, now.Add(-time.Minute), 600, false, now.Add(-2*time.Hour))
	newer := entry(2, 4, now.Add(-time.Minute), 600, false, now.Add(-time.Hour))

	// Iteration order must not matter.
	for _, order := range [][]models.ScheduledVideo{
		{older, newer},
		{newer, older},
	} {
		statuses := Resolve(now, order, FixedViewers{})
		current := statuses[4].CurrentVideo
		if current == nil || current.ID != 2 {
			t.Fatalf("Expected most recently created entry 2 to win, got %+v", current)
		}
	}

	// Equal creation timestamps fall back to the higher ID.
	tied := entry(3, 4, now.Add(-time.Minute), 600, false, older.CreatedAt)
	statuses := Resolve(now, []models.ScheduledVideo{older, tied}, FixedViewers{})
	if current := statuses[4].CurrentVideo; current == nil || current.ID != 3 {
		t.Fatalf("Expected higher ID 3 to win the exact tie, got %+v", current)
	}
}

func TestElapsedPrefersActualStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	e := entry(1, 6, now.Add(-30*time.Minute), 3600, true, now)
	e.StartTime = &models.VideoStartTime{
		ScheduledVideoID: 1,
		StartedAt:        now.Add(-10 * time.Minute),
	}

	statuses := Resolve(now, []models.ScheduledVideo{e}, FixedViewers{})
	if got := statuses[6].ElapsedMinutes; got != 10 {
		t.Errorf("ElapsedMinutes = %d, want 10 (from actual start, not planned)", got)
	}
}

func TestRandomViewersRange(t *testing.T) {
	provider := NewRandomViewers(50, 550)
	for i := 0; i < 200; i++ {
		n := provider.Viewers(1)
		if n < 50 || n >= 550 {
			t.Fatalf("Viewers() = %d, want value in [50, 550)", n)
		}
	}
}
