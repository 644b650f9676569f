package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"trafkin/backend/metrics"
	"trafkin/backend/models"
	"trafkin/backend/resolver"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// LiveService is the refresh orchestrator around the resolver. It re-runs
// the fetch-and-resolve cycle on start, whenever a change notification
// fires, and on a fallback ticker for the case where a notification was
// missed. Each cycle fully replaces the derived snapshot; queries read the
// last completed one.
type LiveService struct {
	db           *gorm.DB
	clock        resolver.Clock
	viewers      resolver.ViewerCountProvider
	notifier     *Notifier
	pollInterval time.Duration

	mu       sync.RWMutex
	statuses map[uint]resolver.HotSpotStatus
	hotSpots []models.HotSpot
	lastErr  string
	loading  bool
	applied  uint64

	seq      atomic.Uint64
	sub      chan string
	stop     chan struct{}
	stopOnce sync.Once
}

// HotSpotStream is a hot spot enriched with its derived live fields, the
// shape the client renders directly. IsLive mirrors the active flag alone:
// an active hot spot is badged live even when no video is playing and the
// client falls back to its placeholder image.
type HotSpotStream struct {
	models.HotSpot
	IsLive       bool                   `json:"is_live"`
	Viewers      int                    `json:"viewers"`
	LastUpdate   string                 `json:"last_update"`
	CurrentVideo *models.ScheduledVideo `json:"current_video"`
}

func NewLiveService(db *gorm.DB, clock resolver.Clock, viewers resolver.ViewerCountProvider, notifier *Notifier, pollInterval time.Duration) *LiveService {
	return &LiveService{
		db:           db,
		clock:        clock,
		viewers:      viewers,
		notifier:     notifier,
		pollInterval: pollInterval,
		statuses:     make(map[uint]resolver.HotSpotStatus),
		loading:      true,
		stop:         make(chan struct{}),
	}
}

// Start launches the refresh loop. Stop must be called on teardown.
func (s *LiveService) Start() {
	s.sub = s.notifier.Subscribe(TopicScheduledVideos, TopicVideos, TopicHotSpots)
	go s.run()
}

func (s *LiveService) run() {
	s.Refresh("initial")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh("poll")
		case _, ok := <-s.sub:
			if !ok {
				return
			}
			s.Refresh("change")
		case <-s.stop:
			return
		}
	}
}

func (s *LiveService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if s.sub != nil {
			s.notifier.Unsubscribe(s.sub)
		}
	})
}

// Refresh runs one fetch-and-resolve cycle. Cycles carry a monotonically
// increasing sequence number; a cycle that finishes after a newer one has
// already been applied is discarded so a slow response cannot clobber
// fresher data.
func (s *LiveService) Refresh(trigger string) {
	seq := s.seq.Add(1)
	timer := prometheus.NewTimer(metrics.RefreshDuration)
	defer timer.ObserveDuration()

	entries, hotSpots, err := s.fetch()
	now := s.clock.Now()
	s.apply(seq, trigger, now, entries, hotSpots, err)
}

func (s *LiveService) fetch() ([]models.ScheduledVideo, []models.HotSpot, error) {
	var entries []models.ScheduledVideo
	if err := s.db.
		Preload("Video").
		Preload("Video.HotSpot").
		Preload("StartTime").
		Order("scheduled_at asc").
		Find(&entries).Error; err != nil {
		return nil, nil, fmt.Errorf("fetch schedule: %w", err)
	}

	var hotSpots []models.HotSpot
	if err := s.db.Where("active = ?", true).Order("name asc").Find(&hotSpots).Error; err != nil {
		return nil, nil, fmt.Errorf("fetch hot spots: %w", err)
	}
	return entries, hotSpots, nil
}

func (s *LiveService) apply(seq uint64, trigger string, now time.Time, entries []models.ScheduledVideo, hotSpots []models.HotSpot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		metrics.Refreshes.WithLabelValues(trigger, "stale").Inc()
		return
	}
	s.applied = seq
	s.loading = false

	if err != nil {
		// Keep the previous snapshot so a transient failure never blanks
		// the client.
		s.lastErr = err.Error()
		metrics.Refreshes.WithLabelValues(trigger, "error").Inc()
		return
	}

	s.lastErr = ""
	s.statuses = resolver.Resolve(now, entries, s.viewers)
	s.hotSpots = hotSpots
	metrics.Refreshes.WithLabelValues(trigger, "ok").Inc()

	playing := 0
	for _, st := range s.statuses {
		if st.CurrentVideo != nil {
			playing++
		}
	}
	metrics.LiveHotSpots.Set(float64(playing))
}

// GetCurrentVideoForLocation returns the schedule entry playing at the hot
// spot right now, or nil.
func (s *LiveService) GetCurrentVideoForLocation(hotSpotID uint) *models.ScheduledVideo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[hotSpotID]; ok {
		return status.CurrentVideo
	}
	return nil
}

// GetStatsForLocation returns the derived status for the hot spot, or nil
// when no schedule entry references it.
func (s *LiveService) GetStatsForLocation(hotSpotID uint) *resolver.HotSpotStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if status, ok := s.statuses[hotSpotID]; ok {
		copied := status
		return &copied
	}
	return nil
}

// Streams returns every active hot spot enriched with its derived fields.
// A schedule-entry traffic override replaces the hot spot's own status
// while that entry is playing.
func (s *LiveService) Streams() []HotSpotStream {
	s.mu.RLock()
	defer s.mu.RUnlock()

	streams := make([]HotSpotStream, 0, len(s.hotSpots))
	for _, hs := range s.hotSpots {
		stream := HotSpotStream{
			HotSpot: hs,
			IsLive:  hs.Active,
			Viewers: s.viewers.Viewers(hs.ID),
		}
		if status, ok := s.statuses[hs.ID]; ok {
			stream.Viewers = status.Viewers
			stream.LastUpdate = status.LastUpdate
			stream.CurrentVideo = status.CurrentVideo
			if status.CurrentVideo != nil && status.CurrentVideo.TrafficStatus != "" {
				stream.TrafficStatus = status.CurrentVideo.TrafficStatus
			}
		}
		streams = append(streams, stream)
	}
	return streams
}

func (s *LiveService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message from the most recent failed refresh, empty after
// a successful one.
func (s *LiveService) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
