package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trafkin/backend/database"
	"trafkin/backend/models"
	"trafkin/backend/resolver"
	"trafkin/backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupScheduleTest(t *testing.T, now time.Time) (*gorm.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	h := NewScheduleHandler(db, services.NewNotifier(), resolver.MockClock{MockTime: now})
	router := gin.New()
	router.GET("/schedules", h.GetSchedules)
	router.POST("/schedules", h.CreateSchedule)
	router.DELETE("/schedules/:id", h.DeleteSchedule)
	router.PUT("/schedules/:id/live", h.SetLive)
	return db, router
}

func seedApprovedVideo(t *testing.T, db *gorm.DB) models.Video {
	t.Helper()

	hotSpot := models.HotSpot{Name: "Boulevard Lumumba", Active: true}
	if err := db.Create(&hotSpot).Error; err != nil {
		t.Fatalf("Failed to create hot spot: %v", err)
	}

	video := models.Video{
		Title:      "Trafic Lumumba",
		FilePath:   "/media/test.mp4",
		Status:     models.VideoStatusApproved,
		UploaderID: 1,
		HotSpotID:  &hotSpot.ID,
	}
	if err := db.Create(&video).Error; err != nil {
		t.Fatalf("Failed to create video: %v", err)
	}
	return video
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateScheduleMarksVideoScheduled(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, router := setupScheduleTest(t, now)
	video := seedApprovedVideo(t, db)

	w := doJSON(router, http.MethodPost, "/schedules", gin.H{
		"video_id":         video.ID,
		"scheduled_at":     now.Format(time.RFC3339),
		"duration_seconds": 300,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
	}

	var updated models.Video
	db.First(&updated, video.ID)
	if updated.Status != models.VideoStatusScheduled {
		t.Errorf("Video status = %q, want %q", updated.Status, models.VideoStatusScheduled)
	}
}

func TestCreateScheduleRejectsUnapprovedVideo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, router := setupScheduleTest(t, now)
	video := seedApprovedVideo(t, db)
	db.Model(&video).Update("status", models.VideoStatusPending)

	w := doJSON(router, http.MethodPost, "/schedules", gin.H{
		"video_id":         video.ID,
		"scheduled_at":     now.Format(time.RFC3339),
		"duration_seconds": 300,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestGoLiveRecordsActualStartOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, router := setupScheduleTest(t, now)
	video := seedApprovedVideo(t, db)

	w := doJSON(router, http.MethodPost, "/schedules", gin.H{
		"video_id":         video.ID,
		"scheduled_at":     now.Format(time.RFC3339),
		"duration_seconds": 300,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed: %s", w.Body.String())
	}
	var schedule models.ScheduledVideo
	json.Unmarshal(w.Body.Bytes(), &schedule)

	isLive := true
	w = doJSON(router, http.MethodPut, fmt.Sprintf("/schedules/%d/live", schedule.ID), gin.H{"is_live": &isLive})
	if w.Code != http.StatusOK {
		t.Fatalf("Go-live failed: %s", w.Body.String())
	}

	var updated models.Video
	db.First(&updated, video.ID)
	if updated.Status != models.VideoStatusLive {
		t.Errorf("Video status = %q, want %q", updated.Status, models.VideoStatusLive)
	}

	var starts []models.VideoStartTime
	db.Where("scheduled_video_id = ?", schedule.ID).Find(&starts)
	if len(starts) != 1 {
		t.Fatalf("Expected 1 start record, got %d", len(starts))
	}
	if !starts[0].StartedAt.Equal(now) {
		t.Errorf("StartedAt = %v, want %v", starts[0].StartedAt, now)
	}

	// Toggling off and back on must not create a second record.
	notLive := false
	doJSON(router, http.MethodPut, fmt.Sprintf("/schedules/%d/live", schedule.ID), gin.H{"is_live": &notLive})
	doJSON(router, http.MethodPut, fmt.Sprintf("/schedules/%d/live", schedule.ID), gin.H{"is_live": &isLive})

	db.Where("scheduled_video_id = ?", schedule.ID).Find(&starts)
	if len(starts) != 1 {
		t.Errorf("Expected start record to be written once, got %d", len(starts))
	}
}

func TestDeleteScheduleRevertsVideo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, router := setupScheduleTest(t, now)
	video := seedApprovedVideo(t, db)

	w := doJSON(router, http.MethodPost, "/schedules", gin.H{
		"video_id":         video.ID,
		"scheduled_at":     now.Format(time.RFC3339),
		"duration_seconds": 300,
	})
	var schedule models.ScheduledVideo
	json.Unmarshal(w.Body.Bytes(), &schedule)

	isLive := true
	doJSON(router, http.MethodPut, fmt.Sprintf("/schedules/%d/live", schedule.ID), gin.H{"is_live": &isLive})

	w = doJSON(router, http.MethodDelete, fmt.Sprintf("/schedules/%d", schedule.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Delete failed: %s", w.Body.String())
	}

	var updated models.Video
	db.First(&updated, video.ID)
	if updated.Status != models.VideoStatusApproved {
		t.Errorf("Video status = %q, want %q after unscheduling", updated.Status, models.VideoStatusApproved)
	}

	var count int64
	db.Model(&models.VideoStartTime{}).Where("scheduled_video_id = ?", schedule.ID).Count(&count)
	if count != 0 {
		t.Errorf("Start records must be removed with the schedule, found %d", count)
	}
}
