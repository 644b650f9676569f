package handlers

import (
	"net/http"
	"time"

	"trafkin/backend/models"
	"trafkin/backend/resolver"
	"trafkin/backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScheduleHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
	clock    resolver.Clock
}

func NewScheduleHandler(db *gorm.DB, notifier *services.Notifier, clock resolver.Clock) *ScheduleHandler {
	return &ScheduleHandler{db: db, notifier: notifier, clock: clock}
}

type CreateScheduleRequest struct {
	VideoID         uint   `json:"video_id" binding:"required"`
	ScheduledAt     string `json:"scheduled_at" binding:"required"` // RFC 3339
	DurationSeconds int    `json:"duration_seconds" binding:"required,min=1"`
	TrafficStatus   string `json:"traffic_status"`
}

type GoLiveRequest struct {
	IsLive *bool `json:"is_live" binding:"required"`
}

func (h *ScheduleHandler) GetSchedules(c *gin.Context) {
	var schedules []models.ScheduledVideo
	if err := h.db.
		Preload("Video").
		Preload("Video.HotSpot").
		Preload("StartTime").
		Order("scheduled_at asc").
		Find(&schedules).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedules"})
		return
	}

	c.JSON(http.StatusOK, schedules)
}

// CreateSchedule programs an approved video into a broadcast window and
// moves it to "scheduled".
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scheduled_at must be RFC 3339"})
		return
	}

	var video models.Video
	if err := h.db.First(&video, req.VideoID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video"})
		return
	}
	if video.Status != models.VideoStatusApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "Only approved videos can be scheduled"})
		return
	}
	if video.HotSpotID == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Video has no hot spot; assign one before scheduling"})
		return
	}

	schedule := models.ScheduledVideo{
		VideoID:         video.ID,
		ScheduledAt:     scheduledAt,
		DurationSeconds: req.DurationSeconds,
		TrafficStatus:   req.TrafficStatus,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}
		return tx.Model(&video).Update("status", models.VideoStatusScheduled).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule"})
		return
	}

	h.notifier.Publish(services.TopicScheduledVideos)
	c.JSON(http.StatusCreated, schedule)
}

// DeleteSchedule unschedules a video and reverts its status to "approved".
// The actual-start record, if any, goes with it.
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")

	var schedule models.ScheduledVideo
	if err := h.db.First(&schedule, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scheduled_video_id = ?", schedule.ID).Delete(&models.VideoStartTime{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&schedule).Error; err != nil {
			return err
		}
		return tx.Model(&models.Video{}).Where("id = ?", schedule.VideoID).
			Update("status", models.VideoStatusApproved).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule"})
		return
	}

	h.notifier.Publish(services.TopicScheduledVideos)
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted successfully"})
}

// SetLive toggles the admin go-live override. The first toggle to live
// records the actual start time for elapsed display; later toggles leave
// the record untouched.
func (h *ScheduleHandler) SetLive(c *gin.Context) {
	id := c.Param("id")

	var req GoLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var schedule models.ScheduledVideo
	if err := h.db.First(&schedule, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch schedule"})
		return
	}

	isLive := *req.IsLive
	videoStatus := models.VideoStatusScheduled
	if isLive {
		videoStatus = models.VideoStatusLive
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&schedule).Update("is_live", isLive).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Video{}).Where("id = ?", schedule.VideoID).
			Update("status", videoStatus).Error; err != nil {
			return err
		}
		if !isLive {
			return nil
		}
		var count int64
		tx.Model(&models.VideoStartTime{}).Where("scheduled_video_id = ?", schedule.ID).Count(&count)
		if count > 0 {
			return nil
		}
		return tx.Create(&models.VideoStartTime{
			ScheduledVideoID: schedule.ID,
			StartedAt:        h.clock.Now(),
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update schedule"})
		return
	}

	h.notifier.Publish(services.TopicScheduledVideos)
	schedule.IsLive = isLive
	c.JSON(http.StatusOK, schedule)
}
