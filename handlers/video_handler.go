package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"trafkin/backend/config"
	"trafkin/backend/models"
	"trafkin/backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
	media    config.MediaConfig
}

func NewVideoHandler(db *gorm.DB, notifier *services.Notifier, media config.MediaConfig) *VideoHandler {
	if err := os.MkdirAll(media.UploadPath, 0755); err != nil {
		fmt.Printf("Warning: Failed to create media upload directory: %v\n", err)
	}
	return &VideoHandler{db: db, notifier: notifier, media: media}
}

// UploadVideo accepts a relay contributor's multipart upload. The file
// lands on local disk under a uuid name and the video enters the approval
// workflow as "pending".
func (h *VideoHandler) UploadVideo(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}
	description := c.PostForm("description")

	var hotSpotID *uint
	if raw := c.PostForm("hot_spot_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hot_spot_id"})
			return
		}
		var hotSpot models.HotSpot
		if err := h.db.First(&hotSpot, parsed).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Hot spot not found"})
			return
		}
		id := uint(parsed)
		hotSpotID = &id
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Video file is required"})
		return
	}

	filename := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(h.media.UploadPath, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store video file"})
		return
	}

	userID := c.GetUint("user_id")
	video := models.Video{
		Title:       title,
		Description: description,
		FilePath:    h.media.PublicPath + "/" + filename,
		Status:      models.VideoStatusPending,
		UploaderID:  userID,
		HotSpotID:   hotSpotID,
	}

	if err := h.db.Create(&video).Error; err != nil {
		os.Remove(dst)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video"})
		return
	}

	h.notifier.Publish(services.TopicVideos)
	c.JSON(http.StatusCreated, video)
}

// GetMyVideos lists the authenticated relay's own uploads.
func (h *VideoHandler) GetMyVideos(c *gin.Context) {
	userID := c.GetUint("user_id")

	var videos []models.Video
	if err := h.db.Preload("HotSpot").Where("uploader_id = ?", userID).Order("created_at desc").Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}

// GetVideos lists all videos for administrators, optionally filtered by
// workflow status.
func (h *VideoHandler) GetVideos(c *gin.Context) {
	query := h.db.Preload("HotSpot").Preload("Uploader")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var videos []models.Video
	if err := query.Order("created_at desc").Find(&videos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch videos"})
		return
	}

	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) ApproveVideo(c *gin.Context) {
	h.setStatus(c, models.VideoStatusApproved)
}

func (h *VideoHandler) RejectVideo(c *gin.Context) {
	h.setStatus(c, models.VideoStatusRejected)
}

func (h *VideoHandler) setStatus(c *gin.Context, status string) {
	id := c.Param("id")

	var video models.Video
	if err := h.db.First(&video, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch video"})
		return
	}

	if video.Status != models.VideoStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Only pending videos can be reviewed"})
		return
	}

	video.Status = status
	if err := h.db.Save(&video).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update video"})
		return
	}

	h.notifier.Publish(services.TopicVideos)
	c.JSON(http.StatusOK, video)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	id := c.Param("id")

	var count int64
	h.db.Model(&models.ScheduledVideo{}).Where("video_id = ?", id).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Video is scheduled; unschedule it first"})
		return
	}

	if err := h.db.Delete(&models.Video{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video"})
		return
	}

	h.notifier.Publish(services.TopicVideos)
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
