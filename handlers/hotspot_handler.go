package handlers

import (
	"net/http"

	"trafkin/backend/models"
	"trafkin/backend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HotSpotHandler struct {
	db       *gorm.DB
	notifier *services.Notifier
}

func NewHotSpotHandler(db *gorm.DB, notifier *services.Notifier) *HotSpotHandler {
	return &HotSpotHandler{db: db, notifier: notifier}
}

type CreateHotSpotRequest struct {
	Name          string   `json:"name" binding:"required"`
	Active        *bool    `json:"active"`
	TrafficStatus string   `json:"traffic_status"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ImageURL      string   `json:"image_url"`
}

type UpdateHotSpotRequest struct {
	Name          *string  `json:"name"`
	Active        *bool    `json:"active"`
	TrafficStatus *string  `json:"traffic_status"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	ImageURL      *string  `json:"image_url"`
}

func (h *HotSpotHandler) GetHotSpots(c *gin.Context) {
	var hotSpots []models.HotSpot
	if err := h.db.Order("name asc").Find(&hotSpots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hot spots"})
		return
	}

	c.JSON(http.StatusOK, hotSpots)
}

func (h *HotSpotHandler) GetHotSpot(c *gin.Context) {
	id := c.Param("id")

	var hotSpot models.HotSpot
	if err := h.db.First(&hotSpot, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hot spot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hot spot"})
		return
	}

	c.JSON(http.StatusOK, hotSpot)
}

func (h *HotSpotHandler) CreateHotSpot(c *gin.Context) {
	var req CreateHotSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	trafficStatus := req.TrafficStatus
	if trafficStatus == "" {
		trafficStatus = "fluide"
	}

	hotSpot := models.HotSpot{
		Name:          req.Name,
		Active:        active,
		TrafficStatus: trafficStatus,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		ImageURL:      req.ImageURL,
	}

	if err := h.db.Create(&hotSpot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hot spot"})
		return
	}

	h.notifier.Publish(services.TopicHotSpots)
	c.JSON(http.StatusCreated, hotSpot)
}

func (h *HotSpotHandler) UpdateHotSpot(c *gin.Context) {
	id := c.Param("id")

	var req UpdateHotSpotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var hotSpot models.HotSpot
	if err := h.db.First(&hotSpot, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hot spot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hot spot"})
		return
	}

	if req.Name != nil {
		hotSpot.Name = *req.Name
	}
	if req.Active != nil {
		hotSpot.Active = *req.Active
	}
	if req.TrafficStatus != nil {
		hotSpot.TrafficStatus = *req.TrafficStatus
	}
	if req.Latitude != nil {
		hotSpot.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		hotSpot.Longitude = req.Longitude
	}
	if req.ImageURL != nil {
		hotSpot.ImageURL = *req.ImageURL
	}

	if err := h.db.Save(&hotSpot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update hot spot"})
		return
	}

	h.notifier.Publish(services.TopicHotSpots)
	c.JSON(http.StatusOK, hotSpot)
}

func (h *HotSpotHandler) DeleteHotSpot(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.HotSpot{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete hot spot"})
		return
	}

	h.notifier.Publish(services.TopicHotSpots)
	c.JSON(http.StatusOK, gin.H{"message": "Hot spot deleted successfully"})
}
