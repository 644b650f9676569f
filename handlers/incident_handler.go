package handlers

import (
	"errors"
	"net/http"

	"trafkin/backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IncidentHandler struct {
	db *gorm.DB
}

func NewIncidentHandler(db *gorm.DB) *IncidentHandler {
	return &IncidentHandler{db: db}
}

type CreateIncidentRequest struct {
	Type        string   `json:"type" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	ImageURL    string   `json:"image_url"`
}

func (h *IncidentHandler) GetIncidents(c *gin.Context) {
	query := h.db.Preload("Reporter").Order("created_at desc")
	if incidentType := c.Query("type"); incidentType != "" {
		query = query.Where("type = ?", incidentType)
	}

	var incidents []models.Incident
	if err := query.Find(&incidents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incidents"})
		return
	}

	c.JSON(http.StatusOK, incidents)
}

func (h *IncidentHandler) CreateIncident(c *gin.Context) {
	var req CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident := models.Incident{
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		ImageURL:    req.ImageURL,
		ReporterID:  c.GetUint("user_id"),
	}

	if err := h.db.Create(&incident).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incident"})
		return
	}

	c.JSON(http.StatusCreated, incident)
}

// ReactToIncident records one like per user per incident. A second like
// from the same user is a no-op.
func (h *IncidentHandler) ReactToIncident(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetUint("user_id")

	var incident models.Incident
	if err := h.db.First(&incident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch incident"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		reaction := models.IncidentReaction{
			IncidentID: incident.ID,
			UserID:     userID,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reaction)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // already liked
		}
		return tx.Model(&incident).UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record reaction"})
		return
	}

	h.db.First(&incident, incident.ID)
	c.JSON(http.StatusOK, incident)
}

func (h *IncidentHandler) DeleteIncident(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Incident{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete incident"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Incident deleted successfully"})
}
