package handlers

import (
	"net/http"
	"time"

	"trafkin/backend/models"
	"trafkin/backend/resolver"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdHandler struct {
	db    *gorm.DB
	clock resolver.Clock
}

func NewAdHandler(db *gorm.DB, clock resolver.Clock) *AdHandler {
	return &AdHandler{db: db, clock: clock}
}

type AdRequest struct {
	Title     string  `json:"title" binding:"required"`
	ImageURL  string  `json:"image_url"`
	TargetURL string  `json:"target_url"`
	Active    *bool   `json:"active"`
	StartsAt  *string `json:"starts_at"` // RFC 3339
	EndsAt    *string `json:"ends_at"`
}

// GetActiveAds returns ads that are flagged active and inside their
// display window, if one is set.
func (h *AdHandler) GetActiveAds(c *gin.Context) {
	now := h.clock.Now()

	var ads []models.Advertisement
	if err := h.db.
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at > ?", now).
		Order("created_at desc").
		Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch advertisements"})
		return
	}

	c.JSON(http.StatusOK, ads)
}

func (h *AdHandler) GetAds(c *gin.Context) {
	var ads []models.Advertisement
	if err := h.db.Order("created_at desc").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch advertisements"})
		return
	}

	c.JSON(http.StatusOK, ads)
}

func (h *AdHandler) CreateAd(c *gin.Context) {
	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := models.Advertisement{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		TargetURL: req.TargetURL,
		Active:    true,
	}
	if req.Active != nil {
		ad.Active = *req.Active
	}
	if !h.parseWindow(c, &ad, req) {
		return
	}

	if err := h.db.Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create advertisement"})
		return
	}

	c.JSON(http.StatusCreated, ad)
}

func (h *AdHandler) UpdateAd(c *gin.Context) {
	id := c.Param("id")

	var req AdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ad models.Advertisement
	if err := h.db.First(&ad, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Advertisement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch advertisement"})
		return
	}

	ad.Title = req.Title
	ad.ImageURL = req.ImageURL
	ad.TargetURL = req.TargetURL
	if req.Active != nil {
		ad.Active = *req.Active
	}
	if !h.parseWindow(c, &ad, req) {
		return
	}

	if err := h.db.Save(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update advertisement"})
		return
	}

	c.JSON(http.StatusOK, ad)
}

func (h *AdHandler) DeleteAd(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Advertisement{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete advertisement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Advertisement deleted successfully"})
}

func (h *AdHandler) parseWindow(c *gin.Context, ad *models.Advertisement, req AdRequest) bool {
	parse := func(raw *string, field string) (*time.Time, bool) {
		if raw == nil || *raw == "" {
			return nil, true
		}
		t, err := time.Parse(time.RFC3339, *raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " must be RFC 3339"})
			return nil, false
		}
		return &t, true
	}

	startsAt, ok := parse(req.StartsAt, "starts_at")
	if !ok {
		return false
	}
	endsAt, ok := parse(req.EndsAt, "ends_at")
	if !ok {
		return false
	}
	ad.StartsAt = startsAt
	ad.EndsAt = endsAt
	return true
}
