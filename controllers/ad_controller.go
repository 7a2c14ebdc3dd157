package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"salle-backend/models"
	"salle-backend/services"
	"salle-backend/utils"
)

type AdController struct {
	Ads *services.AdService
}

func NewAdController(as *services.AdService) *AdController {
	return &AdController{Ads: as}
}

// GetAds handles GET /api/ads. The public form returns active ads inside
// their display window, optionally filtered by position; ?all=true (admin
// console) returns everything.
func (ac *AdController) GetAds(c *gin.Context) {
	if c.Query("all") == "true" {
		ads, err := ac.Ads.GetAll()
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, ads)
		return
	}

	ads, err := ac.Ads.ActiveForPosition(c.Query("position"), time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ads)
}

// CreateAd handles POST /api/ads (admin).
func (ac *AdController) CreateAd(c *gin.Context) {
	var ad models.Advertisement
	if err := c.ShouldBindJSON(&ad); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid request payload",
			gin.H{"details": err.Error()})
		return
	}

	if err := ac.Ads.Create(&ad); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ad)
}

// UpdateAd handles PATCH /api/ads/:id (admin).
func (ac *AdController) UpdateAd(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "invalid request payload",
			gin.H{"details": err.Error()})
		return
	}

	ad, err := ac.Ads.Update(id, fields)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

// DeleteAd handles DELETE /api/ads/:id (admin).
func (ac *AdController) DeleteAd(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ac.Ads.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "advertisement deleted"})
}

type trackPayload struct {
	Type string `json:"type" binding:"required"`
}

// TrackAd handles POST /api/ads/:id/track with {"type":"view"|"click"}.
func (ac *AdController) TrackAd(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var payload trackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, "validation", "type is required",
			gin.H{"field": "type"})
		return
	}

	if err := ac.Ads.Track(id, payload.Type); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"tracked": payload.Type})
}
