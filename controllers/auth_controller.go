package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"salle-backend/models"
	"salle-backend/utils"
)

const sessionTTL = 24 * time.Hour

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/auth/login: bcrypt check, then a fresh session
// token valid for 24h.
func (ac *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	email := strings.TrimSpace(strings.ToLower(payload.Email))
	var admin models.Admin
	if err := ac.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		} else {
			utils.JSONError(c, http.StatusServiceUnavailable, "service temporarily unavailable")
		}
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(payload.Password)) != nil {
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}

	session := models.AdminSession{
		AdminID:   admin.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := ac.DB.Create(&session).Error; err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}

	// Opportunistic cleanup of stale sessions.
	ac.DB.Where("expires_at < ?", time.Now()).Delete(&models.AdminSession{})

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": session.ExpiresAt,
		"admin": gin.H{
			"id":        admin.ID,
			"full_name": admin.FullName,
			"email":     admin.Email,
		},
	})
}

// Logout handles POST /api/auth/logout, invalidating the presented token.
func (ac *AuthController) Logout(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		utils.JSONError(c, http.StatusBadRequest, "missing bearer token")
		return
	}

	ac.DB.Where("token = ?", token).Delete(&models.AdminSession{})
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "logged out"})
}
