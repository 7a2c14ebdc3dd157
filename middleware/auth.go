package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salle-backend/models"
	"salle-backend/utils"
)

// ContextAdminID is the gin context key under which AdminAuth stores the
// authenticated admin's ID.
const ContextAdminID = "admin_id"

// AdminAuth gates admin-only routes behind a bearer token issued at login
// and stored in admin_sessions. Expired sessions are rejected and pruned.
func AdminAuth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		var session models.AdminSession
		err := db.Where("token = ?", token).First(&session).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.JSONError(c, http.StatusUnauthorized, "invalid token")
			} else {
				utils.JSONError(c, http.StatusServiceUnavailable, "session store unavailable")
			}
			c.Abort()
			return
		}

		if time.Now().After(session.ExpiresAt) {
			db.Delete(&session)
			utils.JSONError(c, http.StatusUnauthorized, "session expired")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, session.AdminID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
