package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"salle-backend/controllers"
	"salle-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controllers into the route tree. Admin-only routes sit
// behind the bearer-token gate; the public booking endpoint is rate-limited
// per client IP.
func SetupRouter(
	db *gorm.DB,
	log zerolog.Logger,
	rc *controllers.RoomController,
	resc *controllers.ReservationController,
	adc *controllers.AdController,
	authc *controllers.AuthController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Static("/uploads", "./uploads")

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adminGate := middleware.AdminAuth(db)

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.GET("/:id", rc.GetRoom)
			rooms.POST("", adminGate, rc.CreateRoom)
			rooms.PATCH("/:id", adminGate, rc.UpdateRoom)
			rooms.PUT("/:id", adminGate, rc.UpdateRoom)
			rooms.DELETE("/:id", adminGate, rc.DeleteRoom)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", resc.GetReservationsByRoom)
			reservations.GET("/blocked-days", resc.GetBlockedDays)
			reservations.POST("", middleware.RateLimit(2, 5), resc.CreateReservation)
		}

		admin := api.Group("/admin", adminGate)
		{
			admin.GET("/reservations", resc.GetAllReservations)
			admin.GET("/reservations/:id", resc.GetReservation)
			admin.PATCH("/reservations/:id", resc.UpdateStatus)
			admin.PATCH("/reservations/:id/price", resc.SetAdminPrice)
			admin.DELETE("/reservations/:id/price", resc.ResetAdminPrice)
		}

		ads := api.Group("/ads")
		{
			ads.GET("", adc.GetAds)
			ads.POST("/:id/track", adc.TrackAd)
			ads.POST("", adminGate, adc.CreateAd)
			ads.PATCH("/:id", adminGate, adc.UpdateAd)
			ads.DELETE("/:id", adminGate, adc.DeleteAd)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/login", authc.Login)
			auth.POST("/logout", authc.Logout)
		}

		api.POST("/upload-room-image", adminGate, controllers.UploadRoomImage)
	}

	return r
}
