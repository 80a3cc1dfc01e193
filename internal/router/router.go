package router

import (
	"log/slog"
	"net/http"
	"time"

	"dyno/internal/analytics"
	"dyno/internal/auth"
	"dyno/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Logger             *slog.Logger
	Signer             *auth.Signer
	Analytics          *analytics.Handler
	AllowedOrigins     []string
	TrainRatePerMinute int
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(d.Logger),
	)

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authn := middleware.AuthMiddleware(d.Signer, d.Logger)

	// ───────────────────────── USER ROUTES ─────────────────────────
	user := r.Group("/analytics")
	user.Use(authn)
	{
		user.GET("/suggestions", d.Analytics.Suggestions)
	}

	// ───────────────────────── STAFF ROUTES ─────────────────────────
	admin := r.Group("/admin/analytics")
	admin.Use(
		authn,
		middleware.RequireRole(auth.RoleStaff),
	)
	{
		admin.GET("/stats", d.Analytics.Stats)
		admin.GET("/predictions", d.Analytics.RecentPredictions)
		admin.POST("/predict", d.Analytics.Predict)
		admin.GET("/model", d.Analytics.Model)

		limiter := middleware.NewRateLimiter(d.TrainRatePerMinute)
		admin.POST("/train", middleware.RateLimit(limiter, d.Logger), d.Analytics.Train)
	}

	return r
}
