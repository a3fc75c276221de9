package handler

import (
	"net/http"
	"slices"
	"time"

	"citizenvoice/backend/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// NewRouter wires every route. origins lists the allowed CORS origins; "*"
// allows any.
func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger(), corsMiddleware(origins))

	r.GET("/health", h.Health)
	r.GET("/ws", h.ServeWebSocket)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		public := api.Group("/auth")
		{
			public.POST("/login", h.Login)
			public.POST("/register", h.Register)
		}

		api.GET("/onboarding", h.GetOnboarding)
		api.POST("/onboarding", h.SetOnboarding)

		protected := api.Group("")
		protected.Use(h.RequireAuth())
		{
			protected.POST("/auth/logout", h.Logout)
			protected.GET("/auth/profile", h.GetProfile)
			protected.PUT("/auth/profile", h.UpdateProfile)

			protected.GET("/complaints", h.ListComplaints)
			protected.GET("/complaints/grouped", h.RequireRole(models.RoleLeader), h.GroupedComplaints)
			protected.GET("/complaints/:id", h.GetComplaint)
			protected.POST("/complaints", h.CreateComplaint)
			protected.PUT("/complaints/:id", h.RequireRole(models.RoleLeader), h.RespondToComplaint)
			protected.DELETE("/complaints/:id", h.DeleteComplaint)

			protected.GET("/notifications", h.ListNotifications)
			protected.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
			protected.GET("/notifications/:id", h.GetNotification)
			protected.PUT("/notifications/:id/read", h.MarkNotificationRead)
		}
	}

	return r
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok", "time": h.Now().UTC()})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			h.Logger.Warn("request completed with errors", fields...)
			return
		}
		h.Logger.Info("request", fields...)
	}
}
