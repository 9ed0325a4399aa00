package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	intconfig "rentalbackend/internal/config"
	"rentalbackend/internal/domain"
	h "rentalbackend/internal/http/handlers"
	"rentalbackend/internal/http/middleware"
	"rentalbackend/internal/logger"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.L().Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "not_found", "message": "route not found"},
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	auth := middleware.Auth(env.JWTSecret)
	staff := middleware.RequireRole(domain.RoleWorker, domain.RoleSeller, domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", h.Login)
		api.POST("/auth/register", h.Register)

		vehicles := api.Group("/vehicles", auth)
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		vehicles.POST("", h.CreateVehicle)
		vehicles.DELETE("/:id", h.DeleteVehicle)
		vehicles.PUT("/:id/status", staff, h.SetVehicleStatus)
		vehicles.POST("/:id/maintenance", staff, h.RecordVehicleMaintenance)
		vehicles.GET("/:id/maintenance", staff, h.ListVehicleMaintenance)

		bookings := api.Group("/bookings", auth)
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBookingByID)
		bookings.GET("/:id/history", h.GetBookingHistory)
		bookings.GET("/:id/invoice", h.GetBookingInvoicePDF)
		bookings.PUT("/:id/status", h.UpdateBookingStatus)
		bookings.POST("/:id/documents", h.UploadBookingDocument)
		bookings.POST("/:id/handover", staff, h.ProcessHandover)
		bookings.GET("/:id/handover", staff, h.GetHandover)
		bookings.POST("/:id/return", staff, h.MarkBookingReturned)

		refunds := api.Group("/refunds", auth)
		refunds.POST("", h.RequestRefund)
		refunds.GET("/:id", h.GetRefund)
		refunds.PUT("/:id/process", middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin), h.ProcessRefund)

		api.GET("/revenue/analytics", auth, h.GetRevenueAnalytics)
	}

	return r
}
