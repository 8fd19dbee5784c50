package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/brf-booking-backend/internal/auth"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	// === Authenticated Routes ===
	group := g.Group("", authMiddleware)
	{
		group.GET("/bookings", h.ListMine)
		group.POST("/book", h.Book)
		group.DELETE("/cancel", h.Cancel)
		group.GET("/slots", h.Slots)
		group.GET("/availability-range", h.AvailabilityRange)
	}

	// === Admin Routes ===
	admin := g.Group("/admin", authMiddleware, auth.AdminRequired())
	{
		admin.GET("/calendar", h.Calendar)
	}
}
