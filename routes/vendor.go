package routes

import (
	analyticsControllers "github.com/amadcodez/vendor-ready/controllers/analytics"
	orderControllers "github.com/amadcodez/vendor-ready/controllers/order"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/gin-gonic/gin"
)

// SetupVendorRoutes registers "/vendor/*". The store is taken from the token,
// never from the request.
func SetupVendorRoutes(r *gin.Engine, d Deps) {
	vendor := r.Group("/vendor")
	vendor.Use(middleware.ValidateToken(d.JWTSecret))
	{
		vendor.GET("/analytics", analyticsControllers.GetVendorAnalytics(d.Repo, d.Now))
		vendor.GET("/analytics/export", analyticsControllers.ExportVendorAnalytics(d.Repo, d.Now))

		// websocket feed of new orders for this store
		vendor.GET("/orders/ws", orderControllers.OrderWebSocketHandler(d.Hub))
	}
}
