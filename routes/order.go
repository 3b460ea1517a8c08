package routes

import (
	orderControllers "github.com/amadcodez/vendor-ready/controllers/order"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		submit := []gin.HandlerFunc{
			middleware.LimitBody(d.MaxOrderBytes),
			orderControllers.SubmitOrderHandler(d.Orders, d.Carts),
		}
		if d.RateLimiter != nil {
			submit = append([]gin.HandlerFunc{d.RateLimiter.Middleware()}, submit...)
		}
		api.POST("/submit-order", submit...)

		// Orders containing at least one line item of ?storeID=
		api.GET("/vendor-orders", orderControllers.GetVendorOrdersHandler(d.Orders))
	}
}
