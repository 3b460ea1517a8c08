package routes

import (
	adminController "github.com/amadcodez/vendor-ready/controllers/admin"
	orderControllers "github.com/amadcodez/vendor-ready/controllers/order"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(d.Repo))
		adminGroup.GET("/stores", adminController.GetAllStores(d.Repo))
		adminGroup.GET("/overview", adminController.GetOverview(d.Repo))
	}
}
