package routes

import (
	storeControllers "github.com/amadcodez/vendor-ready/controllers/store"
	"github.com/gin-gonic/gin"
)

func SetupStoreRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	{
		api.POST("/create-store", storeControllers.CreateStore(d.Repo, storeControllers.TokenConfig{
			Secret: d.JWTSecret,
			TTL:    d.TokenTTL,
		}))
		api.GET("/get-store", storeControllers.GetStore(d.Repo))
		api.GET("/check-existing-store", storeControllers.CheckExistingStore(d.Repo))
	}
}
