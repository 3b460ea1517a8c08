package routes

import (
	productcontroller "github.com/amadcodez/vendor-ready/controllers/product"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/gin-gonic/gin"
)

// SetupProductRoutes registers the item catalog. Browsing is public; changing
// a catalog needs a vendor token and only touches the token's store.
func SetupProductRoutes(r *gin.Engine, d Deps) {
	now := productcontroller.Clock(d.Now)

	shop := r.Group("/api")
	{
		shop.GET("/shop-products", productcontroller.GetShopProducts(d.Repo))
		shop.GET("/products", productcontroller.GetShopProducts(d.Repo))
		shop.GET("/products/:id", productcontroller.GetItemByID(d.Repo))
	}

	catalog := r.Group("/api")
	catalog.Use(middleware.ValidateToken(d.JWTSecret))
	{
		catalog.POST("/add-item", productcontroller.CreateItem(d.Repo, now))
		catalog.GET("/view-items", productcontroller.GetStoreItems(d.Repo))
		catalog.PUT("/update-item", productcontroller.UpdateItem(d.Repo))
		catalog.DELETE("/delete-item", productcontroller.DeleteItem(d.Repo))
		catalog.POST("/add-item-category", productcontroller.AddItemCategory(d.Repo, now))

		catalog.POST("/items/import-excel", productcontroller.ImportItemsFromExcel(d.Repo, now))
		catalog.GET("/items/export-excel", productcontroller.ExportItemsToExcel(d.Repo))
	}
}
