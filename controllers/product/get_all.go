package productcontroller

import (
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// GET /api/view-items
//
// Lists the calling vendor's items. An empty catalog is a 404.
func GetStoreItems(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID, ok := vendorStore(c, c.Query("storeID"))
		if !ok {
			return
		}
		items, err := repo.FindItems(c.Request.Context(), repository.ItemQuery{StoreID: storeID})
		if err != nil {
			slog.Error("Fetch store items failed", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "An error occurred while fetching items."})
			return
		}
		if len(items) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No items found for this store."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// GET /api/shop-products?category=&sort=price-asc|price-desc
//
// Public listing across every store. Unknown sort values are ignored.
func GetShopProducts(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := repository.ItemQuery{
			Category: c.Query("category"),
			Sort:     models.ParseItemSort(c.Query("sort")),
		}
		items, err := repo.FindItems(c.Request.Context(), q)
		if err != nil {
			slog.Error("Fetch shop products failed", "category", q.Category, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load products"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
