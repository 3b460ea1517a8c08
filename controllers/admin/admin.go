package adminController

import (
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// GET /admin/stores
func GetAllStores(repo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores, err := repo.ListStores(c.Request.Context())
		if err != nil {
			slog.Error("Failed to fetch stores", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
			return
		}
		c.JSON(http.StatusOK, stores)
	}
}

type storeOverview struct {
	StoreID   string  `json:"storeID"`
	StoreName string  `json:"storeName,omitempty"`
	Orders    int     `json:"orders"`
	Revenue   float64 `json:"revenue"`
	ItemsSold int     `json:"itemsSold"`
}

// GET /admin/overview
//
// Per-store totals over every stored order, including stores referenced by
// line items that have no store record.
func GetOverview(repo repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		orders, err := repo.ListOrders(ctx)
		if err != nil {
			slog.Error("Failed to fetch orders", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		stores, err := repo.ListStores(ctx)
		if err != nil {
			slog.Error("Failed to fetch stores", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stores"})
			return
		}

		byID := make(map[string]*storeOverview)
		var ids []string
		row := func(id string) *storeOverview {
			r, ok := byID[id]
			if !ok {
				r = &storeOverview{StoreID: id}
				byID[id] = r
				ids = append(ids, id)
			}
			return r
		}
		for _, s := range stores {
			row(s.StoreID).StoreName = s.StoreName
		}
		for _, o := range orders {
			for _, id := range o.StoreIDs() {
				r := row(id)
				r.Orders++
				for _, item := range o.ItemsForStore(id) {
					r.Revenue += item.LineTotal()
					r.ItemsSold += item.Quantity
				}
			}
		}

		out := make([]storeOverview, 0, len(ids))
		for _, id := range ids {
			out = append(out, *byID[id])
		}
		c.JSON(http.StatusOK, gin.H{
			"totalOrders": len(orders),
			"totalStores": len(stores),
			"stores":      out,
		})
	}
}
