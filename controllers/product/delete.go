package productcontroller

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

type DeleteItemRequest struct {
	StoreID string   `json:"storeID"`
	ItemID  string   `json:"itemID"`
	ItemIDs []string `json:"itemIDs"`
}

// DELETE /api/delete-item
//
// itemIDs deletes in bulk; otherwise itemID names a single item.
func DeleteItem(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DeleteItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input: " + err.Error()})
			return
		}
		storeID, ok := vendorStore(c, req.StoreID)
		if !ok {
			return
		}

		bulk := len(req.ItemIDs) > 0
		ids := req.ItemIDs
		if !bulk {
			if req.ItemID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Missing item ID for single deletion."})
				return
			}
			ids = []string{req.ItemID}
		}

		n, err := repo.DeleteItems(c.Request.Context(), storeID, ids)
		if err != nil {
			slog.Error("Delete items failed", "store_id", storeID, "count", len(ids), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete item"})
			return
		}

		switch {
		case bulk:
			c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%d item(s) deleted successfully.", n)})
		case n == 0:
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found."})
		default:
			c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully!"})
		}
	}
}
