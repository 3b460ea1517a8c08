package productcontroller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// UpdateItemRequest replaces name, description and price. The other fields
// change only when present; images only when at least one is sent.
type UpdateItemRequest struct {
	StoreID                string   `json:"storeID"`
	ItemID                 string   `json:"itemID" binding:"required"`
	UpdatedItemName        string   `json:"updatedItemName" binding:"required"`
	UpdatedItemDescription string   `json:"updatedItemDescription" binding:"required"`
	UpdatedItemPrice       *float64 `json:"updatedItemPrice" binding:"required"`
	CompareAtPrice         *float64 `json:"compareAtPrice"`
	CostPerItem            *float64 `json:"costPerItem"`
	Quantity               *int     `json:"quantity"`
	Category               string   `json:"category"`
	ItemImages             []string `json:"itemImages"`
}

// PUT /api/update-item
func UpdateItem(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields."})
			return
		}
		storeID, ok := vendorStore(c, req.StoreID)
		if !ok {
			return
		}

		item, err := repo.FindItem(c.Request.Context(), req.ItemID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && item.StoreID != storeID) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Item not found."})
			return
		}
		if err != nil {
			slog.Error("Fetch item failed", "item_id", req.ItemID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update item"})
			return
		}

		item.ItemName = req.UpdatedItemName
		item.ItemDescription = req.UpdatedItemDescription
		item.ItemPrice = *req.UpdatedItemPrice
		if req.CompareAtPrice != nil {
			item.CompareAtPrice = *req.CompareAtPrice
		}
		if req.CostPerItem != nil {
			item.CostPerItem = *req.CostPerItem
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Category != "" {
			item.Category = req.Category
		}
		if len(req.ItemImages) > 0 {
			item.ItemImages = req.ItemImages
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		if err := repo.UpdateItem(c.Request.Context(), item); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Item not found."})
				return
			}
			slog.Error("Update item failed", "item_id", item.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully!", "item": item})
	}
}
