package productcontroller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Clock is swapped in tests.
type Clock func() time.Time

type CreateItemRequest struct {
	StoreID         string   `json:"storeID"`
	ItemName        string   `json:"itemName" binding:"required"`
	ItemDescription string   `json:"itemDescription" binding:"required"`
	ItemPrice       *float64 `json:"itemPrice" binding:"required"`
	CompareAtPrice  float64  `json:"compareAtPrice"`
	CostPerItem     float64  `json:"costPerItem"`
	Quantity        int      `json:"quantity"`
	Category        string   `json:"category"`
	ItemImages      []string `json:"itemImages"`
}

// vendorStore returns the caller's store from the token. A storeID sent in
// the request must name the same store.
func vendorStore(c *gin.Context, requested string) (string, bool) {
	storeID := c.GetString(middleware.StoreIDKey)
	if storeID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return "", false
	}
	if requested != "" && requested != storeID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Token does not belong to this store."})
		return "", false
	}
	return storeID, true
}

// POST /api/add-item
func CreateItem(repo repository.ItemRepository, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		storeID, ok := vendorStore(c, req.StoreID)
		if !ok {
			return
		}

		item := models.Item{
			ID:              uuid.NewString(),
			StoreID:         storeID,
			ItemName:        req.ItemName,
			ItemDescription: req.ItemDescription,
			ItemPrice:       *req.ItemPrice,
			CompareAtPrice:  req.CompareAtPrice,
			CostPerItem:     req.CostPerItem,
			Quantity:        req.Quantity,
			Category:        req.Category,
			ItemImages:      req.ItemImages,
			CreatedAt:       now().UTC(),
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := repo.CreateItem(c.Request.Context(), &item); err != nil {
			slog.Error("Create item failed", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to add item"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Item added successfully!", "item": item})
	}
}
