package productcontroller

import (
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AddItemCategoryRequest struct {
	UserID   string `json:"userID" binding:"required"`
	ItemType string `json:"itemType" binding:"required"`
	StoreID  string `json:"storeID"`
}

// POST /api/add-item-category
func AddItemCategory(repo repository.ItemRepository, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields."})
			return
		}
		storeID, ok := vendorStore(c, req.StoreID)
		if !ok {
			return
		}
		if userID := c.GetString(middleware.UserIDKey); userID != "" && userID != req.UserID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Token does not belong to this user."})
			return
		}

		category := models.ItemCategory{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			StoreID:   storeID,
			ItemType:  req.ItemType,
			CreatedAt: now().UTC(),
		}
		if err := repo.CreateItemCategory(c.Request.Context(), &category); err != nil {
			slog.Error("Create item category failed", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item category added!", "id": category.ID})
	}
}
