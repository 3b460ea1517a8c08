package productcontroller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// GET /api/products/:id
func GetItemByID(repo repository.ItemRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
			return
		}

		item, err := repo.FindItem(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				slog.Error("Fetch product failed", "item_id", id, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
			return
		}
		c.JSON(http.StatusOK, item)
	}
}
