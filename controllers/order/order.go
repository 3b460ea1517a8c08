package orderControllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/amadcodez/vendor-ready/cart"
	"github.com/amadcodez/vendor-ready/checkout"
	"github.com/amadcodez/vendor-ready/orders"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// POST /api/submit-order
//
// When session_id is given the shopper's server-side cart is emptied after the
// order is stored.
func SubmitOrderHandler(svc *orders.Service, carts cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orders.SubmitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "Order payload too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input: " + err.Error()})
			return
		}

		order, err := svc.Submit(c.Request.Context(), req)
		if err != nil {
			var verr *checkout.ValidationError
			switch {
			case errors.As(err, &verr):
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error":   verr.Message,
					"reason":  verr.Reason,
					"field":   verr.Field,
				})
			default:
				slog.Error("Submit order failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Order failed"})
			}
			return
		}

		if sessionID := c.Query("session_id"); sessionID != "" && carts != nil {
			clearCart(c, carts, sessionID)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "orderID": order.OrderID})
	}
}

func clearCart(c *gin.Context, carts cart.Backend, sessionID string) {
	store, err := cart.Open(c.Request.Context(), carts, sessionID)
	if err == nil {
		err = store.Clear(c.Request.Context())
	}
	if err != nil {
		slog.Warn("Failed to clear cart after order", "session_id", sessionID, "error", err)
	}
}

// GET /api/vendor-orders?storeID=
func GetVendorOrdersHandler(svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.Query("storeID")
		if storeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing storeID"})
			return
		}
		list, err := svc.OrdersForStore(c.Request.Context(), storeID)
		if err != nil {
			slog.Error("Fetch vendor orders failed", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(repo repository.OrderRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := repo.ListOrders(c.Request.Context())
		if err != nil {
			slog.Error("List orders failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
