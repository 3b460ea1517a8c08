package cartControllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/amadcodez/vendor-ready/cart"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/gin-gonic/gin"
)

type CartItemInput struct {
	ID       string  `json:"id" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	StoreID  string  `json:"storeID" binding:"required"`
}

type QuantityInput struct {
	Delta int `json:"delta" binding:"required,oneof=1 -1"`
}

func cartResponse(c *gin.Context, status int, store *cart.Store) {
	c.JSON(status, gin.H{
		"items":    store.Items(),
		"subtotal": store.Subtotal(),
	})
}

// openCart loads the session's cart or writes the error response.
func openCart(c *gin.Context, backend cart.Backend) (*cart.Store, bool) {
	store, err := cart.Open(c.Request.Context(), backend, c.Param("session_id"))
	if err != nil {
		slog.Error("Failed to load cart", "session_id", c.Param("session_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		return nil, false
	}
	return store, true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrIndexOutOfRange):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrInvalidDelta), errors.Is(err, models.ErrInvalidLineItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to save cart", "session_id", c.Param("session_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
	}
}

// GET /api/cart/:session_id
func GetCart(backend cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openCart(c, backend)
		if !ok {
			return
		}
		cartResponse(c, http.StatusOK, store)
	}
}

// POST /api/cart/:session_id/items
//
// mode=buy-now adds the product only if it is not already in the cart.
func AddCartItem(backend cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity == 0 {
			input.Quantity = 1
		}
		item, err := models.NewCartLineItem(input.ID, input.Title, input.Price, input.Image, input.Quantity, input.StoreID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		store, ok := openCart(c, backend)
		if !ok {
			return
		}

		if c.Query("mode") == "buy-now" {
			if _, err := store.AddItemIfAbsent(c.Request.Context(), item); err != nil {
				writeCartError(c, err)
				return
			}
		} else if err := store.AddItem(c.Request.Context(), item); err != nil {
			writeCartError(c, err)
			return
		}
		cartResponse(c, http.StatusCreated, store)
	}
}

// PATCH /api/cart/:session_id/items/:index
func UpdateCartItemQuantity(backend cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := indexParam(c)
		if !ok {
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delta must be 1 or -1"})
			return
		}
		store, ok := openCart(c, backend)
		if !ok {
			return
		}
		if err := store.UpdateQuantity(c.Request.Context(), index, input.Delta); err != nil {
			writeCartError(c, err)
			return
		}
		cartResponse(c, http.StatusOK, store)
	}
}

// DELETE /api/cart/:session_id/items/:index
func RemoveCartItem(backend cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, ok := indexParam(c)
		if !ok {
			return
		}
		store, ok := openCart(c, backend)
		if !ok {
			return
		}
		if err := store.RemoveItem(c.Request.Context(), index); err != nil {
			writeCartError(c, err)
			return
		}
		cartResponse(c, http.StatusOK, store)
	}
}

// DELETE /api/cart/:session_id
func ClearCart(backend cart.Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, ok := openCart(c, backend)
		if !ok {
			return
		}
		if err := store.Clear(c.Request.Context()); err != nil {
			writeCartError(c, err)
			return
		}
		cartResponse(c, http.StatusOK, store)
	}
}
