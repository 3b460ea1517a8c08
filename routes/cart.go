package routes

import (
	cartControllers "github.com/amadcodez/vendor-ready/controllers/cart"
	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(r *gin.Engine, d Deps) {
	carts := r.Group("/api/cart/:session_id")
	{
		carts.GET("", cartControllers.GetCart(d.Carts))
		carts.DELETE("", cartControllers.ClearCart(d.Carts))

		// ?mode=buy-now adds only if the product is not already in the cart
		carts.POST("/items", cartControllers.AddCartItem(d.Carts))
		carts.PATCH("/items/:index", cartControllers.UpdateCartItemQuantity(d.Carts))
		carts.DELETE("/items/:index", cartControllers.RemoveCartItem(d.Carts))
	}
}
