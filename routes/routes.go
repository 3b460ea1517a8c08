package routes

import (
	"time"

	"github.com/amadcodez/vendor-ready/cart"
	orderControllers "github.com/amadcodez/vendor-ready/controllers/order"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/orders"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// Deps carries everything the route groups hand to their controllers.
type Deps struct {
	Repo        repository.Repository
	Orders      *orders.Service
	Carts       cart.Backend
	Hub         *orderControllers.Hub
	RateLimiter *middleware.RateLimiter
	JWTSecret   string
	TokenTTL    time.Duration
	AdminAPIKey string
	Now         func() time.Time

	// MaxOrderBytes caps the submit-order body; 0 means DefaultMaxOrderBytes.
	MaxOrderBytes int64
}

// DefaultMaxOrderBytes leaves room for a base64 proof-of-payment image.
const DefaultMaxOrderBytes = 10 << 20

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.MaxOrderBytes <= 0 {
		d.MaxOrderBytes = DefaultMaxOrderBytes
	}

	// Storefront: orders, carts and store onboarding (public)
	SetupOrderRoutes(r, d)
	SetupCartRoutes(r, d)
	SetupStoreRoutes(r, d)

	// Item catalog: public shop listing, vendor CRUD (JWT-protected)
	SetupProductRoutes(r, d)

	// Vendor dashboard (JWT-protected)
	SetupVendorRoutes(r, d)

	// Admin panel (API-Key-protected)
	SetupAdminRoutes(r, d)
}
