package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amadcodez/vendor-ready/cart"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type cartBody struct {
	Items    []models.CartLineItem `json:"items"`
	Subtotal float64               `json:"subtotal"`
}

func newRouter(backend cart.Backend) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/cart/:session_id")
	g.GET("", GetCart(backend))
	g.POST("/items", AddCartItem(backend))
	g.PATCH("/items/:index", UpdateCartItemQuantity(backend))
	g.DELETE("/items/:index", RemoveCartItem(backend))
	g.DELETE("", ClearCart(backend))
	return r
}

func call(t *testing.T, r *gin.Engine, method, target, body string) (int, cartBody) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out cartBody
	if w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

const mug = `{"id":"p1","title":"Mug","price":10,"storeID":"A"}`

func TestCartLifecycle(t *testing.T) {
	r := newRouter(cart.NewMemoryBackend())

	code, body := call(t, r, http.MethodGet, "/api/cart/s1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Items)
	assert.Zero(t, body.Subtotal)

	code, body = call(t, r, http.MethodPost, "/api/cart/s1/items", mug)
	require.Equal(t, http.StatusCreated, code)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.Items[0].Quantity)

	// add never merges
	_, body = call(t, r, http.MethodPost, "/api/cart/s1/items", mug)
	assert.Len(t, body.Items, 2)

	// buy-now skips products already present
	_, body = call(t, r, http.MethodPost, "/api/cart/s1/items?mode=buy-now", mug)
	assert.Len(t, body.Items, 2)

	code, body = call(t, r, http.MethodPatch, "/api/cart/s1/items/0", `{"delta":1}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, body.Items[0].Quantity)
	assert.Equal(t, 30.0, body.Subtotal)

	code, body = call(t, r, http.MethodDelete, "/api/cart/s1/items/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Items, 1)

	code, body = call(t, r, http.MethodDelete, "/api/cart/s1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body.Items)
}

func TestCartDecrementStopsAtOne(t *testing.T) {
	r := newRouter(cart.NewMemoryBackend())
	call(t, r, http.MethodPost, "/api/cart/s1/items", mug)

	code, body := call(t, r, http.MethodPatch, "/api/cart/s1/items/0", `{"delta":-1}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, body.Items[0].Quantity)
}

func TestCartErrors(t *testing.T) {
	r := newRouter(cart.NewMemoryBackend())
	call(t, r, http.MethodPost, "/api/cart/s1/items", mug)

	tests := []struct {
		name, method, target, body string
		code                       int
	}{
		{"missing store", http.MethodPost, "/api/cart/s1/items", `{"id":"p1","title":"Mug","price":10}`, http.StatusBadRequest},
		{"zero price", http.MethodPost, "/api/cart/s1/items", `{"id":"p1","title":"Mug","price":0,"storeID":"A"}`, http.StatusBadRequest},
		{"negative quantity", http.MethodPost, "/api/cart/s1/items", `{"id":"p1","title":"Mug","price":1,"quantity":-2,"storeID":"A"}`, http.StatusBadRequest},
		{"delta of two", http.MethodPatch, "/api/cart/s1/items/0", `{"delta":2}`, http.StatusBadRequest},
		{"bad index", http.MethodPatch, "/api/cart/s1/items/x", `{"delta":1}`, http.StatusBadRequest},
		{"index out of range", http.MethodDelete, "/api/cart/s1/items/5", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := call(t, r, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	r := newRouter(cart.NewMemoryBackend())
	call(t, r, http.MethodPost, "/api/cart/s1/items", mug)

	_, body := call(t, r, http.MethodGet, "/api/cart/s2", "")
	assert.Empty(t, body.Items)
}
