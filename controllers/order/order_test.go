package orderControllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amadcodez/vendor-ready/cart"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/notify"
	"github.com/amadcodez/vendor-ready/orders"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const validBody = `{
	"email": "buyer@gmail.com",
	"firstName": "Ali",
	"address": "House 1",
	"city": "Lahore",
	"phone": "03001234567",
	"paymentMethod": "cod",
	"cartItems": [
		{"id": "p1", "title": "Mug", "price": 10, "quantity": 2, "storeID": "A"},
		{"id": "p2", "title": "Cap", "price": 5, "quantity": 1, "storeID": "B"}
	],
	"total": 25
}`

type fixture struct {
	router *gin.Engine
	repo   *repository.MemoryRepository
	carts  *cart.MemoryBackend
	queue  *notify.ChannelQueue
	hub    *Hub
}

func newFixture() *fixture {
	f := &fixture{
		repo:  repository.NewMemoryRepository(),
		carts: cart.NewMemoryBackend(),
		queue: notify.NewChannelQueue(8),
		hub:   NewHub(),
	}
	svc := orders.NewService(f.repo, f.queue, orders.WithPublisher(f.hub))
	f.router = gin.New()
	f.router.POST("/api/submit-order", SubmitOrderHandler(svc, f.carts))
	f.router.GET("/api/vendor-orders", GetVendorOrdersHandler(svc))
	f.router.GET("/admin/orders", GetAllOrdersHandler(f.repo))
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSubmitOrderThenVendorOrders(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodPost, "/api/submit-order", validBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderID"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.OrderID, 8)

	for _, store := range []string{"A", "B"} {
		w = f.do(http.MethodGet, "/api/vendor-orders?storeID="+store, "")
		require.Equal(t, http.StatusOK, w.Code)
		var list struct {
			Success bool           `json:"success"`
			Orders  []models.Order `json:"orders"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Len(t, list.Orders, 1)
		assert.Equal(t, resp.OrderID, list.Orders[0].OrderID)
		assert.Equal(t, 25.0, list.Orders[0].Total)
	}

	w = f.do(http.MethodGet, "/api/vendor-orders?storeID=C", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"orders":[]}`, w.Body.String())
}

func TestSubmitOrderValidationError(t *testing.T) {
	f := newFixture()
	body := strings.Replace(validBody, "03001234567", "12345", 1)

	w := f.do(http.MethodPost, "/api/submit-order", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "phone_invalid", resp["reason"])
	assert.Equal(t, "phone", resp["field"])

	all, _ := f.repo.ListOrders(context.Background())
	assert.Empty(t, all)
}

func TestSubmitOrderMalformedJSON(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodPost, "/api/submit-order", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type brokenRepo struct{ *repository.MemoryRepository }

func (brokenRepo) InsertOrder(context.Context, *models.Order) error {
	return assert.AnError
}

func TestSubmitOrderPersistenceError(t *testing.T) {
	svc := orders.NewService(brokenRepo{repository.NewMemoryRepository()}, nil)
	r := gin.New()
	r.POST("/api/submit-order", SubmitOrderHandler(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", strings.NewReader(validBody))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Order failed"}`, w.Body.String())
}

func TestSubmitOrderClearsSessionCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	store, err := cart.Open(ctx, f.carts, "sess-1")
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, models.CartLineItem{ID: "p1", Title: "Mug", Price: 10, Quantity: 2, StoreID: "A"}))

	w := f.do(http.MethodPost, "/api/submit-order?session_id=sess-1", validBody)
	require.Equal(t, http.StatusOK, w.Code)

	reopened, err := cart.Open(ctx, f.carts, "sess-1")
	require.NoError(t, err)
	assert.Zero(t, reopened.Len())
}

func TestVendorOrdersMissingStoreID(t *testing.T) {
	f := newFixture()
	w := f.do(http.MethodGet, "/api/vendor-orders", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminListsAllOrders(t *testing.T) {
	f := newFixture()
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/submit-order", validBody).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/submit-order", validBody).Code)

	w := f.do(http.MethodGet, "/admin/orders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestOrderWebSocketReceivesOwnStoreOrders(t *testing.T) {
	f := newFixture()
	f.router.GET("/vendor/orders/ws", func(c *gin.Context) {
		c.Set(middleware.StoreIDKey, c.Query("store"))
	}, OrderWebSocketHandler(f.hub))

	srv := httptest.NewServer(f.router)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/vendor/orders/ws"

	connB, _, err := websocket.DefaultDialer.Dial(wsURL+"?store=B", nil)
	require.NoError(t, err)
	defer connB.Close()
	connC, _, err := websocket.DefaultDialer.Dial(wsURL+"?store=C", nil)
	require.NoError(t, err)
	defer connC.Close()

	require.Eventually(t, func() bool { return f.hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	f.hub.Publish(models.Order{
		OrderID:   "AB12CD34",
		CartItems: []models.CartLineItem{{ID: "p2", Title: "Cap", Price: 5, Quantity: 1, StoreID: "B"}},
	})

	connB.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := connB.ReadMessage()
	require.NoError(t, err)
	var event struct {
		Type  string       `json:"type"`
		Order models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "order.created", event.Type)
	assert.Equal(t, "AB12CD34", event.Order.OrderID)

	connC.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = connC.ReadMessage()
	assert.Error(t, err)
}

func TestOrderWebSocketRequiresStore(t *testing.T) {
	r := gin.New()
	r.GET("/ws", OrderWebSocketHandler(NewHub()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHubCloseDisconnects(t *testing.T) {
	hub := NewHub()
	c := &wsClient{id: "x", storeID: "A", send: make(chan []byte, 1)}
	hub.add(c)
	hub.Close()
	assert.Zero(t, hub.ClientCount())
	_, open := <-c.send
	assert.False(t, open)
}

func TestHubPublishOmitsProofImage(t *testing.T) {
	hub := NewHub()
	c := &wsClient{id: "x", storeID: "A", send: make(chan []byte, 1)}
	hub.add(c)

	hub.Publish(models.Order{
		OrderID:       "AB12CD34",
		PaymentMethod: models.PaymentMethodOnline,
		ProofImage:    "data:image/png;base64,iVBORw0KGgo=",
		CartItems:     []models.CartLineItem{{ID: "p1", Title: "Mug", Price: 10, Quantity: 1, StoreID: "A"}},
	})

	data := <-c.send
	assert.NotContains(t, string(data), "proofImage")
	assert.NotContains(t, string(data), "iVBORw0KGgo")
	assert.Contains(t, string(data), "AB12CD34")
}

func TestSubmitOrderBodyTooLarge(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := orders.NewService(repo, nil)
	r := gin.New()
	r.POST("/api/submit-order", middleware.LimitBody(64), SubmitOrderHandler(svc, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", strings.NewReader(validBody))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	all, _ := repo.ListOrders(context.Background())
	assert.Empty(t, all)
}

type unlistableRepo struct{ *repository.MemoryRepository }

func (unlistableRepo) ListOrders(context.Context) ([]models.Order, error) {
	return nil, errors.New("connection refused: mongodb://admin:secret@db:27017")
}

func TestAdminListOrdersHidesStoreError(t *testing.T) {
	r := gin.New()
	r.GET("/admin/orders", GetAllOrdersHandler(unlistableRepo{repository.NewMemoryRepository()}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch orders"}`, w.Body.String())
}
