package analyticsControllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var now = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.CreateStore(ctx, &models.Store{StoreID: "A", StoreName: "Covo Crafts"}))

	orders := []models.Order{
		{OrderID: "OLD00001", Date: "2025-05-01T10:00:00.000Z", CartItems: []models.CartLineItem{
			{ID: "p1", Title: "Mug", Price: 50, Quantity: 1, StoreID: "A"},
		}},
		{OrderID: "NEW00001", Date: "2025-06-28T10:00:00.000Z", CartItems: []models.CartLineItem{
			{ID: "p1", Title: "Mug", Price: 100, Quantity: 2, StoreID: "A"},
			{ID: "p9", Title: "Lamp", Price: 999, Quantity: 1, StoreID: "B"},
		}},
	}
	for i := range orders {
		require.NoError(t, repo.InsertOrder(ctx, &orders[i]))
	}
	return repo
}

func router(repo repository.Repository, storeID string) *gin.Engine {
	r := gin.New()
	vendor := r.Group("/vendor", func(c *gin.Context) { c.Set(middleware.StoreIDKey, storeID) })
	clock := func() time.Time { return now }
	vendor.GET("/analytics", GetVendorAnalytics(repo, clock))
	vendor.GET("/analytics/export", ExportVendorAnalytics(repo, clock))
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

type analyticsBody struct {
	Summary struct {
		StoreName   string  `json:"storeName"`
		TotalOrders int     `json:"totalOrders"`
		Revenue     float64 `json:"revenue"`
		ItemsSold   int     `json:"itemsSold"`
		BestSeller  string  `json:"bestSeller"`
	} `json:"summary"`
	Chart struct {
		Labels  []string  `json:"labels"`
		Revenue []float64 `json:"revenue"`
	} `json:"chart"`
}

func TestVendorAnalyticsWindows(t *testing.T) {
	r := router(seed(t), "A")

	tests := []struct {
		window  string
		orders  int
		revenue float64
		items   int
	}{
		{"7days", 1, 200, 2},
		{"30days", 1, 200, 2},
		{"all", 2, 250, 3},
		{"", 2, 250, 3},
	}
	for _, tt := range tests {
		t.Run("window="+tt.window, func(t *testing.T) {
			w := get(r, "/vendor/analytics?window="+tt.window)
			require.Equal(t, http.StatusOK, w.Code)
			var body analyticsBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Covo Crafts", body.Summary.StoreName)
			assert.Equal(t, tt.orders, body.Summary.TotalOrders)
			assert.Equal(t, tt.revenue, body.Summary.Revenue)
			assert.Equal(t, tt.items, body.Summary.ItemsSold)
			assert.Equal(t, "Mug", body.Summary.BestSeller)
			// the chart series always spans full history
			assert.Equal(t, []string{"2025-05-01", "2025-06-28"}, body.Chart.Labels)
			assert.Equal(t, []float64{50, 200}, body.Chart.Revenue)
		})
	}
}

func TestVendorAnalyticsBadWindow(t *testing.T) {
	r := router(seed(t), "A")
	assert.Equal(t, http.StatusBadRequest, get(r, "/vendor/analytics?window=90days").Code)
}

func TestVendorAnalyticsUnknownStore(t *testing.T) {
	r := router(seed(t), "Z")
	w := get(r, "/vendor/analytics")
	require.Equal(t, http.StatusOK, w.Code)
	var body analyticsBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Zero(t, body.Summary.TotalOrders)
	assert.Empty(t, body.Summary.BestSeller)
	assert.Empty(t, body.Summary.StoreName)
}

func TestExportVendorAnalytics(t *testing.T) {
	r := router(seed(t), "A")
	w := get(r, "/vendor/analytics/export?window=all")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=A-all.xlsx", w.Header().Get("Content-Disposition"))

	body := w.Body.Bytes()
	file, err := xlsx.OpenReaderAt(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Contains(t, file.Sheet, "Best Selling Items")
	rows := file.Sheet["Best Selling Items"].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Mug", rows[1].Cells[0].Value)
	assert.Equal(t, "3", rows[1].Cells[1].Value)
}
