package analyticsControllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amadcodez/vendor-ready/analytics"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
)

// Clock is swapped in tests.
type Clock func() time.Time

// summarize builds the calling vendor's summary, or writes the error response.
func summarize(c *gin.Context, repo repository.Repository, now Clock) (analytics.Summary, bool) {
	storeID := c.GetString(middleware.StoreIDKey)
	window, err := analytics.ParseWindow(c.Query("window"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return analytics.Summary{}, false
	}

	orders, err := repo.FindOrdersByStore(c.Request.Context(), storeID)
	if err != nil {
		slog.Error("Fetch vendor orders failed", "store_id", storeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return analytics.Summary{}, false
	}

	summary := analytics.Aggregate(orders, storeID, window, now())

	// The name is only a label; a missing store record does not block analytics.
	store, err := repo.FindStore(c.Request.Context(), storeID)
	switch {
	case err == nil:
		summary.StoreName = store.StoreName
	case !errors.Is(err, repository.ErrNotFound):
		slog.Warn("Store lookup failed", "store_id", storeID, "error", err)
	}
	return summary, true
}

// GET /vendor/analytics?window=
func GetVendorAnalytics(repo repository.Repository, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, ok := summarize(c, repo, now)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"summary": summary,
			"chart":   summary.Chart(),
		})
	}
}

// GET /vendor/analytics/export?window=
func ExportVendorAnalytics(repo repository.Repository, now Clock) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, ok := summarize(c, repo, now)
		if !ok {
			return
		}
		file, err := analytics.Workbook(summary)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		filename := fmt.Sprintf("%s-%s.xlsx", summary.StoreID, summary.Window)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			slog.Error("Failed to write Excel file", "store_id", summary.StoreID, "error", err)
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}
