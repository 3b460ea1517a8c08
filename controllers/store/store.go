package storeControllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/amadcodez/vendor-ready/auth"
	"github.com/amadcodez/vendor-ready/models"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateStoreRequest accepts numCategories as a number or a numeric string,
// the way the storefront form posts it.
type CreateStoreRequest struct {
	UserID        string      `json:"userID" binding:"required"`
	StoreName     string      `json:"storeName" binding:"required"`
	ItemType      string      `json:"itemType"`
	NumCategories json.Number `json:"numCategories"`
	Location      string      `json:"location"`
}

func parseCategories(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil || f < 0 || math.IsInf(f, 0) {
		return 0, errors.New("numCategories must be a non-negative number")
	}
	return int(f), nil
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// POST /api/create-store
func CreateStore(repo repository.StoreRepository, tokens TokenConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateStoreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input: " + err.Error()})
			return
		}
		numCategories, err := parseCategories(req.NumCategories)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		store := models.Store{
			StoreID:       "store-" + uuid.NewString(),
			UserID:        req.UserID,
			StoreName:     req.StoreName,
			ItemType:      req.ItemType,
			NumCategories: numCategories,
			Location:      req.Location,
			CreatedAt:     time.Now().UTC(),
		}
		if err := repo.CreateStore(c.Request.Context(), &store); err != nil {
			slog.Error("Error creating store", "user_id", req.UserID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create store"})
			return
		}
		slog.Info("Store created", "store_id", store.StoreID, "user_id", store.UserID)

		resp := gin.H{
			"success": true,
			"message": "Store created successfully!",
			"storeID": store.StoreID,
		}
		token, expiresAt, err := auth.IssueVendorToken(tokens.Secret, store.UserID, store.StoreID, tokens.TTL)
		switch {
		case err == nil:
			resp["token"] = token
			resp["expires_at"] = expiresAt
		case errors.Is(err, auth.ErrNoSecret):
		default:
			slog.Error("Token generation failed", "store_id", store.StoreID, "error", err)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GET /api/get-store?storeID=
func GetStore(repo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeID := c.Query("storeID")
		if storeID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing storeID"})
			return
		}
		store, err := repo.FindStore(c.Request.Context(), storeID)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Store not found"})
			return
		}
		if err != nil {
			slog.Error("GET store error", "store_id", storeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"store": store})
	}
}

// GET /api/check-existing-store?userID=
func CheckExistingStore(repo repository.StoreRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Query("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing userID"})
			return
		}
		store, err := repo.FindStoreByUser(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "exists": false, "storeID": nil})
			return
		}
		if err != nil {
			slog.Error("Error checking userID", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to check store"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "exists": true, "storeID": store.StoreID})
	}
}
