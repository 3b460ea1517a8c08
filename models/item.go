package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrInvalidItem = errors.New("invalid item")

// ItemSort is the shop listing order. The zero value keeps creation order.
type ItemSort string

const (
	ItemSortNone      ItemSort = ""
	ItemSortPriceAsc  ItemSort = "price-asc"
	ItemSortPriceDesc ItemSort = "price-desc"
)

// ParseItemSort maps unknown values to ItemSortNone.
func ParseItemSort(s string) ItemSort {
	switch ItemSort(s) {
	case ItemSortPriceAsc, ItemSortPriceDesc:
		return ItemSort(s)
	}
	return ItemSortNone
}

// Item is a product a vendor lists in the shop. Images are data URIs.
type Item struct {
	ID              string    `json:"_id" bson:"_id"`
	StoreID         string    `json:"storeID" bson:"storeID"`
	ItemName        string    `json:"itemName" bson:"itemName"`
	ItemDescription string    `json:"itemDescription" bson:"itemDescription"`
	ItemPrice       float64   `json:"itemPrice" bson:"itemPrice"`
	CompareAtPrice  float64   `json:"compareAtPrice" bson:"compareAtPrice"`
	CostPerItem     float64   `json:"costPerItem" bson:"costPerItem"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	Category        string    `json:"category" bson:"category"`
	ItemImages      []string  `json:"itemImages" bson:"itemImages"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

func invalidItem(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidItem, msg)
}

func (i Item) Validate() error {
	switch {
	case strings.TrimSpace(i.StoreID) == "":
		return invalidItem("storeID is required")
	case strings.TrimSpace(i.ItemName) == "":
		return invalidItem("itemName is required")
	case strings.TrimSpace(i.ItemDescription) == "":
		return invalidItem("itemDescription is required")
	case strings.TrimSpace(i.Category) == "":
		return invalidItem("category is required")
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"itemPrice", i.ItemPrice},
		{"compareAtPrice", i.CompareAtPrice},
		{"costPerItem", i.CostPerItem},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalidItem(f.name + " must be a non-negative number")
		}
	}
	if i.Quantity < 0 {
		return invalidItem("quantity must not be negative")
	}
	return ValidateItemImages(i.ItemImages)
}

// ValidateItemImages requires at least one image, each an image data URI.
func ValidateItemImages(images []string) error {
	if len(images) == 0 {
		return invalidItem("at least one image is required")
	}
	for _, img := range images {
		if !strings.HasPrefix(img, "data:image") {
			return invalidItem("invalid image format in one of the files")
		}
	}
	return nil
}

// ItemCategory records a product type a vendor sells.
type ItemCategory struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userID" bson:"userID"`
	StoreID   string    `json:"storeID" bson:"storeID"`
	ItemType  string    `json:"itemType" bson:"itemType"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
