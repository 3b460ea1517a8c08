package models

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"    // Cash on delivery
	PaymentMethodOnline PaymentMethod = "online" // Bank transfer, evidenced by a proof image
)

// OrderDateLayout is the ISO-8601 form orders are stamped with (UTC, millisecond precision).
const OrderDateLayout = "2006-01-02T15:04:05.000Z07:00"

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

func ParsePaymentMethod(s string) PaymentMethod {
	return PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
}

// Order is persisted once at submission and never updated.
// Total is stored exactly as the client submitted it.
type Order struct {
	OrderID       string         `json:"orderID" bson:"orderID"`
	Email         string         `json:"email" bson:"email"`
	FirstName     string         `json:"firstName" bson:"firstName"`
	LastName      string         `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Address       string         `json:"address" bson:"address"`
	City          string         `json:"city" bson:"city"`
	Phone         string         `json:"phone" bson:"phone"`
	PaymentMethod PaymentMethod  `json:"paymentMethod" bson:"paymentMethod"`
	UID           string         `json:"uid,omitempty" bson:"uid,omitempty"`
	ProofImage    string         `json:"proofImage,omitempty" bson:"proofImage,omitempty"`
	CartItems     []CartLineItem `json:"cartItems" bson:"cartItems"`
	Total         float64        `json:"total" bson:"total"`
	Date          string         `json:"date" bson:"date"`
}

// PlacedAt parses Date.
func (o Order) PlacedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, o.Date)
}

// HasStore reports whether any line item belongs to storeID.
func (o Order) HasStore(storeID string) bool {
	for _, item := range o.CartItems {
		if item.StoreID == storeID {
			return true
		}
	}
	return false
}

// ItemsForStore returns the line items that belong to storeID, in order.
func (o Order) ItemsForStore(storeID string) []CartLineItem {
	var items []CartLineItem
	for _, item := range o.CartItems {
		if item.StoreID == storeID {
			items = append(items, item)
		}
	}
	return items
}

// StoreIDs returns the distinct store identifiers referenced by the order.
func (o Order) StoreIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range o.CartItems {
		if !seen[item.StoreID] {
			seen[item.StoreID] = true
			ids = append(ids, item.StoreID)
		}
	}
	return ids
}
