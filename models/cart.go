package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLineItem = errors.New("invalid cart line item")

// CartLineItem is one product entry in a cart or an order, with a price snapshot
// taken when the shopper added it.
type CartLineItem struct {
	ID       string  `json:"id" bson:"id" binding:"required"`
	Title    string  `json:"title" bson:"title" binding:"required"`
	Price    float64 `json:"price" bson:"price"`
	Image    string  `json:"image" bson:"image"`
	Quantity int     `json:"quantity" bson:"quantity"`
	StoreID  string  `json:"storeID" bson:"storeID" binding:"required"`
}

// NewCartLineItem builds a line item and rejects states the cart never holds.
func NewCartLineItem(id, title string, price float64, image string, quantity int, storeID string) (CartLineItem, error) {
	item := CartLineItem{
		ID:       id,
		Title:    title,
		Price:    price,
		Image:    image,
		Quantity: quantity,
		StoreID:  storeID,
	}
	if err := item.Validate(); err != nil {
		return CartLineItem{}, err
	}
	return item, nil
}

func (i CartLineItem) Validate() error {
	switch {
	case strings.TrimSpace(i.ID) == "":
		return fmt.Errorf("%w: id is required", ErrInvalidLineItem)
	case strings.TrimSpace(i.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidLineItem)
	case strings.TrimSpace(i.StoreID) == "":
		return fmt.Errorf("%w: storeID is required", ErrInvalidLineItem)
	case i.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidLineItem)
	case i.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidLineItem)
	}
	return nil
}

// LineTotal is price × quantity.
func (i CartLineItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
