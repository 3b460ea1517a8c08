// Package repository persists orders, vendor stores and the item catalog. The
// orders collection is shared by every vendor; vendors read it filtered by
// their store ID.
package repository

import (
	"context"
	"errors"

	"github.com/amadcodez/vendor-ready/models"
)

var ErrNotFound = errors.New("record not found")

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	// FindOrdersByStore returns every order with at least one line item of storeID,
	// oldest first.
	FindOrdersByStore(ctx context.Context, storeID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
}

type StoreRepository interface {
	CreateStore(ctx context.Context, store *models.Store) error
	FindStore(ctx context.Context, storeID string) (*models.Store, error)
	FindStoreByUser(ctx context.Context, userID string) (*models.Store, error)
	ListStores(ctx context.Context) ([]models.Store, error)
}

// ItemQuery filters the catalog. Empty fields match everything.
type ItemQuery struct {
	StoreID  string
	Category string
	Sort     models.ItemSort
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	FindItem(ctx context.Context, id string) (*models.Item, error)
	// FindItems returns matching items oldest first, or by price when q.Sort is set.
	FindItems(ctx context.Context, q ItemQuery) ([]models.Item, error)
	// UpdateItem replaces the item with item.ID, but only when it belongs to
	// item.StoreID; otherwise it returns ErrNotFound.
	UpdateItem(ctx context.Context, item *models.Item) error
	// DeleteItems removes the listed items owned by storeID and returns how
	// many were removed.
	DeleteItems(ctx context.Context, storeID string, ids []string) (int64, error)
	CreateItemCategory(ctx context.Context, category *models.ItemCategory) error
}

type Repository interface {
	OrderRepository
	StoreRepository
	ItemRepository
	Close(ctx context.Context) error
}
