package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/amadcodez/vendor-ready/models"
)

// MemoryRepository keeps everything in process memory. Data is lost on restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	orders     []models.Order
	stores     []models.Store
	items      []models.Item
	categories []models.ItemCategory
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) InsertOrder(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, copyOrder(*order))
	return nil
}

func (r *MemoryRepository) FindOrdersByStore(_ context.Context, storeID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Order{}
	for _, o := range r.orders {
		if o.HasStore(storeID) {
			out = append(out, copyOrder(o))
		}
	}
	sortByDate(out)
	return out, nil
}

func (r *MemoryRepository) ListOrders(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, copyOrder(o))
	}
	sortByDate(out)
	return out, nil
}

func (r *MemoryRepository) CreateStore(_ context.Context, store *models.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = append(r.stores, *store)
	return nil
}

func (r *MemoryRepository) FindStore(_ context.Context, storeID string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stores {
		if s.StoreID == storeID {
			s := s
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindStoreByUser(_ context.Context, userID string) (*models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stores {
		if s.UserID == userID {
			s := s
			return &s, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) ListStores(_ context.Context) ([]models.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]models.Store{}, r.stores...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) CreateItem(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, copyItem(*item))
	return nil
}

func (r *MemoryRepository) FindItem(_ context.Context, id string) (*models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID == id {
			item = copyItem(item)
			return &item, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindItems(_ context.Context, q ItemQuery) ([]models.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Item{}
	for _, item := range r.items {
		if q.StoreID != "" && item.StoreID != q.StoreID {
			continue
		}
		if q.Category != "" && item.Category != q.Category {
			continue
		}
		out = append(out, copyItem(item))
	}
	sortItems(out, q.Sort)
	return out, nil
}

func (r *MemoryRepository) UpdateItem(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.items {
		if existing.ID == item.ID && existing.StoreID == item.StoreID {
			r.items[i] = copyItem(*item)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) DeleteItems(_ context.Context, storeID string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := r.items[:0]
	var n int64
	for _, item := range r.items {
		if item.StoreID == storeID && drop[item.ID] {
			n++
			continue
		}
		kept = append(kept, item)
	}
	r.items = kept
	return n, nil
}

func (r *MemoryRepository) CreateItemCategory(_ context.Context, category *models.ItemCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories = append(r.categories, *category)
	return nil
}

func (r *MemoryRepository) Close(context.Context) error { return nil }

func copyItem(i models.Item) models.Item {
	i.ItemImages = append([]string(nil), i.ItemImages...)
	return i
}

func sortItems(items []models.Item, by models.ItemSort) {
	sort.SliceStable(items, func(i, j int) bool {
		switch by {
		case models.ItemSortPriceAsc:
			return items[i].ItemPrice < items[j].ItemPrice
		case models.ItemSortPriceDesc:
			return items[i].ItemPrice > items[j].ItemPrice
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

func copyOrder(o models.Order) models.Order {
	o.CartItems = append([]models.CartLineItem(nil), o.CartItems...)
	return o
}

// sortByDate orders by the ISO-8601 date string, which sorts chronologically
// for the UTC timestamps the service writes.
func sortByDate(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Date < orders[j].Date
	})
}
