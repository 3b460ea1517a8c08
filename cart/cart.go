// Package cart keeps a shopper's ordered list of line items and flushes every
// mutation to a Backend before the call returns.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amadcodez/vendor-ready/models"
)

var (
	ErrIndexOutOfRange = errors.New("cart index out of range")
	ErrInvalidDelta    = errors.New("quantity delta must be +1 or -1")

	errUnchanged = errors.New("cart unchanged")
)

// Listener is called with a snapshot of the items after every successful mutation.
type Listener func(items []models.CartLineItem)

// Store is the cart for one session key. A Store serialises its own callers;
// two Stores opened on the same key are last-write-wins.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	key       string
	items     []models.CartLineItem
	listeners map[int]Listener
	nextID    int
}

// Open reconstructs the cart saved under key.
func Open(ctx context.Context, backend Backend, key string) (*Store, error) {
	if key == "" {
		return nil, errors.New("cart key is required")
	}
	items, err := backend.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart %q: %w", key, err)
	}
	return &Store{
		backend:   backend,
		key:       key,
		items:     items,
		listeners: make(map[int]Listener),
	}, nil
}

func (s *Store) Key() string { return s.key }

// Items returns a copy of the current line items.
func (s *Store) Items() []models.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// Len is the number of line items (not units).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Replace overwrites the whole cart.
func (s *Store) Replace(ctx context.Context, items []models.CartLineItem) error {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return s.apply(ctx, func() ([]models.CartLineItem, error) {
		return clone(items), nil
	})
}

// AddItem appends item even when a line with the same id already exists.
func (s *Store) AddItem(ctx context.Context, item models.CartLineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return s.apply(ctx, func() ([]models.CartLineItem, error) {
		return append(clone(s.items), item), nil
	})
}

// AddItemIfAbsent appends item only if no line has the same id. It reports
// whether the item was added.
func (s *Store) AddItemIfAbsent(ctx context.Context, item models.CartLineItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}
	err := s.apply(ctx, func() ([]models.CartLineItem, error) {
		for _, existing := range s.items {
			if existing.ID == item.ID {
				return nil, errUnchanged
			}
		}
		return append(clone(s.items), item), nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateQuantity moves the quantity at index by delta. Decrementing a line at
// quantity 1 leaves it at 1.
func (s *Store) UpdateQuantity(ctx context.Context, index, delta int) error {
	if delta != 1 && delta != -1 {
		return ErrInvalidDelta
	}
	return s.apply(ctx, func() ([]models.CartLineItem, error) {
		if index < 0 || index >= len(s.items) {
			return nil, ErrIndexOutOfRange
		}
		next := clone(s.items)
		q := next[index].Quantity + delta
		if q < 1 {
			q = 1
		}
		next[index].Quantity = q
		return next, nil
	})
}

// RemoveItem deletes the line at index; the remaining lines keep their order.
func (s *Store) RemoveItem(ctx context.Context, index int) error {
	return s.apply(ctx, func() ([]models.CartLineItem, error) {
		if index < 0 || index >= len(s.items) {
			return nil, ErrIndexOutOfRange
		}
		next := make([]models.CartLineItem, 0, len(s.items)-1)
		next = append(next, s.items[:index]...)
		return append(next, s.items[index+1:]...), nil
	})
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.apply(ctx, func() ([]models.CartLineItem, error) {
		return []models.CartLineItem{}, nil
	})
}

// Subtotal is Σ price × quantity; 0 for an empty cart.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.items)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// commit writes next through to the backend and only then makes it current.
// Must be called with s.mu held. The returned func notifies listeners and must
// be called after s.mu is released, so listeners may read the store.
func (s *Store) commit(ctx context.Context, next []models.CartLineItem) (func(), error) {
	if err := s.backend.Save(ctx, s.key, next); err != nil {
		return nil, fmt.Errorf("save cart %q: %w", s.key, err)
	}
	s.items = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	snapshot := clone(next)
	return func() {
		for _, fn := range listeners {
			fn(clone(snapshot))
		}
	}, nil
}

// apply runs commit under the lock and notifies listeners once it is released.
func (s *Store) apply(ctx context.Context, mutate func() ([]models.CartLineItem, error)) error {
	s.mu.Lock()
	next, err := mutate()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	notify, err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	notify()
	return nil
}

// Subtotal sums price × quantity over items.
func Subtotal(items []models.CartLineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

func clone(items []models.CartLineItem) []models.CartLineItem {
	out := make([]models.CartLineItem, len(items))
	copy(out, items)
	return out
}
