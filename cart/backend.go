package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/amadcodez/vendor-ready/models"
	"github.com/redis/go-redis/v9"
)

// Backend is the durable storage a Store flushes to. Load on an unknown key
// returns an empty cart.
type Backend interface {
	Load(ctx context.Context, key string) ([]models.CartLineItem, error)
	Save(ctx context.Context, key string, items []models.CartLineItem) error
}

// MemoryBackend keeps carts in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{carts: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, key string) ([]models.CartLineItem, error) {
	b.mu.RLock()
	raw, ok := b.carts[key]
	b.mu.RUnlock()
	if !ok {
		return []models.CartLineItem{}, nil
	}
	return decode(raw)
}

func (b *MemoryBackend) Save(_ context.Context, key string, items []models.CartLineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.carts[key] = raw
	b.mu.Unlock()
	return nil
}

// FileBackend stores each cart as a JSON document in a directory, the
// server-side counterpart of browser local storage.
type FileBackend struct {
	dir string
}

var unsafeKeyChars = regexp.MustCompile(`[^\w\-\.]`)

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cart directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (b *FileBackend) Load(_ context.Context, key string) ([]models.CartLineItem, error) {
	raw, err := os.ReadFile(b.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return []models.CartLineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

// Save writes to a temp file and renames it so a reader never sees half a cart.
func (b *FileBackend) Save(_ context.Context, key string, items []models.CartLineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(b.dir, "cart-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), b.path(key))
}

// RedisBackend stores each cart as a JSON string under "cart:<key>".
type RedisBackend struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisBackend uses ttl as the idle expiry of a cart; zero keeps carts forever.
func NewRedisBackend(client redis.UniversalClient, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

func redisKey(key string) string { return "cart:" + key }

func (b *RedisBackend) Load(ctx context.Context, key string) ([]models.CartLineItem, error) {
	raw, err := b.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartLineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (b *RedisBackend) Save(ctx context.Context, key string, items []models.CartLineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return b.client.Set(ctx, redisKey(key), raw, b.ttl).Err()
}

func decode(raw []byte) ([]models.CartLineItem, error) {
	items := []models.CartLineItem{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if items == nil {
		items = []models.CartLineItem{}
	}
	return items, nil
}
