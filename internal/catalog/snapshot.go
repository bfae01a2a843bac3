package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"CatalogEditor/internal/kv"
)

const DefaultKey = "products"

// ErrNoSnapshot means storage holds nothing usable: the key is absent or
// its value does not decode.
var ErrNoSnapshot = errors.New("no catalog snapshot")

type Snapshotter interface {
	Save(ctx context.Context, c Catalog) error
	Load(ctx context.Context) (Catalog, error)
}

// KVSnapshotter stores the catalog as one JSON array under a fixed key.
type KVSnapshotter struct {
	KV  kv.Store
	Key string
}

func NewKVSnapshotter(store kv.Store, key string) *KVSnapshotter {
	if key == "" {
		key = DefaultKey
	}
	return &KVSnapshotter{KV: store, Key: key}
}

func (s *KVSnapshotter) Save(ctx context.Context, c Catalog) error {
	if c == nil {
		c = Catalog{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.KV.Set(ctx, s.Key, b); err != nil {
		return fmt.Errorf("write %s: %w", s.Key, err)
	}
	return nil
}

func (s *KVSnapshotter) Load(ctx context.Context) (Catalog, error) {
	b, err := s.KV.Get(ctx, s.Key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Key, err)
	}

	var c Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrNoSnapshot, s.Key, err)
	}
	return c, nil
}

func (s *KVSnapshotter) Ping(ctx context.Context) error {
	return s.KV.Ping(ctx)
}
