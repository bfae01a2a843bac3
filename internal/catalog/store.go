package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var ErrPersist = errors.New("persist catalog")

type Deps struct {
	Snapshots Snapshotter
	IDs       IDSource
	Log       *zap.Logger
	Metrics   *Metrics
}

// Store owns the in-memory catalog. Every successful mutation writes the
// full snapshot before it is committed in memory; a failed write leaves
// the catalog as it was.
type Store struct {
	mu      sync.Mutex
	items   Catalog
	snap    Snapshotter
	ids     IDSource
	log     *zap.Logger
	metrics *Metrics
}

func NewStore(deps Deps) *Store {
	s := &Store{
		snap:    deps.Snapshots,
		ids:     deps.IDs,
		log:     deps.Log,
		metrics: deps.Metrics,
	}
	if s.ids == nil {
		s.ids = NewClockIDs()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Load replaces the in-memory catalog with the stored snapshot, or with the
// seed when storage is absent, empty or unreadable. It never fails. The seed
// is written back only when storage holds nothing usable; a read error
// leaves stored data alone.
func (s *Store) Load(ctx context.Context) Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.snap.Load(ctx)
	switch {
	case err == nil && len(loaded) > 0:
		s.items = loaded
		s.log.Info("catalog loaded", zap.Int("products", len(loaded)))
	case err != nil && !errors.Is(err, ErrNoSnapshot):
		s.log.Warn("catalog read failed, serving seed without writing it", zap.Error(err))
		s.items = Seed()
	default:
		if err != nil {
			s.log.Info("no catalog snapshot, using seed", zap.Error(err))
		}
		s.items = Seed()
		if err := s.snap.Save(ctx, s.items); err != nil {
			s.log.Warn("seed write failed", zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.Products.Set(float64(len(s.items)))
	}
	return s.items.Clone()
}

func (s *Store) Snapshot() Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Clone()
}

func (s *Store) Get(id int64) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.IndexOf(id)
	if i < 0 {
		return Product{}, false
	}
	return s.items[i], true
}

func (s *Store) Add(ctx context.Context, d Draft) (Catalog, error) {
	name, price, err := d.Normalize()
	if err != nil {
		s.reject("add", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{ID: s.ids.Next(s.items.Has), Name: name, Price: price}
	next := append(s.items.Clone(), p)
	return s.commit(ctx, "add", next)
}

// Update leaves the catalog untouched, without error, when id is unknown.
func (s *Store) Update(ctx context.Context, id int64, d Draft) (Catalog, error) {
	name, price, err := d.Normalize()
	if err != nil {
		s.reject("update", err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.IndexOf(id)
	if i < 0 {
		s.metrics.observe("update", resultNoop, len(s.items))
		return s.items.Clone(), nil
	}

	next := s.items.Clone()
	next[i].Name = name
	next[i].Price = price
	return s.commit(ctx, "update", next)
}

// Remove is a no-op when id is unknown.
func (s *Store) Remove(ctx context.Context, id int64) (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.items.IndexOf(id)
	if i < 0 {
		s.metrics.observe("remove", resultNoop, len(s.items))
		return s.items.Clone(), nil
	}

	next := make(Catalog, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	return s.commit(ctx, "remove", next)
}

func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.snap.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, op string, next Catalog) (Catalog, error) {
	if err := s.snap.Save(ctx, next); err != nil {
		s.metrics.observe(op, resultFailed, len(s.items))
		s.log.Error("catalog persist failed", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.items = next
	s.metrics.observe(op, resultOK, len(next))
	return next.Clone(), nil
}

func (s *Store) reject(op string, err error) {
	s.mu.Lock()
	n := len(s.items)
	s.mu.Unlock()

	s.metrics.observe(op, resultInvalid, n)
	s.log.Debug("catalog draft rejected", zap.String("op", op), zap.Error(err))
}
