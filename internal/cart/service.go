package cart

import (
	"context"

	"go.uber.org/zap"
)

// Service is the injectable cart store: it owns the persisted state for
// every owner and exposes the state transitions. Each mutation loads the
// snapshot, applies the change, and writes the full state back.
type Service struct {
	persist Persister
	log     *zap.Logger
}

func NewService(p Persister, log *zap.Logger) *Service {
	return &Service{persist: p, log: log}
}

// Load rehydrates the owner's cart. Absent, corrupt, or structurally
// invalid snapshots degrade to an empty cart: the loss is logged, never
// surfaced.
func (s *Service) Load(ctx context.Context, owner string) Cart {
	raw, ok, err := s.persist.Read(ctx, owner)
	if err != nil {
		s.log.Warn("cart read failed, starting empty", zap.String("owner", owner), zap.Error(err))
		return Cart{Items: []LineItem{}}
	}
	if !ok {
		return Cart{Items: []LineItem{}}
	}

	c, err := decodeSnapshot(raw)
	if err != nil {
		s.log.Warn("corrupt cart snapshot discarded", zap.String("owner", owner), zap.Error(err))
		return Cart{Items: []LineItem{}}
	}
	return c
}

// save persists the full cart state. Persistence is best-effort: a failed
// write keeps the in-memory result of this request and is only logged.
func (s *Service) save(ctx context.Context, owner string, c Cart) {
	data, err := encodeSnapshot(c)
	if err != nil {
		s.log.Warn("cart encode failed", zap.String("owner", owner), zap.Error(err))
		return
	}
	if err := s.persist.Write(ctx, owner, data); err != nil {
		s.log.Warn("cart write failed", zap.String("owner", owner), zap.Error(err))
	}
}

func (s *Service) Add(ctx context.Context, owner string, item LineItem) (Cart, error) {
	c := s.Load(ctx, owner)
	if err := c.Add(item); err != nil {
		return c, err
	}
	s.save(ctx, owner, c)
	return c, nil
}

func (s *Service) SetQuantity(ctx context.Context, owner string, key ItemKey, quantity int) Cart {
	c := s.Load(ctx, owner)
	c.SetQuantity(key, quantity)
	s.save(ctx, owner, c)
	return c
}

func (s *Service) Remove(ctx context.Context, owner string, key ItemKey) Cart {
	c := s.Load(ctx, owner)
	c.Remove(key)
	s.save(ctx, owner, c)
	return c
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	return s.persist.Delete(ctx, owner)
}

// Replace swaps the owner's cart for the given items wholesale, merging
// duplicates of the same product and size on the way in. Used by the
// client-side sync endpoint.
func (s *Service) Replace(ctx context.Context, owner string, items []LineItem) (Cart, error) {
	c := Cart{Items: []LineItem{}}
	for _, it := range items {
		if err := c.Add(it); err != nil {
			return Cart{Items: []LineItem{}}, err
		}
	}
	s.save(ctx, owner, c)
	return c, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.persist.Ping(ctx)
}
