package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/clayshop/storefront/internal/core/domain"
	"github.com/clayshop/storefront/internal/port"
)

const cartKeyPrefix = "cart:"

// CartService owns the per-session cart ledgers. A session's ledger is
// loaded from its durable slot on first touch and written back in full
// after every mutation. Concurrent contexts sharing a session are
// last-writer-wins; there is no merge.
type CartService struct {
	store  port.KeyValueStore
	logger *zap.Logger

	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewCartService(store port.KeyValueStore, logger *zap.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: logger,
		carts:  make(map[string]*domain.Cart),
	}
}

// Lines returns the session's current ledger in insertion order.
func (s *CartService) Lines(ctx context.Context, sessionID string) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(ctx, sessionID).Lines()
}

// Count is the sum of line quantities in the session's ledger.
func (s *CartService) Count(ctx context.Context, sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(ctx, sessionID).Count()
}

// Subtotal is the display subtotal over the ledger's snapshot prices.
func (s *CartService) Subtotal(ctx context.Context, sessionID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(ctx, sessionID).Subtotal()
}

// Add puts one unit of the product in the cart, merging into an existing
// line for the same product.
func (s *CartService) Add(ctx context.Context, sessionID string, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(ctx, sessionID)
	c.Add(p)
	s.persist(ctx, sessionID, c)
}

// Remove drops the product's line from the cart.
func (s *CartService) Remove(ctx context.Context, sessionID string, productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(ctx, sessionID)
	c.Remove(productID)
	s.persist(ctx, sessionID, c)
}

// SetQuantity replaces the line's quantity. Quantities below 1 leave the
// ledger untouched.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, productID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(ctx, sessionID)
	c.SetQuantity(productID, quantity)
	s.persist(ctx, sessionID, c)
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cart(ctx, sessionID)
	c.Clear()
	s.persist(ctx, sessionID, c)
}

// cart returns the session's in-memory ledger, loading it from the durable
// slot on first access. A missing slot yields an empty ledger; an
// unparsable one is discarded with a warning. Callers hold s.mu.
func (s *CartService) cart(ctx context.Context, sessionID string) *domain.Cart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}

	c := domain.NewCart()
	data, err := s.store.Get(ctx, cartKeyPrefix+sessionID)
	if err != nil {
		// Leave the cart unloaded: persistence stays disabled, so a ledger
		// that never saw the stored state cannot clobber it.
		s.logger.Warn("load cart state", zap.String("session", sessionID), zap.Error(err))
		s.carts[sessionID] = c
		return c
	}
	if err := c.Load(data); err != nil {
		s.logger.Warn("discarding unparsable cart state",
			zap.String("session", sessionID), zap.Error(err))
	}

	s.carts[sessionID] = c
	return c
}

// persist writes the ledger back to its slot. Carts that never completed
// their initial load refuse to snapshot, which keeps a racing empty ledger
// from clobbering stored state. Write failures are logged, never surfaced;
// the in-memory ledger stays authoritative for the session.
func (s *CartService) persist(ctx context.Context, sessionID string, c *domain.Cart) {
	data, ok := c.Snapshot()
	if !ok {
		return
	}
	if err := s.store.Set(ctx, cartKeyPrefix+sessionID, data); err != nil {
		s.logger.Error("persist cart state", zap.String("session", sessionID), zap.Error(err))
	}
}
