package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"trendwear/storefront/internal/api"
	"trendwear/storefront/internal/domain"
	"trendwear/storefront/internal/domain/task"
	"trendwear/storefront/internal/queue"
	"trendwear/storefront/internal/state"

	log "github.com/sirupsen/logrus"
)

// ErrSizeRequired is returned when an item is added to the cart without a
// size; callers must enforce size selection first.
var ErrSizeRequired = errors.New("size must be selected before adding to cart")

// Session is the single source of truth for the catalog, the cart and the
// auth token. Cart mutations succeed locally and synchronously; persistence
// and backend sync happen as separate, independently retryable steps.
type Session struct {
	mu     sync.RWMutex
	client api.Client
	store  state.SessionStore
	queue  queue.Queue

	products []domain.Product
	index    map[string]domain.Product
	cart     domain.Cart
	token    string
}

// New creates a session. Both store and queue may be nil, in which case the
// session is purely in-memory.
func New(client api.Client, store state.SessionStore, q queue.Queue) *Session {
	return &Session{
		client: client,
		store:  store,
		queue:  q,
		index:  make(map[string]domain.Product),
		cart:   domain.NewCart(),
	}
}

// Restore re-reads the persisted token and cart snapshot, then reconciles
// with the backend cart when a token is present. The backend copy wins; if
// it cannot be fetched the local snapshot stands until the next sync.
// Called once at startup; absence of either is not an error.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	token, err := s.store.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore session token: %w", err)
	}

	cart, err := s.store.LoadCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}

	if token != "" {
		backend, err := s.client.FetchCart(ctx, token)
		if err != nil {
			log.Warnf("⚠️ Could not fetch backend cart, keeping local snapshot: %v", err)
		} else if backend != nil {
			cart = backend
		}
	}

	s.mu.Lock()
	s.token = token
	s.cart = cart
	s.mu.Unlock()

	if token != "" {
		s.persistCart(ctx, cart.Clone())
		log.Info("🔑 Restored saved session token")
	}
	return nil
}

// LoadCatalog fetches the full product list and replaces the prior catalog
// wholesale. On failure the prior catalog is left untouched.
func (s *Session) LoadCatalog(ctx context.Context) error {
	products, err := s.client.Products(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	index := make(map[string]domain.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}

	s.mu.Lock()
	s.products = products
	s.index = index
	s.mu.Unlock()

	log.Infof("✅ Catalog loaded with %d products", len(products))
	return nil
}

// Products returns the current catalog snapshot.
func (s *Session) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.Product, len(s.products))
	copy(snapshot, s.products)
	return snapshot
}

// Product looks up a single catalog entry by ID.
func (s *Session) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.index[id]
	return p, ok
}

// AddToCart increments the quantity for the (id, size) pair. The size must
// be non-empty.
func (s *Session) AddToCart(ctx context.Context, id, size string) error {
	if size == "" {
		return ErrSizeRequired
	}

	s.mu.Lock()
	s.cart.Add(id, size)
	snapshot := s.cart.Clone()
	token := s.token
	s.mu.Unlock()

	s.persistCart(ctx, snapshot)
	s.enqueueSync(ctx, token, &task.CartSyncTask{ItemID: id, Size: size})
	return nil
}

// UpdateQuantity sets the quantity for the (id, size) pair directly; zero or
// less removes the line.
func (s *Session) UpdateQuantity(ctx context.Context, id, size string, quantity int) {
	s.mu.Lock()
	s.cart.SetQuantity(id, size, quantity)
	snapshot := s.cart.Clone()
	token := s.token
	s.mu.Unlock()

	s.persistCart(ctx, snapshot)
	s.enqueueSync(ctx, token, &task.CartSyncTask{ItemID: id, Size: size})
}

// Quantity returns the current quantity for the (id, size) pair, zero when
// the line is absent. Sync workers read it at apply time.
func (s *Session) Quantity(id, size string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Quantity(id, size)
}

// Cart returns a deep copy of the current cart.
func (s *Session) Cart() domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// CartCount sums all quantities across every product and size.
func (s *Session) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

// CartAmount resolves each line against the current catalog snapshot. A
// product no longer in the catalog contributes zero.
func (s *Session) CartAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for id, sizes := range s.cart {
		product, ok := s.index[id]
		if !ok {
			continue
		}
		for _, qty := range sizes {
			total += product.Price * float64(qty)
		}
	}
	return total
}

// ClearCart empties the cart, locally and in the persisted snapshot.
func (s *Session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.cart = domain.NewCart()
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearCart(ctx); err != nil {
			log.Errorf("❌ Failed to clear persisted cart: %v", err)
		}
	}
}

// Token returns the current auth token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// SetToken stores the credential returned by login or registration and
// persists it for the next start.
func (s *Session) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SetToken(ctx, token); err != nil {
			return fmt.Errorf("failed to persist token: %w", err)
		}
	}
	return nil
}

// Login authenticates against the backend and stores the returned token.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.SetToken(ctx, token)
}

// Register creates an account and stores the returned token.
func (s *Session) Register(ctx context.Context, name, email, password string) error {
	token, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return s.SetToken(ctx, token)
}

// Logout clears the token and the cart together. It is the only operation
// that mutates both at once.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.cart = domain.NewCart()
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearToken(ctx); err != nil {
			log.Errorf("❌ Failed to clear persisted token: %v", err)
		}
		if err := s.store.ClearCart(ctx); err != nil {
			log.Errorf("❌ Failed to clear persisted cart: %v", err)
		}
	}

	log.Info("👋 Logged out, session cleared")
}

// persistCart writes the cart snapshot; failures are logged and never undo
// the local mutation.
func (s *Session) persistCart(ctx context.Context, snapshot domain.Cart) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveCart(ctx, snapshot); err != nil {
		log.Errorf("❌ Failed to persist cart snapshot: %v", err)
	}
}

// enqueueSync hands a cart mutation to the sync queue. Only authenticated
// sessions sync; enqueue failures are logged, never surfaced.
func (s *Session) enqueueSync(ctx context.Context, token string, t task.Task) {
	if s.queue == nil || token == "" {
		return
	}
	if _, err := s.queue.AddTask(ctx, t); err != nil {
		log.Errorf("❌ Failed to enqueue cart sync task: %v", err)
	}
}
