// Package session ties one agent's cart store, price cache, and draft
// persistence together. Everything scoped to an agent hangs off the
// session object; there is no ambient per-agent state anywhere else.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/pricing"
	"orderpad/internal/service/draft"
)

const persistTimeout = 5 * time.Second

// Session is the live order-pad state for one agent.
type Session struct {
	AgentID string

	store  *cart.Store
	cache  *pricing.Cache
	drafts *draft.Service
	logger *log.Logger

	mu            sync.Mutex
	lineSignature string
	forcePrefetch bool

	// spawn runs side-effect work; asynchronous in production, replaced
	// with a synchronous runner in tests
	spawn func(fn func())
}

// New builds a session, hydrates it from the agent's stored draft, and
// wires the side-effect observers: cache invalidation on customer change,
// write-through persistence and price prefetch after every dispatch.
func New(ctx context.Context, agentID string, resolver pricing.Resolver, drafts *draft.Service, logger *log.Logger) *Session {
	s := &Session{
		AgentID: strings.TrimSpace(agentID),
		cache:   pricing.NewCache(resolver, logger),
		drafts:  drafts,
		logger:  logger,
		spawn:   func(fn func()) { go fn() },
	}
	s.store = cart.NewStore(s.cache)

	// hydrate before wiring observers so the initial load neither re-saves
	// nor prefetches
	if drafts != nil {
		if c := drafts.Load(ctx, s.AgentID); c != nil {
			s.store.Dispatch(cart.Hydrate{Cart: *c})
		}
	}
	current := s.store.Cart()
	if current.Customer != nil {
		s.cache.SetCustomer(current.Customer.CustomerNumber, current.Customer.PriceListCode)
	}
	s.lineSignature = signature(s.store.LineKeys())

	s.store.OnCustomerChange(func(ch cart.CustomerChange) {
		// synchronous: the cache must be invalid before any observer of the
		// same dispatch can trigger a prefetch under the new customer
		s.cache.SetCustomer(ch.Current, ch.PriceListCode)
		s.mu.Lock()
		s.forcePrefetch = true
		s.mu.Unlock()
	})
	s.store.OnChange(s.afterDispatch)

	return s
}

// Store exposes the cart store for derived queries.
func (s *Session) Store() *cart.Store { return s.store }

// Cache exposes the price cache for resolved-price reads.
func (s *Session) Cache() *pricing.Cache { return s.cache }

// Cart returns a copy of the current cart state.
func (s *Session) Cart() domain.Cart { return s.store.Cart() }

// Dispatch applies an action; persistence and prefetch run as observers.
func (s *Session) Dispatch(action cart.Action) domain.Cart {
	return s.store.Dispatch(action)
}

// Prefetch resolves prices for arbitrary item codes, e.g. the catalog rows
// currently on the agent's screen.
func (s *Session) Prefetch(ctx context.Context, codes []string, force bool) {
	s.cache.Prefetch(ctx, codes, force)
}

// PrefetchLines resolves prices for everything in the cart.
func (s *Session) PrefetchLines(ctx context.Context, force bool) {
	s.cache.Prefetch(ctx, s.store.LineKeys(), force)
}

// SaveSnapshot stores an immutable copy of the current cart.
func (s *Session) SaveSnapshot(ctx context.Context, label string) (draft.SnapshotInfo, error) {
	return s.drafts.SaveSnapshot(ctx, s.AgentID, label, s.store.Cart())
}

// ListSnapshots lists this agent's saved drafts.
func (s *Session) ListSnapshots(ctx context.Context) ([]draft.SnapshotInfo, error) {
	return s.drafts.ListSnapshots(ctx, s.AgentID)
}

// RestoreSnapshot replaces the live cart with a saved draft.
func (s *Session) RestoreSnapshot(ctx context.Context, id string) (domain.Cart, error) {
	c, err := s.drafts.LoadSnapshot(ctx, s.AgentID, id)
	if err != nil {
		return domain.Cart{}, err
	}
	return s.store.Dispatch(cart.Hydrate{Cart: c}), nil
}

// DeleteSnapshot removes a saved draft.
func (s *Session) DeleteSnapshot(ctx context.Context, id string) error {
	return s.drafts.DeleteSnapshot(ctx, s.AgentID, id)
}

func (s *Session) afterDispatch(c domain.Cart) {
	if s.drafts != nil {
		agentID, snapshot := s.AgentID, c
		s.spawn(func() {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			s.drafts.Save(ctx, agentID, snapshot)
		})
	}

	keys := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		keys = append(keys, cart.LineKeyOf(l))
	}
	sig := signature(keys)

	s.mu.Lock()
	force := s.forcePrefetch
	changed := sig != s.lineSignature
	s.forcePrefetch = false
	s.lineSignature = sig
	s.mu.Unlock()

	if (force || changed) && len(keys) > 0 {
		s.spawn(func() {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			s.cache.Prefetch(ctx, keys, force)
		})
	}
}

func signature(keys []string) string {
	return strings.Join(keys, "|")
}
