package session

import (
	"context"
	"sync"
	"testing"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/repository/kv"
	"orderpad/internal/service/draft"
)

type stubResolver struct {
	mu      sync.Mutex
	batches [][]string
	prices  map[string]domain.ResolvedPrice
}

func (s *stubResolver) ResolvePrices(_ context.Context, _, _ string, codes []string) (map[string]domain.ResolvedPrice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]string(nil), codes...))
	out := map[string]domain.ResolvedPrice{}
	for _, code := range codes {
		if p, ok := s.prices[code]; ok {
			out[code] = p
		}
	}
	return out, nil
}

func fptr(f float64) *float64 { return &f }

// newTestSession builds a session whose side effects run synchronously.
func newTestSession(t *testing.T, agentID string, resolver *stubResolver, drafts *draft.Service) *Session {
	t.Helper()
	s := New(context.Background(), agentID, resolver, drafts, nil)
	s.spawn = func(fn func()) { fn() }
	return s
}

func newDrafts() *draft.Service {
	return draft.New(kv.NewMemory(), kv.NewMemorySnapshots(), nil)
}

func vase() cart.ItemPayload {
	return cart.ItemPayload{ItemID: "200", Name: "Delft Vase", BasePrice: fptr(12.0), StepSize: 4}
}

func TestDispatchPersistsDraft(t *testing.T) {
	drafts := newDrafts()
	s := newTestSession(t, "A100", &stubResolver{}, drafts)

	s.Dispatch(cart.AddItem{Item: vase(), Delta: 4})

	stored := drafts.Load(context.Background(), "A100")
	if stored == nil || len(stored.Lines) != 1 || stored.Lines[0].Quantity != 4 {
		t.Fatalf("draft not written through: %+v", stored)
	}
}

func TestHydratesFromStoredDraft(t *testing.T) {
	drafts := newDrafts()
	seed := newTestSession(t, "A100", &stubResolver{}, drafts)
	seed.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "500123", Name: "De Tuinwinkel"}})
	seed.Dispatch(cart.AddItem{Item: vase(), Delta: 8})

	restored := newTestSession(t, "A100", &stubResolver{}, drafts)
	c := restored.Cart()
	if c.Customer == nil || c.Customer.CustomerNumber != "500123" {
		t.Fatalf("customer not hydrated: %+v", c)
	}
	if restored.Store().QuantityOf("200") != 8 {
		t.Fatalf("lines not hydrated: %+v", c.Lines)
	}
}

func TestEndToEndPricingScenario(t *testing.T) {
	resolver := &stubResolver{prices: map[string]domain.ResolvedPrice{
		"200": {Price: fptr(9.75), Source: domain.PriceSourceCustomer},
	}}
	s := newTestSession(t, "A100", resolver, newDrafts())

	s.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "500123"}})
	s.Dispatch(cart.AddItem{Item: vase(), Delta: 4})

	// the line-change dispatch force-prefetched under the new customer
	if got := s.Store().TotalAmount(); got != 39.0 {
		t.Fatalf("expected resolved total 39.00, got %v", got)
	}

	// switching customers reverts to base pricing until a new resolve lands
	resolver.mu.Lock()
	resolver.prices = map[string]domain.ResolvedPrice{}
	resolver.mu.Unlock()
	s.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "500456"}})
	if got := s.Store().TotalAmount(); got != 48.0 {
		t.Fatalf("expected base total 48.00 after switch, got %v", got)
	}
}

func TestCustomerSwitchForcesPrefetch(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, "A100", resolver, newDrafts())

	s.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "A"}})
	s.Dispatch(cart.AddItem{Item: vase(), Delta: 4})
	s.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "B"}})

	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	if len(resolver.batches) != 2 {
		t.Fatalf("expected add + switch prefetches, got %v", resolver.batches)
	}
	for _, batch := range resolver.batches {
		if len(batch) != 1 || batch[0] != "200" {
			t.Fatalf("unexpected batch: %v", batch)
		}
	}
}

func TestMetadataDispatchDoesNotPrefetch(t *testing.T) {
	resolver := &stubResolver{}
	s := newTestSession(t, "A100", resolver, newDrafts())

	s.Dispatch(cart.SetCustomer{Customer: &domain.Customer{CustomerNumber: "A"}})
	s.Dispatch(cart.AddItem{Item: vase(), Delta: 4})

	resolver.mu.Lock()
	before := len(resolver.batches)
	resolver.mu.Unlock()

	s.Dispatch(cart.SetReference{Value: "fair-2026"})
	s.Dispatch(cart.SetRemark{Value: "call ahead"})

	resolver.mu.Lock()
	defer resolver.mu.Unlock()
	if len(resolver.batches) != before {
		t.Fatalf("metadata change triggered prefetch: %v", resolver.batches)
	}
}

func TestSnapshotRestoreReplacesLiveCart(t *testing.T) {
	s := newTestSession(t, "A100", &stubResolver{}, newDrafts())
	ctx := context.Background()

	s.Dispatch(cart.AddItem{Item: vase(), Delta: 4})
	info, err := s.SaveSnapshot(ctx, "before lunch")
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	s.Dispatch(cart.Reset{})
	if got := s.Store().TotalQuantity(); got != 0 {
		t.Fatalf("expected empty cart, got %d", got)
	}

	if _, err := s.RestoreSnapshot(ctx, info.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := s.Store().QuantityOf("200"); got != 4 {
		t.Fatalf("snapshot not restored, qty=%d", got)
	}
}

func TestSessionsAreAgentIsolated(t *testing.T) {
	drafts := newDrafts()
	m := NewManager(&stubResolver{}, drafts, nil)
	ctx := context.Background()

	a := m.Get(ctx, "A100")
	a.spawn = func(fn func()) { fn() }
	a.Dispatch(cart.AddItem{Item: vase(), Delta: 4})

	b := m.Get(ctx, "R200")
	if got := b.Store().TotalQuantity(); got != 0 {
		t.Fatalf("cart leaked across agents: %d", got)
	}
	if again := m.Get(ctx, "A100"); again != a {
		t.Fatalf("expected the same session instance per agent")
	}
}
