package cart

import (
	"sync"

	"orderpad/internal/domain"
	"orderpad/internal/itemcode"
)

// PriceLookup serves the resolved customer price for an item, or the
// caller-supplied fallback when none is cached. Implemented by the pricing
// cache; nil-safe at the store level.
type PriceLookup interface {
	UnitPrice(itemID string, fallback float64) float64
}

// CustomerChange describes a customer identity transition observed during
// a dispatch.
type CustomerChange struct {
	Previous      string
	Current       string
	PriceListCode string
}

// Store owns one cart and serializes every mutation through Apply. State
// transitions are synchronous and never perform I/O; side effects hang off
// the observer hooks, which run after the transition in dispatch order.
// Customer-change observers run before plain change observers so cache
// invalidation is ordered ahead of any persistence or prefetch triggered by
// the same dispatch.
type Store struct {
	mu     sync.Mutex
	state  domain.Cart
	prices PriceLookup

	onCustomerChange []func(CustomerChange)
	onChange         []func(domain.Cart)
}

// NewStore returns a store holding the empty initial cart. prices may be
// nil, in which case derived totals use base prices only.
func NewStore(prices PriceLookup) *Store {
	return &Store{state: domain.NewCart(), prices: prices}
}

// OnCustomerChange registers a hook fired whenever a dispatch changes the
// active customer identity, including the transition to no customer.
func (s *Store) OnCustomerChange(fn func(CustomerChange)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onCustomerChange = append(s.onCustomerChange, fn)
}

// OnChange registers a hook fired after every dispatch with a copy of the
// new state.
func (s *Store) OnChange(fn func(domain.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Dispatch applies the action and notifies observers. Observers run outside
// the state lock, so they may dispatch further actions.
func (s *Store) Dispatch(action Action) domain.Cart {
	s.mu.Lock()
	prev := customerID(s.state)
	prevPL := priceListCode(s.state)
	s.state = Apply(s.state, action)
	next := customerID(s.state)
	nextPL := priceListCode(s.state)
	snapshot := s.state.Clone()
	custHooks := s.onCustomerChange
	changeHooks := s.onChange
	s.mu.Unlock()

	if prev != next || prevPL != nextPL {
		change := CustomerChange{Previous: prev, Current: next, PriceListCode: nextPL}
		for _, fn := range custHooks {
			fn(change)
		}
	}
	for _, fn := range changeHooks {
		fn(snapshot)
	}
	return snapshot
}

// Cart returns a deep copy of the current state.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CustomerID returns the active customer identifier, or "".
func (s *Store) CustomerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return customerID(s.state)
}

// QuantityOf returns the quantity of the line matching the identifier, or 0.
func (s *Store) QuantityOf(code string) int {
	key := itemcode.Normalize(code)
	if key == "" {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.state.Lines {
		if LineKeyOf(l) == key {
			return l.Quantity
		}
	}
	return 0
}

// TotalQuantity sums line quantities.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.state.Lines {
		total += l.Quantity
	}
	return total
}

// UnitPriceOf returns the effective unit price for a line: the resolved
// customer price when cached, the line's base price otherwise. Unknown
// identifiers price at 0.
func (s *Store) UnitPriceOf(code string) float64 {
	key := itemcode.Normalize(code)
	if key == "" {
		return 0
	}
	s.mu.Lock()
	base := 0.0
	for _, l := range s.state.Lines {
		if LineKeyOf(l) == key {
			base = l.BasePrice
			break
		}
	}
	s.mu.Unlock()
	if s.prices == nil {
		return base
	}
	return s.prices.UnitPrice(key, base)
}

// TotalAmount sums quantity times effective unit price over all lines.
func (s *Store) TotalAmount() float64 {
	s.mu.Lock()
	lines := make([]domain.CartLine, len(s.state.Lines))
	copy(lines, s.state.Lines)
	s.mu.Unlock()

	total := 0.0
	for _, l := range lines {
		unit := l.BasePrice
		if s.prices != nil {
			unit = s.prices.UnitPrice(LineKeyOf(l), l.BasePrice)
		}
		total += float64(l.Quantity) * unit
	}
	return total
}

// LineKeys returns the normalized identifiers of all lines in order.
func (s *Store) LineKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.state.Lines))
	for _, l := range s.state.Lines {
		keys = append(keys, LineKeyOf(l))
	}
	return keys
}

func customerID(c domain.Cart) string {
	if c.Customer == nil {
		return ""
	}
	return c.Customer.CustomerNumber
}

func priceListCode(c domain.Cart) string {
	if c.Customer == nil {
		return ""
	}
	return c.Customer.PriceListCode
}
