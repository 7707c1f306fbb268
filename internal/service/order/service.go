package order

import (
	"context"
	"fmt"
	"log"
	"strings"

	"orderpad/internal/cart"
	"orderpad/internal/domain"
	"orderpad/internal/events"
)

// PriceFunc returns the effective unit price for an item, falling back to
// the supplied base price.
type PriceFunc func(itemID string, base float64) float64

// Service turns a cart into a flat submission payload and hands it to the
// event pipeline that forwards it to the ERP.
type Service struct {
	publisher events.Publisher
	logger    *log.Logger
}

func New(publisher events.Publisher, logger *log.Logger) *Service {
	return &Service{publisher: publisher, logger: logger}
}

// Build validates the cart and exports it as a submission payload. Prices
// come through unit so resolved customer prices win over base prices.
func Build(agentID string, c domain.Cart, unit PriceFunc) (events.OrderSubmittedPayload, error) {
	if c.Customer == nil || strings.TrimSpace(c.Customer.CustomerNumber) == "" {
		return events.OrderSubmittedPayload{}, domain.ErrNoCustomer
	}
	if len(c.Lines) == 0 {
		return events.OrderSubmittedPayload{}, domain.ErrEmptyCart
	}
	if c.Type == domain.DocumentOrder && strings.TrimSpace(c.DeliveryDate) == "" {
		return events.OrderSubmittedPayload{}, domain.ErrDeliveryDateRequired
	}

	payload := events.OrderSubmittedPayload{
		Type:           c.Type,
		AgentID:        strings.TrimSpace(agentID),
		CustomerNumber: strings.TrimSpace(c.Customer.CustomerNumber),
		Reference:      c.Reference,
		Remark:         c.Remark,
		DeliveryDate:   c.DeliveryDate,
		Warehouse:      c.Warehouse,
		Lines:          make([]events.OrderSubmittedLine, 0, len(c.Lines)),
	}
	for _, l := range c.Lines {
		price := l.BasePrice
		if unit != nil {
			price = unit(cart.LineKeyOf(l), l.BasePrice)
		}
		payload.Lines = append(payload.Lines, events.OrderSubmittedLine{
			ItemID:    cart.LineKeyOf(l),
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
		payload.TotalAmount += float64(l.Quantity) * price
	}
	return payload, nil
}

// Submit builds the payload and publishes it. The cart is not touched; the
// caller clears lines once Submit returns without error.
func (s *Service) Submit(ctx context.Context, agentID string, c domain.Cart, unit PriceFunc) (events.OrderSubmittedPayload, error) {
	payload, err := Build(agentID, c, unit)
	if err != nil {
		return events.OrderSubmittedPayload{}, err
	}
	env := events.NewOrderSubmitted(payload)
	if err := s.publisher.PublishOrderSubmitted(ctx, env); err != nil {
		return events.OrderSubmittedPayload{}, fmt.Errorf("publish order: %w", err)
	}
	if s.logger != nil {
		s.logger.Printf("submitted %s for customer %s: %d lines, total %.2f",
			payload.Type, payload.CustomerNumber, len(payload.Lines), payload.TotalAmount)
	}
	return payload, nil
}
