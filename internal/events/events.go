// Package events publishes order-pad lifecycle events to the message
// broker for downstream consumers (ERP forwarder, reporting).
package events

import (
	"time"

	"github.com/google/uuid"

	"orderpad/internal/domain"
)

const (
	// EventsExchange is the topic exchange all order-pad events go to.
	EventsExchange = "orderpad.events"

	OrderSubmittedEventName  = "OrderSubmitted"
	OrderSubmittedVersion    = 1
	OrderSubmittedRoutingKey = "order.submitted.v1"

	producerName = "orderpad-api"
)

// OrderSubmittedLine is one flat submission line.
type OrderSubmittedLine struct {
	ItemID    string  `json:"itemId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderSubmittedPayload carries the submitted order or quote.
type OrderSubmittedPayload struct {
	Type           domain.DocumentType  `json:"type"`
	AgentID        string               `json:"agentId,omitempty"`
	CustomerNumber string               `json:"customerNumber"`
	Reference      string               `json:"reference,omitempty"`
	Remark         string               `json:"remark,omitempty"`
	DeliveryDate   string               `json:"deliveryDate,omitempty"`
	Warehouse      string               `json:"warehouse,omitempty"`
	Lines          []OrderSubmittedLine `json:"lines"`
	TotalAmount    float64              `json:"totalAmount"`
}

// Envelope wraps a payload with event metadata.
type Envelope struct {
	EventName    string                `json:"eventName"`
	EventVersion int                   `json:"eventVersion"`
	EventID      string                `json:"eventId"`
	Producer     string                `json:"producer"`
	OccurredAt   time.Time             `json:"occurredAt"`
	Payload      OrderSubmittedPayload `json:"payload"`
}

// NewOrderSubmitted builds a versioned envelope around the payload.
func NewOrderSubmitted(payload OrderSubmittedPayload) Envelope {
	return Envelope{
		EventName:    OrderSubmittedEventName,
		EventVersion: OrderSubmittedVersion,
		EventID:      uuid.NewString(),
		Producer:     producerName,
		OccurredAt:   time.Now().UTC(),
		Payload:      payload,
	}
}
