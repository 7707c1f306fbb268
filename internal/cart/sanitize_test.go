package cart

import (
	"encoding/json"
	"reflect"
	"testing"

	"orderpad/internal/domain"
)

func TestSanitizeDropsLinesWithoutItemID(t *testing.T) {
	blob := []byte(`{
		"type": "order",
		"lines": [
			{"itemId": "", "name": "ghost", "quantity": 2, "basePrice": 5},
			{"itemId": "1001", "name": "Candle Set", "quantity": 2, "basePrice": 5}
		]
	}`)
	got, err := SanitizeJSON(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 1 || got.Lines[0].ItemID != "1001" {
		t.Fatalf("expected only the valid line, got %+v", got.Lines)
	}
}

func TestSanitizeCoercesTypeAndWarehouse(t *testing.T) {
	got, err := SanitizeJSON([]byte(`{"type":"quotation"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != domain.DocumentOrder {
		t.Fatalf("expected unknown type coerced to order, got %q", got.Type)
	}
	if got.Warehouse != domain.DefaultWarehouse {
		t.Fatalf("expected default warehouse, got %q", got.Warehouse)
	}

	got, err = SanitizeJSON([]byte(`{"type":"offerte","warehouse":"02"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != domain.DocumentQuote || got.Warehouse != "02" {
		t.Fatalf("unexpected cart: %+v", got)
	}
}

func TestSanitizeLegacyLineSpellings(t *testing.T) {
	blob := []byte(`{
		"lines": [{
			"productId": "0300",
			"name": "Lantern",
			"price": "9,95",
			"qty": 6,
			"outer_carton_qty": "6",
			"available_stock": "48",
			"on_order": 24,
			"arrival_date": "2026-09-15",
			"is_sold_out": false
		}]
	}`)
	got, err := SanitizeJSON(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(got.Lines))
	}
	l := got.Lines[0]
	if l.ItemID != "300" {
		t.Fatalf("expected normalized item id 300, got %q", l.ItemID)
	}
	if l.BasePrice != 9.95 || l.Quantity != 6 || l.StepSize != 6 {
		t.Fatalf("unexpected coercion: %+v", l)
	}
	if l.Stock == nil || l.Stock.Available == nil || *l.Stock.Available != 48 {
		t.Fatalf("stock not read from legacy fields: %+v", l.Stock)
	}
	if l.Stock.OnOrder == nil || *l.Stock.OnOrder != 24 {
		t.Fatalf("on-order not read: %+v", l.Stock)
	}
	if l.Stock.ArrivalDate == nil || *l.Stock.ArrivalDate != "2026-09-15" {
		t.Fatalf("arrival date not read: %+v", l.Stock)
	}
}

func TestSanitizeDropsNonPositiveQuantities(t *testing.T) {
	blob := []byte(`{"lines":[
		{"itemId":"1","name":"a","quantity":0,"basePrice":1},
		{"itemId":"2","name":"b","quantity":-3,"basePrice":1},
		{"itemId":"3","name":"c","quantity":"not a number","basePrice":1}
	]}`)
	got, err := SanitizeJSON(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Lines) != 0 {
		t.Fatalf("expected all lines dropped, got %+v", got.Lines)
	}
}

func TestSanitizeKeepsUnknownCustomerFields(t *testing.T) {
	blob := []byte(`{
		"customer": {
			"customerNumber": "500123",
			"name": "De Tuinwinkel",
			"prijslijstCode": "PL2",
			"kredietlimiet": 15000,
			"route": "NOORD"
		}
	}`)
	got, err := SanitizeJSON(blob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Customer == nil {
		t.Fatalf("expected customer")
	}
	if got.Customer.PriceListCode != "PL2" {
		t.Fatalf("legacy price list spelling not read: %+v", got.Customer)
	}
	if len(got.Customer.Extra) != 2 {
		t.Fatalf("expected 2 extra fields preserved, got %v", got.Customer.Extra)
	}

	// and they survive re-serialization
	data, err := json.Marshal(got.Customer)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]interface{}
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round["route"] != "NOORD" {
		t.Fatalf("extra field lost on round trip: %v", round)
	}
}

func TestSanitizeRejectsUndecodableBlob(t *testing.T) {
	if _, err := SanitizeJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestRoundTripPersistence(t *testing.T) {
	status := "ok"
	avail := 48.0
	original := domain.Cart{
		Type: domain.DocumentQuote,
		Customer: &domain.Customer{
			CustomerNumber: "500456",
			Name:           "Bloemen & Zo",
			PriceListCode:  "PL1",
			Address:        &domain.CustomerAddress{City: "Utrecht", PostalCode: "3511 AB"},
		},
		Lines: []domain.CartLine{
			{
				ItemID:        "1001",
				ArticleNumber: "1001",
				Name:          "Candle Set",
				BasePrice:     9.5,
				Quantity:      12,
				StepSize:      6,
				Stock:         &domain.StockSnapshot{Status: &status, Available: &avail},
			},
			{ItemID: "2002", Name: "Bowl", BasePrice: 4.25, Quantity: 3},
		},
		Reference:    "fair-2026",
		Remark:       "deliver before opening",
		DeliveryDate: "2026-09-20",
		Warehouse:    "01",
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := SanitizeJSON(data)
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if !reflect.DeepEqual(original, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", original, got)
	}
}
