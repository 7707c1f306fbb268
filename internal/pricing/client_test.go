package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orderpad/internal/domain"
)

func TestClientResolvePrices(t *testing.T) {
	var gotBody resolveRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/prices/resolve" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("x-setup-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":         true,
			"customerId": "500123",
			"prices": map[string]interface{}{
				"0200": map[string]interface{}{"price": 9.75, "source": "debiteur"},
				"300":  map[string]interface{}{"price": nil, "source": "none"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second, nil)
	prices, err := client.ResolvePrices(context.Background(), "500123", "PL1", []string{"200", " 200 ", "300"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "secret" {
		t.Fatalf("setup key header not sent, got %q", gotKey)
	}
	if gotBody.CustomerID != "500123" || gotBody.PrijslijstCode != "PL1" {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
	if len(gotBody.Itemcodes) != 2 {
		t.Fatalf("expected deduplicated codes, got %v", gotBody.Itemcodes)
	}

	// response keys are normalized
	entry, ok := prices["200"]
	if !ok || entry.Price == nil || *entry.Price != 9.75 {
		t.Fatalf("expected normalized key 200 with price 9.75, got %v", prices)
	}
	if e := prices["300"]; e.Price != nil || e.Source != domain.PriceSourceNone {
		t.Fatalf("expected nil price entry for 300, got %+v", e)
	}
}

func TestClientEmptyInputsShortCircuit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second, nil)
	if _, err := client.ResolvePrices(context.Background(), "  ", "", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prices, err := client.ResolvePrices(context.Background(), "500123", "", nil); err != nil || len(prices) != 0 {
		t.Fatalf("expected empty result, got %v, %v", prices, err)
	}
	if called {
		t.Fatalf("expected no HTTP call for empty input")
	}
}

func TestClientNon2xxIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "setup key invalid", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", time.Second, nil)
	_, err := client.ResolvePrices(context.Background(), "500123", "", []string{"200"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %+v", apiErr)
	}
}

func TestClientBackendNotOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":    false,
			"error": "customer unknown",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second, nil)
	if _, err := client.ResolvePrices(context.Background(), "500123", "", []string{"200"}); err == nil {
		t.Fatalf("expected error for ok:false reply")
	}
}
