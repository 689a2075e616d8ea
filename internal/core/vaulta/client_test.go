package vaulta

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "key"); err == nil {
		t.Error("expected error for missing base URL")
	}
	if _, err := NewClient("https://api.example.com", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_quote" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "vk_test" {
			t.Errorf("x-api-key = %q", key)
		}

		var req QuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Pair != "BTC-GHS" || req.Side != "buy" {
			t.Errorf("request = %+v", req)
		}

		w.Write([]byte(`{"pair":"BTC-GHS","rate":950000.5,"total_fiat":9500.0}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "vk_test")
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	quote, err := client.Quote(context.Background(), QuoteRequest{
		Pair:         "BTC-GHS",
		Side:         "buy",
		AmountCrypto: 0.01,
	})
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if quote["rate"] != 950000.5 {
		t.Errorf("rate = %v", quote["rate"])
	}
}

func TestQuoteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL, "vk_test")
	if _, err := client.Quote(context.Background(), QuoteRequest{Pair: "BTC-GHS", Side: "buy"}); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
