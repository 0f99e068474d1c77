package downstream

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gateway/internal/api"
	"gateway/pkg/config"
)

func TestDo_SendsServiceKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-functions-key")
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	c := NewClient("merchant", config.ServiceConfig{BaseURL: srv.URL, APIKey: "sk-test"})
	if _, err := c.Get(context.Background(), "/api/v1/merchants/m1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "sk-test" {
		t.Fatalf("service key not forwarded: %q", gotKey)
	}
}

func TestDo_TransportFailureIsUpstreamUnavailable(t *testing.T) {
	c := NewClient("merchant", config.ServiceConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Get(context.Background(), "/api/v1/merchants/m1")
	if !api.IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("expected 502, got %v", err)
	}
	if api.Convert(err).ReasonPhrase != "UpstreamUnavailableError" {
		t.Fatalf("reason mismatch: %v", err)
	}
}

func TestDo_StructuredErrorPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"code":404,"description":"merchant not found","reasonPhrase":"MerchantNotFoundError"}`)
	}))
	defer srv.Close()

	c := NewClient("merchant", config.ServiceConfig{BaseURL: srv.URL})
	_, err := c.Get(context.Background(), "/api/v1/merchants/m1")
	e := api.Convert(err)
	if e.Code != http.StatusNotFound || e.ReasonPhrase != "MerchantNotFoundError" {
		t.Fatalf("pass-through mismatch: %+v", e)
	}
}

func TestDo_PreconditionFailedMapsToConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-Match") != "v7" {
			t.Errorf("If-Match not forwarded: %q", r.Header.Get("If-Match"))
		}
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	c := NewClient("users", config.ServiceConfig{BaseURL: srv.URL})
	_, err := c.PutIfMatch(context.Background(), "/api/v1/users/u1", map[string]any{}, "v7")
	if !api.IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409, got %v", err)
	}
}

func TestGetDoc_EmptyBodyIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("device", config.ServiceConfig{BaseURL: srv.URL})
	_, err := c.GetDoc(context.Background(), "/api/v1/devices/d1")
	if !api.IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("expected 502 for empty document, got %v", err)
	}
}

func TestJoin_AggregatesFailure(t *testing.T) {
	calls := 0
	err := Join(context.Background(),
		func(ctx context.Context) error { calls++; return nil },
		func(ctx context.Context) error { calls++; return api.NotFound("Merchant") },
	)
	if err == nil {
		t.Fatalf("expected joined failure")
	}
	if calls != 2 {
		t.Fatalf("expected both legs to run, got %d", calls)
	}
}
