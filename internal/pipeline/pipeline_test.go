package pipeline

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway/internal/api"
	"gateway/internal/downstream"
	"gateway/internal/token"
	"gateway/internal/users"
	"gateway/internal/validate"
	"gateway/pkg/config"
)

func testEngine(t *testing.T) (*Engine, *int) {
	t.Helper()
	loads := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loads++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"_id":       "u1",
			"merchants": []map[string]any{{"merchantId": "m1", "roles": "admin"}},
		})
	}))
	t.Cleanup(srv.Close)

	loader := &users.Loader{Client: downstream.NewClient("users", config.ServiceConfig{BaseURL: srv.URL})}
	return &Engine{Loader: loader, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}, &loads
}

func serve(t *testing.T, e *Engine, ep Endpoint, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := api.WithPrincipal(req.Context(), token.Principal{ID: "u1"})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	e.Mount(r, []Endpoint{ep})

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEngine_NilResultBecomesUpstreamError(t *testing.T) {
	e, _ := testEngine(t)
	ep := Endpoint{
		Method: "GET",
		Path:   "/things",
		Call:   func(r *Request) (any, error) { return nil, nil },
	}
	rec := serve(t, e, ep, "GET", "/things", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "UpstreamUnavailableError")
}

func TestEngine_SkipUserContext(t *testing.T) {
	e, loads := testEngine(t)
	ep := Endpoint{
		Method:          "GET",
		Path:            "/public",
		SkipUserContext: true,
		Call: func(r *Request) (any, error) {
			assert.Nil(t, r.AuthContext)
			return map[string]any{"ok": true}, nil
		},
	}
	rec := serve(t, e, ep, "GET", "/public", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, *loads)
}

func TestEngine_LoadsContextAndAuthorizes(t *testing.T) {
	e, loads := testEngine(t)
	ep := Endpoint{
		Method:    "GET",
		Path:      "/merchants/{merchantID}/things",
		Authorize: RequireMerchantParam("merchantID"),
		Call:      func(r *Request) (any, error) { return map[string]any{"ok": true}, nil },
	}

	rec := serve(t, e, ep, "GET", "/merchants/m1/things", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, e, ep, "GET", "/merchants/m2/things", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 2, *loads, "context fetched fresh per request")
}

func TestEngine_InvalidJSONBody(t *testing.T) {
	e, _ := testEngine(t)
	called := false
	ep := Endpoint{
		Method:      "POST",
		Path:        "/things",
		RequireBody: true,
		Call:        func(r *Request) (any, error) { called = true; return map[string]any{}, nil },
	}
	rec := serve(t, e, ep, "POST", "/things", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestEngine_ValidatorShortCircuitsBeforeLoad(t *testing.T) {
	e, loads := testEngine(t)
	ep := Endpoint{
		Method:     "GET",
		Path:       "/merchants/{merchantID}",
		Validators: []validate.Rule{validate.UUIDParam("merchantID")},
		Call:       func(r *Request) (any, error) { return map[string]any{}, nil },
	}
	rec := serve(t, e, ep, "GET", "/merchants/nope", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, *loads)
}

func TestEngine_ShapeTransformsResult(t *testing.T) {
	e, _ := testEngine(t)
	ep := Endpoint{
		Method:          "GET",
		Path:            "/things",
		SkipUserContext: true,
		Call:            func(r *Request) (any, error) { return map[string]any{"secret": 1, "id": "x"}, nil },
		Shape: func(r *Request, result any) (any, error) {
			doc := result.(map[string]any)
			delete(doc, "secret")
			return doc, nil
		},
	}
	rec := serve(t, e, ep, "GET", "/things", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestEngine_MissingPrincipalIs401(t *testing.T) {
	e, _ := testEngine(t)
	r := chi.NewRouter()
	e.Mount(r, []Endpoint{{
		Method: "GET",
		Path:   "/things",
		Call:   func(r *Request) (any, error) { return map[string]any{}, nil },
	}})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/things", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
