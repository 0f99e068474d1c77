// Package pipeline runs the per-endpoint request flow every handler in this
// gateway shares: decode principal → body checks → field validation → load
// the caller's authorization context → authorize → downstream call → shape.
// Endpoints are declared as data and interpreted by one engine, instead of
// re-implementing the flow per handler.
package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/token"
	"gateway/internal/users"
	"gateway/internal/validate"
)

// Request carries everything a step may need. Later steps see the outputs of
// earlier ones; data dependencies are explicit, not buried in callbacks.
type Request struct {
	validate.Request

	HTTP      *http.Request
	Principal token.Principal

	// AuthContext is nil for endpoints declared with SkipUserContext.
	AuthContext *users.AuthorizationContext

	result any
}

type (
	AuthorizeFunc func(r *Request) error
	CallFunc      func(r *Request) (any, error)
	ShapeFunc     func(r *Request, result any) (any, error)
)

// Endpoint is the declarative manifest for one route.
type Endpoint struct {
	Method string
	Path   string

	// RequireBody fails early with EmptyRequestBodyError when no body came in.
	RequireBody bool

	// SkipUserContext skips the Users service fetch for endpoints that do not
	// authorize against merchant bindings.
	SkipUserContext bool

	Validators []validate.Rule
	Authorize  AuthorizeFunc
	Call       CallFunc
	Shape      ShapeFunc

	// Status is the success status; defaults to 200.
	Status int
}

// Engine interprets endpoint manifests.
type Engine struct {
	Loader *users.Loader
	Log    *slog.Logger
}

// Mount registers every endpoint on the router.
func (e *Engine) Mount(r chi.Router, endpoints []Endpoint) {
	for _, ep := range endpoints {
		r.Method(ep.Method, ep.Path, e.Handler(ep))
	}
}

// Handler builds the http.Handler executing one manifest. Each step can
// short-circuit with a terminal error; no partial responses.
func (e *Engine) Handler(ep Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := e.parse(ep, r)
		if err == nil {
			err = e.run(ep, req)
		}
		if err != nil {
			apiErr := api.Convert(err)
			if apiErr.Code >= 500 && e.Log != nil {
				e.Log.Error("pipeline failure",
					"m", ep.Method, "path", ep.Path, "err", err.Error())
			}
			api.WriteError(w, apiErr)
			return
		}

		status := ep.Status
		if status == 0 {
			status = http.StatusOK
		}
		if req.result == nil {
			w.WriteHeader(status)
			return
		}
		api.WriteJSON(w, status, req.result)
	}
}

func (e *Engine) parse(ep Endpoint, r *http.Request) (*Request, error) {
	p, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		return nil, api.NotAuthenticated("missing principal")
	}

	req := &Request{HTTP: r, Principal: p}
	req.Query = r.URL.Query()
	req.Params = map[string]string{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			req.Params[key] = rctx.URLParams.Values[i]
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, api.Internal("read request body failed")
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req.Body); err != nil {
			return nil, api.FieldValidation("request body is not valid JSON")
		}
	}
	if ep.RequireBody && len(req.Body) == 0 {
		return nil, api.EmptyRequestBody()
	}

	return req, nil
}

func (e *Engine) run(ep Endpoint, req *Request) error {
	for _, rule := range ep.Validators {
		if err := rule.Check(&req.Request); err != nil {
			return err
		}
	}

	if !ep.SkipUserContext {
		authCtx, err := e.Loader.Load(req.HTTP.Context(), req.Principal.ID)
		if err != nil {
			return err
		}
		req.AuthContext = authCtx
	}

	if ep.Authorize != nil {
		if err := ep.Authorize(req); err != nil {
			return err
		}
	}

	result, err := ep.Call(req)
	if err != nil {
		return err
	}
	if result == nil {
		// A vanished downstream result must never turn into a silent empty
		// reply on an endpoint that promised a document.
		return api.UpstreamUnavailable("downstream call produced no result")
	}
	if raw, ok := result.(json.RawMessage); ok && len(bytes.TrimSpace(raw)) == 0 {
		return api.UpstreamUnavailable("downstream call produced an empty result")
	}

	if ep.Shape != nil {
		result, err = ep.Shape(req, result)
		if err != nil {
			return err
		}
	}

	req.result = result
	return nil
}

// RequireMerchantParam authorizes against the merchant ID found in the named
// path parameter. With no roles, any linkage passes; with roles, the
// binding's role must be among them.
func RequireMerchantParam(param string, roles ...string) AuthorizeFunc {
	return func(r *Request) error {
		return authz.Eval(r.AuthContext.Merchants, r.Params[param], roles...)
	}
}
