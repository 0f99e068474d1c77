package order

import (
	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Orders *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/orders/{orderID}",
			Validators: []validate.Rule{validate.UUIDParam("orderID")},
			Call:       h.get,
		},
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/orders",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:       h.list,
		},
	}
}

// get authorizes after the fetch: the order document names its owning
// merchant, which the caller must be linked to.
func (h Handlers) get(r *pipeline.Request) (any, error) {
	raw, err := h.Orders.Get(r.HTTP.Context(), "/api/v1/orders/"+r.Params["orderID"])
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Order")
		}
		return nil, err
	}

	doc, err := downstream.DecodeDoc("order", raw)
	if err != nil {
		return nil, err
	}
	merchantID, _ := doc["merchantId"].(string)
	if merchantID == "" {
		return nil, api.UpstreamUnavailable("order document has no owning merchant")
	}
	if err := authz.Eval(r.AuthContext.Merchants, merchantID); err != nil {
		return nil, err
	}

	return raw, nil
}

func (h Handlers) list(r *pipeline.Request) (any, error) {
	return h.Orders.GetQuery(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/orders", r.Query)
}
