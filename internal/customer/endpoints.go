package customer

import (
	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Customers *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/customers",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:       h.list,
		},
		{
			Method: "GET",
			Path:   "/merchants/{merchantID}/customers/{customerID}",
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.UUIDParam("customerID"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.get,
		},
	}
}

func (h Handlers) list(r *pipeline.Request) (any, error) {
	return h.Customers.GetQuery(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/customers", r.Query)
}

func (h Handlers) get(r *pipeline.Request) (any, error) {
	raw, err := h.Customers.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/customers/"+r.Params["customerID"])
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Customer")
		}
		return nil, err
	}
	return raw, nil
}
