package voucher

import (
	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Vouchers *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/vouchers",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:       h.list,
		},
		{
			Method:      "POST",
			Path:        "/merchants/{merchantID}/vouchers",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.Fields("voucherName"),
				validate.IntRange("passTokenCount", 0, 1000),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.create,
			Status:    201,
		},
	}
}

func (h Handlers) list(r *pipeline.Request) (any, error) {
	return h.Vouchers.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/vouchers")
}

func (h Handlers) create(r *pipeline.Request) (any, error) {
	raw, err := h.Vouchers.Post(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/vouchers", r.Body)
	if err != nil {
		if api.IsStatus(err, 409) {
			return nil, api.Duplicate("Voucher")
		}
		return nil, err
	}
	return raw, nil
}
