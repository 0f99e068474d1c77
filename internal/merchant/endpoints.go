package merchant

import (
	"context"
	"encoding/json"

	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Merchants *downstream.Client
	Devices   *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID"),
			Call:       h.get,
		},
		{
			Method:      "PUT",
			Path:        "/merchants/{merchantID}",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.Fields("merchantName"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.update,
		},
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/overview",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:       h.overview,
		},
	}
}

func (h Handlers) get(r *pipeline.Request) (any, error) {
	raw, err := h.Merchants.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"])
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Merchant")
		}
		return nil, err
	}
	return raw, nil
}

func (h Handlers) update(r *pipeline.Request) (any, error) {
	raw, err := h.Merchants.Put(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"], r.Body)
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Merchant")
		}
		return nil, err
	}
	return raw, nil
}

// overview joins two independent fetches: merchant details and the merchant's
// device list. Either failure fails the whole operation.
func (h Handlers) overview(r *pipeline.Request) (any, error) {
	merchantID := r.Params["merchantID"]

	var (
		details map[string]any
		devices []map[string]any
	)
	err := downstream.Join(r.HTTP.Context(),
		func(ctx context.Context) error {
			doc, err := h.Merchants.GetDoc(ctx, "/api/v1/merchants/"+merchantID)
			if err != nil {
				if api.IsStatus(err, 404) {
					return api.NotFound("Merchant")
				}
				return err
			}
			details = doc
			return nil
		},
		func(ctx context.Context) error {
			raw, err := h.Devices.Get(ctx, "/api/v1/merchants/"+merchantID+"/devices")
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, &devices)
		},
	)
	if err != nil {
		return nil, err
	}

	enabled := 0
	for _, d := range devices {
		if d["availability"] == "Operative" {
			enabled++
		}
	}

	return map[string]any{
		"merchant":           details,
		"deviceCount":        len(devices),
		"enabledDeviceCount": enabled,
	}, nil
}
