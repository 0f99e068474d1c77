package device

import (
	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Devices *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/devices",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin, authz.RoleView),
			Call:       h.list,
		},
		{
			Method:      "PATCH",
			Path:        "/devices/{deviceID}/availability",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("deviceID"),
				validate.Fields("availability"),
				validate.Enum("availability", "Operative", "Inoperative"),
			},
			Call: h.setAvailability,
		},
	}
}

func (h Handlers) list(r *pipeline.Request) (any, error) {
	raw, err := h.Devices.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/devices")
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// setAvailability is a dependent two-step flow: the device document tells us
// the owning merchant, and only then can the role check run. The calls must
// stay ordered.
func (h Handlers) setAvailability(r *pipeline.Request) (any, error) {
	ctx := r.HTTP.Context()
	deviceID := r.Params["deviceID"]

	doc, err := h.Devices.GetDoc(ctx, "/api/v1/devices/"+deviceID)
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Device")
		}
		return nil, err
	}

	merchantID, _ := doc["merchantId"].(string)
	if merchantID == "" {
		return nil, api.UpstreamUnavailable("device document has no owning merchant")
	}
	if err := authz.Eval(r.AuthContext.Merchants, merchantID, authz.RoleAdmin); err != nil {
		return nil, err
	}

	raw, err := h.Devices.Patch(ctx, "/api/v1/devices/"+deviceID, map[string]any{
		"availability": r.Body["availability"],
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}
