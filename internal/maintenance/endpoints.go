package maintenance

import (
	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Maintenance *downstream.Client
	Devices     *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:      "POST",
			Path:        "/devices/{deviceID}/maintenance-reports",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("deviceID"),
				validate.Fields("description"),
			},
			Call:   h.createReport,
			Status: 201,
		},
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/maintenance-reports",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:       h.listReports,
		},
	}
}

// createReport resolves the device's owning merchant before the role check,
// then forwards the report annotated with both IDs. The device fetch and the
// report create are ordered by data dependency.
func (h Handlers) createReport(r *pipeline.Request) (any, error) {
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
	if err := authz.Eval(r.AuthContext.Merchants, merchantID, authz.RoleAdmin, authz.RoleView); err != nil {
		return nil, err
	}

	body := make(map[string]any, len(r.Body)+2)
	for k, v := range r.Body {
		body[k] = v
	}
	body["deviceId"] = deviceID
	body["merchantId"] = merchantID

	return h.Maintenance.Post(ctx, "/api/v1/maintenance-reports", body)
}

func (h Handlers) listReports(r *pipeline.Request) (any, error) {
	return h.Maintenance.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/maintenance-reports")
}
