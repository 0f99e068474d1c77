package product

import (
	"github.com/google/uuid"

	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/validate"
)

type Handlers struct {
	Products *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:     "GET",
			Path:       "/merchants/{merchantID}/products",
			Validators: []validate.Rule{validate.UUIDParam("merchantID")},
			Authorize:  pipeline.RequireMerchantParam("merchantID"),
			Call:       h.list,
		},
		{
			Method:      "POST",
			Path:        "/merchants/{merchantID}/products",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.Fields("name"),
				validate.UUIDField("_id"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.create,
			Status:    201,
		},
		{
			Method: "GET",
			Path:   "/merchants/{merchantID}/products/{productID}",
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.UUIDParam("productID"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID"),
			Call:      h.get,
		},
		{
			Method:      "PUT",
			Path:        "/merchants/{merchantID}/products/{productID}",
			RequireBody: true,
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.UUIDParam("productID"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.update,
		},
		{
			Method: "DELETE",
			Path:   "/merchants/{merchantID}/products/{productID}",
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.UUIDParam("productID"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID", authz.RoleAdmin),
			Call:      h.remove,
		},
	}
}

func (h Handlers) list(r *pipeline.Request) (any, error) {
	return h.Products.Get(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/products")
}

// create annotates the payload before forwarding: a generated _id when the
// client did not supply one, the document type, and the caller's admin
// rights. A downstream 409 means the _id was already used.
func (h Handlers) create(r *pipeline.Request) (any, error) {
	body := make(map[string]any, len(r.Body)+3)
	for k, v := range r.Body {
		body[k] = v
	}
	if _, ok := body["_id"]; !ok {
		body["_id"] = uuid.NewString()
	}
	body["docType"] = "product"
	body["adminRights"] = true

	raw, err := h.Products.Post(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/products", body)
	if err != nil {
		if api.IsStatus(err, 409) {
			return nil, api.Duplicate("Product")
		}
		return nil, err
	}
	return raw, nil
}

func (h Handlers) get(r *pipeline.Request) (any, error) {
	raw, err := h.Products.Get(r.HTTP.Context(), h.path(r))
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Product")
		}
		return nil, err
	}
	return raw, nil
}

func (h Handlers) update(r *pipeline.Request) (any, error) {
	raw, err := h.Products.Put(r.HTTP.Context(), h.path(r), r.Body)
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Product")
		}
		return nil, err
	}
	return raw, nil
}

func (h Handlers) remove(r *pipeline.Request) (any, error) {
	raw, err := h.Products.Delete(r.HTTP.Context(), h.path(r))
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("Product")
		}
		return nil, err
	}
	if len(raw) == 0 {
		return map[string]any{"deleted": r.Params["productID"]}, nil
	}
	return raw, nil
}

func (h Handlers) path(r *pipeline.Request) string {
	return "/api/v1/merchants/" + r.Params["merchantID"] + "/products/" + r.Params["productID"]
}
