package contents

import (
	"gateway/internal/downstream"
	"gateway/internal/pipeline"
	"gateway/internal/shape"
	"gateway/internal/validate"
)

type Handlers struct {
	Contents *downstream.Client
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method: "GET",
			Path:   "/merchants/{merchantID}/site-menu",
			Validators: []validate.Rule{
				validate.UUIDParam("merchantID"),
				validate.QueryParams("languageCode"),
			},
			Authorize: pipeline.RequireMerchantParam("merchantID"),
			Call:      h.siteMenu,
			Shape:     shapeSiteMenu,
		},
	}
}

func (h Handlers) siteMenu(r *pipeline.Request) (any, error) {
	return h.Contents.GetDoc(r.HTTP.Context(), "/api/v1/merchants/"+r.Params["merchantID"]+"/site-menu")
}

// shapeSiteMenu resolves the multi-language text maps down to the caller's
// requested language, recursively through the menu tree.
func shapeSiteMenu(r *pipeline.Request, result any) (any, error) {
	menu, ok := result.(map[string]any)
	if !ok {
		return result, nil
	}
	return shape.ResolveLanguage(menu, r.Query.Get("languageCode")), nil
}
