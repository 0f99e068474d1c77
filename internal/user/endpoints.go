package user

import (
	"gateway/internal/api"
	"gateway/internal/pipeline"
	"gateway/internal/users"
	"gateway/internal/validate"
)

// Handlers covers the caller's own user document: export, authorization
// context, and consent management.
type Handlers struct {
	Users *users.Loader
}

func (h Handlers) Endpoints() []pipeline.Endpoint {
	return []pipeline.Endpoint{
		{
			Method:          "GET",
			Path:            "/users/me",
			SkipUserContext: true,
			Call:            h.export,
		},
		{
			Method: "GET",
			Path:   "/users/me/context",
			Call:   h.context,
		},
		{
			Method:          "POST",
			Path:            "/users/me/consents",
			RequireBody:     true,
			SkipUserContext: true,
			Validators:      []validate.Rule{validate.Fields("consentKey")},
			Call:            h.addConsent,
			Status:          201,
		},
		{
			Method:          "DELETE",
			Path:            "/users/me/consents",
			SkipUserContext: true,
			Validators:      []validate.Rule{validate.QueryParams("consentKey")},
			Call:            h.removeConsent,
		},
	}
}

func (h Handlers) export(r *pipeline.Request) (any, error) {
	return h.Users.Export(r.HTTP.Context(), r.Principal.ID)
}

func (h Handlers) context(r *pipeline.Request) (any, error) {
	return map[string]any{
		"merchants":       r.AuthContext.Merchants,
		"consents":        r.AuthContext.Consents,
		"merchantInvites": r.AuthContext.MerchantInvites,
	}, nil
}

func (h Handlers) addConsent(r *pipeline.Request) (any, error) {
	key, ok := r.Body["consentKey"].(string)
	if !ok || key == "" {
		return nil, api.FieldValidation("consentKey must be a string")
	}
	consent := users.Consent{ConsentKey: key}
	if text, ok := r.Body["consentText"].(string); ok {
		consent.ConsentText = text
	}
	consents, err := h.Users.AddConsent(r.HTTP.Context(), r.Principal.ID, consent)
	if err != nil {
		return nil, err
	}
	return map[string]any{"consents": consents}, nil
}

func (h Handlers) removeConsent(r *pipeline.Request) (any, error) {
	consents, err := h.Users.RemoveConsent(r.HTTP.Context(), r.Principal.ID, r.Query.Get("consentKey"))
	if err != nil {
		return nil, err
	}
	return map[string]any{"consents": consents}, nil
}
