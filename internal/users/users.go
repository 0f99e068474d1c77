package users

import (
	"context"
	"encoding/json"
	"time"

	"gateway/internal/api"
	"gateway/internal/authz"
	"gateway/internal/downstream"
	"gateway/internal/shape"
)

type Consent struct {
	ConsentKey  string `json:"consentKey"`
	ConsentText string `json:"consentText,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// AuthorizationContext is the caller's merchant bindings and related user
// state, fetched fresh from the Users service on every request. It is never
// cached across requests.
type AuthorizationContext struct {
	UserID          string
	Merchants       []authz.Binding
	Consents        []Consent
	MerchantInvites []json.RawMessage

	// Version is the document _etag, used for conditional writes.
	Version string
}

// Loader fetches and mutates user documents through the Users service.
type Loader struct {
	Client *downstream.Client
}

type userDoc struct {
	ID              string            `json:"_id"`
	Merchants       []authz.Binding   `json:"merchants"`
	Consents        []Consent         `json:"consents"`
	MerchantInvites []json.RawMessage `json:"merchantInvites"`
	ETag            string            `json:"_etag"`
}

// Load fetches the principal's authorization record. Single synchronous
// fetch, no retry; failures propagate to the caller as-is.
func (l *Loader) Load(ctx context.Context, principalID string) (*AuthorizationContext, error) {
	raw, err := l.Client.Get(ctx, "/api/v1/users/"+principalID)
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, api.NotFound("User")
		}
		return nil, err
	}

	var doc userDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, api.UpstreamUnavailable("users service returned a malformed document")
	}
	if doc.ID == "" {
		doc.ID = principalID
	}

	return &AuthorizationContext{
		UserID:          doc.ID,
		Merchants:       doc.Merchants,
		Consents:        doc.Consents,
		MerchantInvites: doc.MerchantInvites,
		Version:         doc.ETag,
	}, nil
}

// AddConsent appends a consent to the user document. Read-modify-write with
// an If-Match version check: a concurrent writer turns into a 409 instead of
// a lost update.
func (l *Loader) AddConsent(ctx context.Context, principalID string, consent Consent) ([]Consent, error) {
	doc, etag, err := l.fetchDoc(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if consent.CreatedAt == "" {
		consent.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	consents := decodeConsents(doc["consents"])
	for _, c := range consents {
		if c.ConsentKey == consent.ConsentKey {
			return nil, api.Duplicate("Consent")
		}
	}
	consents = append(consents, consent)
	doc["consents"] = consents

	if _, err := l.Client.PutIfMatch(ctx, "/api/v1/users/"+principalID, doc, etag); err != nil {
		return nil, err
	}
	return consents, nil
}

// RemoveConsent drops the consent with the given key. Removing a consent that
// is not there is a 404; the document is not written in that case.
func (l *Loader) RemoveConsent(ctx context.Context, principalID, consentKey string) ([]Consent, error) {
	doc, etag, err := l.fetchDoc(ctx, principalID)
	if err != nil {
		return nil, err
	}

	consents := decodeConsents(doc["consents"])
	kept := make([]Consent, 0, len(consents))
	for _, c := range consents {
		if c.ConsentKey != consentKey {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(consents) {
		return nil, api.NotFound("Consent")
	}
	doc["consents"] = kept

	if _, err := l.Client.PutIfMatch(ctx, "/api/v1/users/"+principalID, doc, etag); err != nil {
		return nil, err
	}
	return kept, nil
}

// Export returns the user's own document with storage and credential fields
// stripped, for "download my data" endpoints.
func (l *Loader) Export(ctx context.Context, principalID string) (map[string]any, error) {
	doc, _, err := l.fetchDoc(ctx, principalID)
	if err != nil {
		return nil, err
	}
	stripped := shape.StripFields(doc, shape.InternalFields...)
	delete(stripped, "_etag")
	return stripped, nil
}

func (l *Loader) fetchDoc(ctx context.Context, principalID string) (map[string]any, string, error) {
	doc, err := l.Client.GetDoc(ctx, "/api/v1/users/"+principalID)
	if err != nil {
		if api.IsStatus(err, 404) {
			return nil, "", api.NotFound("User")
		}
		return nil, "", err
	}
	etag, _ := doc["_etag"].(string)
	return doc, etag, nil
}

func decodeConsents(v any) []Consent {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var consents []Consent
	_ = json.Unmarshal(b, &consents)
	return consents
}
