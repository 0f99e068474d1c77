package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the authenticated identity behind a request. It lives for one
// request only; nothing here is persisted.
type Principal struct {
	ID     string
	Claims jwt.MapClaims
}

// Decoder parses bearer credentials into a Principal. Signature verification
// uses the shared secret handed out by the identity provider (HS256); claims
// are never trusted before the signature checks out.
type Decoder struct {
	Secret   string
	Audience string
}

// Decode verifies and parses a bearer token. Any malformed, expired, or
// mis-signed input fails; callers map the failure to a 401.
func (d Decoder) Decode(credential string) (Principal, error) {
	return d.decodeAt(credential, time.Now())
}

func (d Decoder) decodeAt(credential string, now time.Time) (Principal, error) {
	if credential == "" {
		return Principal{}, fmt.Errorf("missing token")
	}
	if d.Secret == "" {
		return Principal{}, fmt.Errorf("missing token secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := jwt.MapClaims{}
	tok, err := parser.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		return []byte(d.Secret), nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !tok.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}

	if d.Audience != "" {
		aud, _ := claims.GetAudience()
		if !contains(aud, d.Audience) {
			return Principal{}, fmt.Errorf("audience mismatch")
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, fmt.Errorf("missing subject")
	}

	return Principal{ID: sub, Claims: claims}, nil
}

func contains(vals jwt.ClaimStrings, want string) bool {
	for _, v := range vals {
		if v == want {
			return true
		}
	}
	return false
}
