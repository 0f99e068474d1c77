package api

import (
	"context"

	"gateway/internal/token"
)

type ctxKey string

const ctxKeyPrincipal ctxKey = "principal"

func WithPrincipal(ctx context.Context, p token.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

func PrincipalFromContext(ctx context.Context) (token.Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(token.Principal)
	return p, ok
}
