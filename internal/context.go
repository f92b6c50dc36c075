package internal

import (
	"context"
)

type ctxKey string

const ContextEmailKey ctxKey = "email"

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if email, ok := ctx.Value(ContextEmailKey).(string); ok {
		return email
	}
	return ""
}

func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextEmailKey, email)
}
