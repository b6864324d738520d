// Package requestctx carries per-request values through context.Context so
// domain code can tag its logs without depending on the HTTP layer.
package requestctx

import (
	"context"

	"github.com/uniedit/payrecon/internal/model"
	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	actorKey
)

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(requestIDKey).(string)
	return s
}

// WithActor returns a copy of ctx carrying the authenticated actor.
func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the actor stored in ctx, or nil.
func Actor(ctx context.Context) *model.Actor {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(actorKey).(*model.Actor)
	return a
}

// LogFields returns the request id and actor in ctx as log fields.
func LogFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if a := Actor(ctx); a != nil {
		fields = append(fields, zap.String("actor_id", a.UserID.String()), zap.String("actor_role", a.Role))
	}
	return fields
}
