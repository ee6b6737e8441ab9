// Package logx carries the session logger on the context.
package logx

import (
	"context"

	"pkt.systems/pslog"
)

type contextKey int

const userKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithUser annotates the logger with the username if present.
func WithUser(ctx context.Context, username string) pslog.Logger {
	log := pslog.Ctx(ctx)
	if username != "" {
		if current, ok := ctx.Value(userKey).(string); ok && current == username {
			return log
		}
		log = log.With("user", username)
	}
	return log
}

// ContextWithUser stores the user marker on the context for log
// de-duplication.
func ContextWithUser(ctx context.Context, username string) context.Context {
	if ctx == nil || username == "" {
		return ctx
	}
	return context.WithValue(ctx, userKey, username)
}

// ContextWithUserLogger attaches the logger and user marker to the context.
func ContextWithUserLogger(ctx context.Context, log pslog.Logger, username string) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithUser(ctx, username)
}
