package commands

import (
	"context"
)

type globalsKey struct{}

type globals struct {
	config Config
}

func withGlobals(ctx context.Context, value *globals) context.Context {
	return context.WithValue(ctx, globalsKey{}, value)
}

func getGlobals(ctx context.Context) *globals {
	return ctx.Value(globalsKey{}).(*globals)
}
