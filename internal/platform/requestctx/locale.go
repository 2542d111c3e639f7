// Package requestctx carries per-request values resolved by middleware.
package requestctx

import (
	"context"

	"golang.org/x/text/language"
)

// localeContextKey is the context key for the resolved UI language.
type localeContextKey struct{}

// WithLocale stores the resolved language tag in context.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey{}, tag)
}

// LocaleFromContext returns the stored language tag, if any.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Und, false
	}
	tag, ok := ctx.Value(localeContextKey{}).(language.Tag)
	return tag, ok
}
