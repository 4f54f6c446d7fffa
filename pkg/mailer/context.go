package mailer

import "context"

type rendererKey struct{}

// WithRenderer binds a template renderer to ctx.
// NewTemplatedMessage resolves templates through the renderer bound here.
func WithRenderer(ctx context.Context, r Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// RendererFromContext returns the renderer bound to ctx.
// It fails with ErrNoAppContext if none is bound.
func RendererFromContext(ctx context.Context) (Renderer, error) {
	if ctx == nil {
		return nil, ErrNoAppContext
	}
	r, ok := ctx.Value(rendererKey{}).(Renderer)
	if !ok || r == nil {
		return nil, ErrNoAppContext
	}
	return r, nil
}
