package dashboard

import "context"

type viewerContextKey struct{}

// ContextWithViewer stores the viewer on the provided context.
func ContextWithViewer(ctx context.Context, viewer ViewerContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, viewerContextKey{}, viewer)
}

// ViewerFromContext extracts the viewer from the context, if present.
func ViewerFromContext(ctx context.Context) ViewerContext {
	if ctx == nil {
		return ViewerContext{}
	}
	if viewer, ok := ctx.Value(viewerContextKey{}).(ViewerContext); ok {
		return viewer
	}
	return ViewerContext{}
}
