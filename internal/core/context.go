package core

import "context"

type contextKey string

const ctxKeyRequestMetadata contextKey = "request_metadata"

// RequestMetadata identifies the client behind a mutation for the audit log.
type RequestMetadata struct {
	IPAddress string
	UserAgent string
}

// ContextWithRequestMetadata attaches client metadata to ctx.
func ContextWithRequestMetadata(ctx context.Context, md RequestMetadata) context.Context {
	return context.WithValue(ctx, ctxKeyRequestMetadata, md)
}

// RequestMetadataFromContext returns the metadata stored in ctx, or the zero
// value when none was attached.
func RequestMetadataFromContext(ctx context.Context) RequestMetadata {
	if md, ok := ctx.Value(ctxKeyRequestMetadata).(RequestMetadata); ok {
		return md
	}
	return RequestMetadata{}
}
