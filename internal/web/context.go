package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/iatacodes/internal/core"
	mw "github.com/JonMunkholm/iatacodes/internal/web/middleware"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for audit
// logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMetadata(ctx, core.RequestMetadata{
		IPAddress: mw.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}

// requestMetadata attaches request metadata to every request context.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithRequestMetadata(r.Context(), r)))
	})
}
