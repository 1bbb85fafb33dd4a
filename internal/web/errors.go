package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - classified with core.KindOf to pick the status code
//   - logged with the request ID and full technical detail
//   - returned to the client as {"error": message}, where internal errors
//     carry only the sanitized message from core.PublicMessage

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/iatacodes/internal/core"
	"github.com/JonMunkholm/iatacodes/internal/logging"
)

// statusFor maps an error to its HTTP status. Uniqueness conflicts are
// client errors and share 400 with validation failures.
func statusFor(err error) int {
	var be *bodyError
	if errors.As(err, &be) {
		return http.StatusBadRequest
	}
	switch core.KindOf(err) {
	case core.KindInvalidArgument, core.KindConflict:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the sanitized JSON error response.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := core.PublicMessage(err)
	var be *bodyError
	if errors.As(err, &be) {
		message = be.Error()
	}

	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"kind", core.KindOf(err).String(),
		"code", core.MapError(err).Code,
		"error", err.Error(),
	)

	writeError(w, status, message)
}
