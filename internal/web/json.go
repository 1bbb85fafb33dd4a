package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// maxBodyBytes caps request bodies; records are a few hundred bytes.
const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dest, rejecting unknown fields,
// trailing data and bodies over maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}

	if decoder.More() {
		return errors.New("unexpected data after JSON payload")
	}
	return nil
}

// writeJSON serializes v as JSON with the provided status code.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeError writes a {"error": message} response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// methodNotAllowed answers 405 and advertises the supported methods.
func methodNotAllowed(methods ...string) http.HandlerFunc {
	allow := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// invalidBody wraps a decoding failure for respondError.
func invalidBody(err error) error {
	return &bodyError{err: err}
}

type bodyError struct{ err error }

func (e *bodyError) Error() string { return fmt.Sprintf("invalid request body: %v", e.err) }

func (e *bodyError) Unwrap() error { return e.err }
