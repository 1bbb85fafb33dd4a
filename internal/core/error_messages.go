package core

// error_messages.go maps internal failures to client-safe messages.
//
// # Error Codes Reference
//
// Internal failures are never shown to clients verbatim. MapError turns the
// technical error into a short message plus a code that support staff can
// look up here and correlate with the server log (which always carries the
// original error and the request id).
//
// # Database Errors (DB001-DB099)
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Patterns: "connection reset", "broken pipe"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout", "context deadline exceeded"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock", "database is locked"
//
//	DB008 - Pool closed: Database is shutting down
//	        Patterns: "closed pool", "database is closed"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: The client went away
//	         Patterns: "context canceled"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unknown table: Dataset is not registered for export
//	         Patterns: "unknown table"
//
// # Default Error (ERR000)
//
//	ERR000 - Internal server error
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"strings"
)

// UserMessage provides user-friendly error information.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{pattern: "connection refused", msg: UserMessage{Message: "Unable to connect to database", Code: "DB004"}},
	{pattern: "connection reset", msg: UserMessage{Message: "Database connection was interrupted", Code: "DB005"}},
	{pattern: "broken pipe", msg: UserMessage{Message: "Database connection was interrupted", Code: "DB005"}},
	{pattern: "context deadline exceeded", msg: UserMessage{Message: "Operation timed out", Code: "DB006"}},
	{pattern: "timeout", msg: UserMessage{Message: "Operation timed out", Code: "DB006"}},
	{pattern: "deadlock", msg: UserMessage{Message: "Database was busy, please try again", Code: "DB007"}},
	{pattern: "database is locked", msg: UserMessage{Message: "Database was busy, please try again", Code: "DB007"}},
	{pattern: "closed pool", msg: UserMessage{Message: "Database is shutting down", Code: "DB008"}},
	{pattern: "database is closed", msg: UserMessage{Message: "Database is shutting down", Code: "DB008"}},
	{pattern: "context canceled", msg: UserMessage{Message: "Request was cancelled", Code: "REQ001"}},
	{pattern: "unknown table", msg: UserMessage{Message: "Dataset is not available for export", Code: "EXP001"}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "Internal server error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns the zero UserMessage for a nil error and ERR000 when no pattern
// matches.
//
// Example:
//
//	msg := MapError(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
//	// msg.Code == "DB004"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}
