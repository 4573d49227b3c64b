package errors

import "fmt"

// ErrorType classifies a page-fetch failure for retry policy decisions
type ErrorType string

const (
	// ErrorTypeNotFound is fatal on the first occurrence: the target user
	// does not exist and retrying cannot change that.
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeEmpty means the API answered with an empty or missing body,
	// which TikTok uses as a soft block when a request looks automated.
	ErrorTypeEmpty ErrorType = "empty"

	// ErrorTypeRateLimit corresponds to HTTP 429.
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// ErrorTypeTransient covers every other network or HTTP failure.
	ErrorTypeTransient ErrorType = "transient"
)

// Caller-facing messages for terminal failures. Each one names a remedy.
const (
	MsgUserNotFound = "User not found!"
	MsgEmptyBlocked = "TikTok returned empty responses. The request was likely blocked by anti-bot protection - supply a browser cookie or use a proxy and try again."
	MsgRateLimited  = "TikTok is rate limiting this client. Wait a while before retrying, or supply a browser cookie."
)

// Error represents a classified TikTok API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("tiktok %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeEmpty, ErrorTypeRateLimit, ErrorTypeTransient:
		return true
	case ErrorTypeNotFound:
		return false
	default:
		return false
	}
}

// HintFor returns the caller-facing message for a failure kind that has
// escalated to a terminal error, or an empty string when no canned hint exists.
func HintFor(errorType ErrorType) string {
	switch errorType {
	case ErrorTypeNotFound:
		return MsgUserNotFound
	case ErrorTypeEmpty:
		return MsgEmptyBlocked
	case ErrorTypeRateLimit:
		return MsgRateLimited
	default:
		return ""
	}
}
