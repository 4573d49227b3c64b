package logger

// LogRequest logs a completed HTTP request at the appropriate level for its status
func LogRequest(method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 500:
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		GetLogger().WarnWithFields("HTTP request client error", fields)
	default:
		GetLogger().DebugWithFields("HTTP request completed", fields)
	}
}

// LogRetry logs a retry attempt for a page fetch
func LogRetry(page, attempt int, delayMs int64, reason string) {
	GetLogger().WarnWithFields("retrying page fetch", map[string]interface{}{
		"page":     page,
		"attempt":  attempt,
		"delay_ms": delayMs,
		"reason":   reason,
	})
}
