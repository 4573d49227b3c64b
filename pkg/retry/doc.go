// Package retry provides the bounded backoff loop that wraps TikTok page
// fetches, turning classified failures into either another attempt or a
// terminal error.
//
// Policy:
//   - Up to 5 retries beyond the first attempt (6 total)
//   - Exponential backoff: 2s base, doubling, capped at 10s, no jitter
//   - NotFound failures bail immediately, no backoff
//   - Empty and rate-limit failures escalate to a terminal error with a
//     caller-facing hint after their 3rd cumulative occurrence, even
//     though the general budget would allow more attempts
//   - Transient failures consume the full retry budget
//
// Usage:
//
//	page, err := retry.DoWithResult(func() (*tiktok.PageResult, error) {
//		return client.FetchPage(secUID, cursor, count, cookie)
//	}, retry.DefaultConfig())
//
// Every retry is observable through Config.OnRetry and the configured
// logger; the caller only sees the final success or terminal error.
package retry
