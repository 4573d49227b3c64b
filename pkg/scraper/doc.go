// Package scraper orchestrates the fetch of a TikTok user's posts.
//
// A fetch resolves the username, bootstraps a session cookie, then walks
// the post list one page at a time, strictly sequentially, trusting the
// cursor the server returns. Each page request runs under the retry policy
// in pkg/retry, and the whole walk is paced by pkg/ratelimit.
//
// FetchUserPosts always produces a terminal Outcome: success with the
// collected posts, or error with a caller-facing message. Partial results
// from a walk that later fails are discarded.
package scraper
