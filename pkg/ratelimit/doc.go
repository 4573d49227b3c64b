// Package ratelimit paces requests against the TikTok web API.
//
// The retry layer already backs off when TikTok pushes back with 429s or
// empty bodies; this package keeps the happy path polite in the first
// place by bounding how fast the pagination loop issues page requests.
//
// Usage:
//
//	// 60 page requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	limiter.Wait()
//	// issue the page request
package ratelimit
