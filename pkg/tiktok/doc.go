// Package tiktok implements the TikTok web API client.
//
// It covers the three wire-level concerns the fetch engine needs: resolving
// a username to its secUid, bootstrapping a session cookie, and fetching
// signed pages of a user's post list. Failures are classified into the
// typed errors in pkg/errors so the retry layer can tell a missing user
// apart from a blocked or throttled request.
//
// Requests carry a fixed desktop-browser fingerprint (query parameters and
// headers) and an X-Bogus signature computed over the exact URL being sent.
// Outbound traffic optionally goes through an HTTP CONNECT or SOCKS5 proxy,
// resolved once from the configured proxy URL.
package tiktok
