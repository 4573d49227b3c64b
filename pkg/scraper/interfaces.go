package scraper

import (
	"ttscraper/pkg/tiktok"
)

// PostClient is the API surface the fetch loop needs. *tiktok.Client
// satisfies it; tests substitute scripted implementations.
type PostClient interface {
	// LookupUser resolves a username to the secUid used by the post list
	LookupUser(username string) (string, error)

	// BootstrapCookie returns the Cookie header for page fetches. Supplied
	// cookies are used verbatim; otherwise a guest session is probed.
	BootstrapCookie(username string, supplied []string) string

	// FetchPage fetches one page of the user's post list
	FetchPage(secUID string, cursor int64, count int, cookie string) (*tiktok.PageResult, error)
}
