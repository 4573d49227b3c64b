package tiktok

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	// BaseURL is the base URL for the TikTok web site and API
	BaseURL = "https://www.tiktok.com"

	// ItemListEndpoint is the endpoint for a user's paginated post list
	ItemListEndpoint = "/api/post/item_list/"

	// UserDetailEndpoint is the endpoint for resolving a username to its secUid
	UserDetailEndpoint = "/api/user/detail/"

	// FirstPageCount is the page size for the first request; the API treats
	// the first page specially and this is the size the web client asks for.
	FirstPageCount = 35

	// PageCount is the page size for every request after the first
	PageCount = 30

	// statusUserNotFound is the API status code carried in a response body
	// when the requested user does not exist
	statusUserNotFound = 10221
)

// msTokenPattern extracts the session token TikTok expects mirrored into the
// query string when it is present in the cookie.
var msTokenPattern = regexp.MustCompile(`msToken=([^;]+)`)

// ExtractSessionToken pulls the msToken value out of a cookie header,
// returning an empty string when the cookie does not carry one.
func ExtractSessionToken(cookieHeader string) string {
	m := msTokenPattern.FindStringSubmatch(cookieHeader)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// fingerprintParams returns the fixed client-fingerprint fields every API
// request carries. The values mirror what the TikTok web client sends for a
// desktop Chrome session; the API rejects requests without them.
func fingerprintParams(userAgent, deviceID string) url.Values {
	params := url.Values{}
	params.Set("aid", "1988")
	params.Set("app_language", "en")
	params.Set("app_name", "tiktok_web")
	params.Set("browser_language", "en-US")
	params.Set("browser_name", "Mozilla")
	params.Set("browser_online", "true")
	params.Set("browser_platform", "Win32")
	params.Set("browser_version", userAgent)
	params.Set("channel", "tiktok_web")
	params.Set("cookie_enabled", "true")
	params.Set("device_id", deviceID)
	params.Set("device_platform", "web_pc")
	params.Set("focus_state", "true")
	params.Set("from_page", "user")
	params.Set("history_len", "2")
	params.Set("is_fullscreen", "false")
	params.Set("is_page_visible", "true")
	params.Set("language", "en")
	params.Set("os", "windows")
	params.Set("priority_region", "US")
	params.Set("referer", "")
	params.Set("region", "US")
	params.Set("screen_height", "1080")
	params.Set("screen_width", "1920")
	params.Set("tz_name", "America/New_York")
	params.Set("webcast_language", "en")
	return params
}

// BuildItemListURL constructs the canonical post-list URL for one page.
// The signature parameter is NOT included; it must be computed over this
// exact URL and appended afterwards.
func BuildItemListURL(userAgent, deviceID, secUID string, cursor int64, count int, sessionToken string) string {
	params := fingerprintParams(userAgent, deviceID)
	params.Set("secUid", secUID)
	params.Set("cursor", strconv.FormatInt(cursor, 10))
	params.Set("count", strconv.Itoa(count))
	if sessionToken != "" {
		params.Set("msToken", sessionToken)
	}

	return fmt.Sprintf("%s%s?%s", BaseURL, ItemListEndpoint, params.Encode())
}

// BuildUserDetailURL constructs the URL for resolving a username
func BuildUserDetailURL(userAgent, deviceID, username string) string {
	params := fingerprintParams(userAgent, deviceID)
	params.Set("uniqueId", username)

	return fmt.Sprintf("%s%s?%s", BaseURL, UserDetailEndpoint, params.Encode())
}

// ProfileURL returns the public profile page used by the cookie bootstrap probe
func ProfileURL(username string) string {
	return fmt.Sprintf("%s/@%s", BaseURL, username)
}

// SanitizeUsername strips the @ prefix and trailing junk from a username
func SanitizeUsername(username string) string {
	username = strings.TrimSpace(username)
	username = strings.TrimPrefix(username, "@")
	username = strings.TrimRight(username, "/ ")
	return username
}
