package tiktok

import (
	"strings"
)

// BootstrapCookie produces the Cookie header used for every page fetch.
//
// Supplied cookies win unconditionally: they are joined with "; " exactly as
// given and no network traffic happens. Only when none are supplied does the
// client probe the user's public profile page once, harvesting whatever
// Set-Cookie values the server hands an anonymous visitor. The probe is best
// effort; any failure degrades to an empty cookie rather than aborting the
// fetch, because the post-list endpoint often works anonymously.
func (c *Client) BootstrapCookie(username string, supplied []string) string {
	if len(supplied) > 0 {
		return strings.Join(supplied, "; ")
	}

	resp, err := c.doRequest(ProfileURL(username), "")
	if err != nil {
		c.logger.WithError(err).Debug("cookie probe failed, continuing without cookies")
		return ""
	}
	defer resp.Body.Close()

	pairs := make([]string, 0, len(resp.Header.Values("Set-Cookie")))
	for _, raw := range resp.Header.Values("Set-Cookie") {
		// Keep only the leading name=value pair; attributes like Path and
		// Expires do not belong in a Cookie header.
		pair := strings.TrimSpace(strings.SplitN(raw, ";", 2)[0])
		if pair != "" && strings.Contains(pair, "=") {
			pairs = append(pairs, pair)
		}
	}

	if len(pairs) == 0 {
		c.logger.Debug("cookie probe returned no cookies")
		return ""
	}

	c.logger.DebugWithFields("bootstrapped session cookies", map[string]interface{}{
		"count":  len(pairs),
		"status": resp.StatusCode,
	})

	return strings.Join(pairs, "; ")
}
