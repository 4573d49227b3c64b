package tiktok

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	errs "ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
)

// Client talks to the TikTok web API. It owns the signed-request mechanics:
// fingerprint parameters, browser headers, the proxy transport and the
// per-request signature. One client may be shared by concurrent fetches.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	signer     Signer
	logger     logger.Logger
	userAgent  string
	deviceID   string
}

// NewClient creates a new TikTok API client. The proxy URL is resolved to an
// enumerated kind once, here; an empty or unrecognized URL means a direct
// connection.
func NewClient(timeout time.Duration, proxyURL, userAgent string, signer Signer, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	if signer == nil {
		signer = NewSigner()
	}

	transport, err := NewTransport(proxyURL)
	if err != nil {
		return nil, err
	}

	log.DebugWithFields("creating TikTok client", map[string]interface{}{
		"proxy_kind": ResolveProxyKind(proxyURL).String(),
		"timeout":    timeout,
	})

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		headers: map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "application/json, text/plain, */*",
			"Accept-Language": "en-US,en;q=0.9",
			"Accept-Encoding": "gzip, deflate, br",
			"Referer":         BaseURL + "/",
			"Sec-Fetch-Dest":  "empty",
			"Sec-Fetch-Mode":  "cors",
			"Sec-Fetch-Site":  "same-origin",
		},
		signer:    signer,
		logger:    log,
		userAgent: userAgent,
		deviceID:  generateDeviceID(),
	}, nil
}

// generateDeviceID produces the 19-digit device identifier the web client
// mints on first visit.
func generateDeviceID() string {
	min := int64(7000000000000000000)
	return strconv.FormatInt(min+rand.Int63n(999999999999999999), 10)
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// UserAgent returns the client descriptor used for signing
func (c *Client) UserAgent() string {
	return c.userAgent
}

// doRequest performs a GET with the configured browser fingerprint headers
func (c *Client) doRequest(rawURL, cookieHeader string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      rawURL,
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// signURL obtains the signature for the canonical URL and appends it as the
// trailing query parameter. The signature is computed before appending, so
// order matters here.
func (c *Client) signURL(rawURL string) (string, error) {
	signature, err := c.signer.Sign(rawURL, c.userAgent)
	if err != nil {
		return "", &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to sign request: %v", err),
		}
	}
	return rawURL + "&X-Bogus=" + signature, nil
}

// LookupUser resolves a username to the opaque secUid the post-list endpoint
// requires. A missing user surfaces as a NotFound error with the
// caller-facing message.
func (c *Client) LookupUser(username string) (string, error) {
	signedURL, err := c.signURL(BuildUserDetailURL(c.userAgent, c.deviceID, username))
	if err != nil {
		return "", err
	}

	resp, err := c.doRequest(signedURL, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return "", &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: errs.MsgUserNotFound,
			Code:    resp.StatusCode,
		}
	}
	if err := classifyStatus(resp.StatusCode); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}
	if len(body) == 0 {
		return "", &errs.Error{
			Type:    errs.ErrorTypeEmpty,
			Message: "empty user detail response",
			Code:    resp.StatusCode,
		}
	}

	var detail UserDetailResponse
	if err := json.Unmarshal(body, &detail); err != nil {
		return "", &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to parse user detail: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if detail.StatusCode == statusUserNotFound || detail.UserInfo.User.SecUID == "" {
		return "", &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: errs.MsgUserNotFound,
			Code:    resp.StatusCode,
		}
	}

	c.logger.DebugWithFields("resolved user", map[string]interface{}{
		"username": username,
		"user_id":  detail.UserInfo.User.ID,
	})

	return detail.UserInfo.User.SecUID, nil
}

// FetchPage fetches one page of a user's post list and classifies failures
// for the retry layer. The session token, when present in the cookie, is
// mirrored into the query string because the API treats it specially there.
func (c *Client) FetchPage(secUID string, cursor int64, count int, cookieHeader string) (*PageResult, error) {
	rawURL := BuildItemListURL(c.userAgent, c.deviceID, secUID, cursor, count, ExtractSessionToken(cookieHeader))
	signedURL, err := c.signURL(rawURL)
	if err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetching post page", map[string]interface{}{
		"cursor": cursor,
		"count":  count,
	})

	resp, err := c.doRequest(signedURL, cookieHeader)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: errs.MsgUserNotFound,
			Code:    resp.StatusCode,
		}
	}
	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to read response body: %v", err),
			Code:    resp.StatusCode,
		}
	}
	if len(body) == 0 {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeEmpty,
			Message: "empty post list response",
			Code:    resp.StatusCode,
		}
	}

	var list ItemListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("failed to parse post list: %v", err),
			Code:    resp.StatusCode,
		}
	}

	if list.StatusCode == statusUserNotFound {
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNotFound,
			Message: errs.MsgUserNotFound,
			Code:    resp.StatusCode,
		}
	}

	nextCursor := int64(0)
	if list.Cursor != "" {
		nextCursor, err = strconv.ParseInt(list.Cursor, 10, 64)
		if err != nil {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeTransient,
				Message: fmt.Sprintf("unparseable cursor %q", list.Cursor),
				Code:    resp.StatusCode,
			}
		}
	}

	c.logger.DebugWithFields("post page fetched", map[string]interface{}{
		"items":    len(list.ItemList),
		"has_more": list.HasMore,
		"cursor":   nextCursor,
	})

	return &PageResult{
		Items:   list.ItemList,
		HasMore: list.HasMore,
		Cursor:  nextCursor,
	}, nil
}

// classifyStatus maps remaining HTTP status codes onto the failure taxonomy
func classifyStatus(statusCode int) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &errs.Error{
			Type:    errs.ErrorTypeRateLimit,
			Message: "rate limit exceeded",
			Code:    statusCode,
		}
	case statusCode >= 400:
		return &errs.Error{
			Type:    errs.ErrorTypeTransient,
			Message: fmt.Sprintf("unexpected status code: %d", statusCode),
			Code:    statusCode,
		}
	default:
		return nil
	}
}
