package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttscraper/pkg/config"
	errs "ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/tiktok"
)

type fetchCall struct {
	secUID string
	cursor int64
	count  int
	cookie string
}

// mockClient scripts the three client operations and records page fetches
type mockClient struct {
	lookupFn    func(username string) (string, error)
	bootstrapFn func(username string, supplied []string) string
	fetchFn     func(call fetchCall) (*tiktok.PageResult, error)

	lookupCalls    int
	bootstrapCalls int
	fetchCalls     []fetchCall
}

func (m *mockClient) LookupUser(username string) (string, error) {
	m.lookupCalls++
	if m.lookupFn != nil {
		return m.lookupFn(username)
	}
	return "SEC-" + username, nil
}

func (m *mockClient) BootstrapCookie(username string, supplied []string) string {
	m.bootstrapCalls++
	if m.bootstrapFn != nil {
		return m.bootstrapFn(username, supplied)
	}
	if len(supplied) > 0 {
		return supplied[0]
	}
	return ""
}

func (m *mockClient) FetchPage(secUID string, cursor int64, count int, cookie string) (*tiktok.PageResult, error) {
	call := fetchCall{secUID: secUID, cursor: cursor, count: count, cookie: cookie}
	m.fetchCalls = append(m.fetchCalls, call)
	return m.fetchFn(call)
}

func makePosts(n int, prefix string) []tiktok.RawPost {
	items := make([]tiktok.RawPost, n)
	for i := range items {
		items[i] = tiktok.RawPost{
			ID:    fmt.Sprintf("%s-%d", prefix, i),
			Desc:  "post",
			Video: &tiktok.Video{ID: fmt.Sprintf("v-%s-%d", prefix, i)},
		}
	}
	return items
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Retry.BaseDelay = time.Millisecond
	cfg.Retry.MaxDelay = 2 * time.Millisecond
	cfg.RateLimit.RequestsPerMinute = 0
	return cfg
}

func newTestScraper(cfg *config.Config, client PostClient) *Scraper {
	return NewWithClient(cfg, client, logger.NewTestLogger())
}

func TestFetchUserPostsSinglePage(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: makePosts(12, "p"), HasMore: false}, nil
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 12, outcome.TotalPosts)
	assert.Len(t, outcome.Result, 12)
	assert.Empty(t, outcome.Message)

	require.Len(t, client.fetchCalls, 1)
	assert.Equal(t, "SEC-alice", client.fetchCalls[0].secUID)
	assert.Equal(t, int64(0), client.fetchCalls[0].cursor)
	assert.Equal(t, tiktok.FirstPageCount, client.fetchCalls[0].count)
}

func TestFetchUserPostsPagination(t *testing.T) {
	pages := []*tiktok.PageResult{
		{Items: makePosts(35, "a"), HasMore: true, Cursor: 1111},
		{Items: makePosts(30, "b"), HasMore: true, Cursor: 2222},
		{Items: makePosts(8, "c"), HasMore: false},
	}

	client := &mockClient{}
	client.fetchFn = func(call fetchCall) (*tiktok.PageResult, error) {
		return pages[len(client.fetchCalls)-1], nil
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 73, outcome.TotalPosts)

	require.Len(t, client.fetchCalls, 3)
	assert.Equal(t, tiktok.FirstPageCount, client.fetchCalls[0].count)
	assert.Equal(t, tiktok.PageCount, client.fetchCalls[1].count)
	assert.Equal(t, tiktok.PageCount, client.fetchCalls[2].count)
	assert.Equal(t, int64(0), client.fetchCalls[0].cursor)
	assert.Equal(t, int64(1111), client.fetchCalls[1].cursor)
	assert.Equal(t, int64(2222), client.fetchCalls[2].cursor)
}

func TestFetchUserPostsTrimsToLimit(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: makePosts(35, "p"), HasMore: true, Cursor: 1111}, nil
		},
	}

	cfg := testConfig()
	cfg.Fetch.PostLimit = 10

	s := newTestScraper(cfg, client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 10, outcome.TotalPosts)
	assert.Len(t, outcome.Result, 10)

	// limit was already satisfied by the first page, so no second fetch
	assert.Len(t, client.fetchCalls, 1)
}

func TestFetchUserPostsLimitStopsBeforeNextFetch(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: makePosts(35, "p"), HasMore: true, Cursor: 1111}, nil
		},
	}

	cfg := testConfig()
	cfg.Fetch.PostLimit = 35

	s := newTestScraper(cfg, client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 35, outcome.TotalPosts)
	assert.Len(t, client.fetchCalls, 1)
}

func TestFetchUserPostsUserNotFound(t *testing.T) {
	client := &mockClient{
		lookupFn: func(username string) (string, error) {
			return "", &errs.Error{Type: errs.ErrorTypeNotFound, Message: errs.MsgUserNotFound, Code: 400}
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "ghost")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, "User not found!", outcome.Message)
	assert.Empty(t, outcome.Result)

	// not found is terminal on first sight, no retries
	assert.Equal(t, 1, client.lookupCalls)
	assert.Empty(t, client.fetchCalls)
}

func TestFetchUserPostsEmptyResponsesEscalate(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return nil, &errs.Error{Type: errs.ErrorTypeEmpty, Message: "empty post list response"}
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, errs.MsgEmptyBlocked, outcome.Message)
	assert.Len(t, client.fetchCalls, 3)
}

func TestFetchUserPostsRateLimitEscalates(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return nil, &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "rate limit exceeded", Code: 429}
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, errs.MsgRateLimited, outcome.Message)
	assert.Len(t, client.fetchCalls, 3)
}

func TestFetchUserPostsTransientUsesFullBudget(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return nil, &errs.Error{Type: errs.ErrorTypeTransient, Message: "network error"}
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Len(t, client.fetchCalls, 6)
}

func TestFetchUserPostsTransientThenRecovers(t *testing.T) {
	client := &mockClient{}
	client.fetchFn = func(call fetchCall) (*tiktok.PageResult, error) {
		if len(client.fetchCalls) <= 3 {
			return nil, &errs.Error{Type: errs.ErrorTypeTransient, Message: "network error"}
		}
		return &tiktok.PageResult{Items: makePosts(5, "p"), HasMore: false}, nil
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 5, outcome.TotalPosts)
	assert.Len(t, client.fetchCalls, 4)
}

func TestFetchUserPostsZeroPostsIsError(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: nil, HasMore: false}, nil
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, errs.MsgEmptyBlocked, outcome.Message)
}

func TestFetchUserPostsSuppliedCookieFlowsToPages(t *testing.T) {
	client := &mockClient{
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: makePosts(1, "p"), HasMore: false}, nil
		},
	}

	cfg := testConfig()
	cfg.TikTok.Cookies = []string{"sessionid=abc; msToken=tok"}

	s := newTestScraper(cfg, client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 1, client.bootstrapCalls)
	require.Len(t, client.fetchCalls, 1)
	assert.Equal(t, "sessionid=abc; msToken=tok", client.fetchCalls[0].cookie)
}

func TestFetchUserPostsSanitizesUsername(t *testing.T) {
	var lookedUp string
	client := &mockClient{
		lookupFn: func(username string) (string, error) {
			lookedUp = username
			return "SEC-alice", nil
		},
		fetchFn: func(call fetchCall) (*tiktok.PageResult, error) {
			return &tiktok.PageResult{Items: makePosts(1, "p"), HasMore: false}, nil
		},
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "@alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, "alice", lookedUp)
}

func TestFetchUserPostsCursorResetOnLastPage(t *testing.T) {
	client := &mockClient{}
	client.fetchFn = func(call fetchCall) (*tiktok.PageResult, error) {
		if len(client.fetchCalls) == 1 {
			return &tiktok.PageResult{Items: makePosts(35, "a"), HasMore: true, Cursor: 9999}, nil
		}
		// server signals the end with hasMore=false and echoes a cursor
		// that must not leak into further requests
		return &tiktok.PageResult{Items: makePosts(2, "b"), HasMore: false, Cursor: 12345}, nil
	}

	s := newTestScraper(testConfig(), client)
	outcome := s.FetchUserPosts(context.Background(), "alice")

	assert.Equal(t, StatusSuccess, outcome.Status)
	assert.Equal(t, 37, outcome.TotalPosts)
	assert.Len(t, client.fetchCalls, 2)
}
