package scraper

import (
	"context"
	"errors"
	"time"

	"ttscraper/pkg/config"
	errs "ttscraper/pkg/errors"
	"ttscraper/pkg/logger"
	"ttscraper/pkg/posts"
	"ttscraper/pkg/ratelimit"
	"ttscraper/pkg/retry"
	"ttscraper/pkg/tiktok"
)

const (
	// StatusSuccess marks an outcome carrying posts
	StatusSuccess = "success"
	// StatusError marks an outcome carrying only a message
	StatusError = "error"
)

// Outcome is the terminal result of a fetch. It is always one of two
// shapes: success with posts, or error with a message. A fetch never
// succeeds with zero posts.
type Outcome struct {
	Status     string       `json:"status"`
	Result     []posts.Post `json:"result,omitempty"`
	TotalPosts int          `json:"totalPosts,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// Scraper orchestrates a full user fetch: username resolution, session
// bootstrap, and the sequential retrying pagination loop.
type Scraper struct {
	client  PostClient
	config  *config.Config
	limiter ratelimit.Limiter
	logger  logger.Logger
}

// New creates a scraper from configuration, wiring up the HTTP client,
// proxy transport and page pacing.
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	client, err := tiktok.NewClient(cfg.Fetch.RequestTimeout, cfg.Proxy.URL, cfg.TikTok.UserAgent, nil, log)
	if err != nil {
		return nil, err
	}

	return NewWithClient(cfg, client, log), nil
}

// NewWithClient creates a scraper around an existing client
func NewWithClient(cfg *config.Config, client PostClient, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewTokenBucket(cfg.RateLimit.RequestsPerMinute, time.Minute)
	}

	return &Scraper{
		client:  client,
		config:  cfg,
		limiter: limiter,
		logger:  log,
	}
}

// FetchUserPosts fetches a user's posts up to the configured limit. It
// always returns a terminal Outcome, never an error: every failure mode is
// folded into an error outcome with a caller-facing message.
func (s *Scraper) FetchUserPosts(ctx context.Context, username string) Outcome {
	username = tiktok.SanitizeUsername(username)

	s.logger.InfoWithFields("starting fetch", map[string]interface{}{
		"username":   username,
		"post_limit": s.config.Fetch.PostLimit,
	})

	secUID, err := retry.DoWithResult(func() (string, error) {
		return s.client.LookupUser(username)
	}, s.retryConfig(ctx, 0))
	if err != nil {
		return s.errorOutcome(err)
	}

	cookie := s.client.BootstrapCookie(username, s.config.TikTok.Cookies)

	collected, err := s.fetchAllPages(ctx, secUID, cookie)
	if err != nil {
		return s.errorOutcome(err)
	}

	if len(collected) == 0 {
		// An empty timeline is indistinguishable from a soft block: the
		// API answers 200 with no items in both cases. Report it as a
		// block so callers know to supply a cookie.
		s.logger.Warn("fetch completed with zero posts")
		return Outcome{Status: StatusError, Message: errs.MsgEmptyBlocked}
	}

	if limit := s.config.Fetch.PostLimit; limit > 0 && len(collected) > limit {
		collected = collected[:limit]
	}

	mapped := posts.MapAll(collected)

	s.logger.InfoWithFields("fetch completed", map[string]interface{}{
		"username": username,
		"posts":    len(mapped),
	})

	return Outcome{
		Status:     StatusSuccess,
		Result:     mapped,
		TotalPosts: len(mapped),
	}
}

// fetchAllPages walks the cursor pagination sequentially until the server
// reports no more posts or the post limit is reached.
func (s *Scraper) fetchAllPages(ctx context.Context, secUID, cookie string) ([]tiktok.RawPost, error) {
	var collected []tiktok.RawPost
	cursor := int64(0)
	pageNum := 1

	for {
		if limit := s.config.Fetch.PostLimit; limit > 0 && len(collected) >= limit {
			s.logger.DebugWithFields("post limit reached, stopping pagination", map[string]interface{}{
				"collected": len(collected),
				"limit":     limit,
			})
			break
		}

		count := tiktok.PageCount
		if pageNum == 1 {
			count = tiktok.FirstPageCount
		}

		s.limiter.Wait()

		page, err := retry.DoWithResult(func() (*tiktok.PageResult, error) {
			return s.client.FetchPage(secUID, cursor, count, cookie)
		}, s.retryConfig(ctx, pageNum))
		if err != nil {
			return nil, err
		}

		collected = append(collected, page.Items...)

		s.logger.DebugWithFields("page collected", map[string]interface{}{
			"page":     pageNum,
			"items":    len(page.Items),
			"total":    len(collected),
			"has_more": page.HasMore,
		})

		if !page.HasMore {
			cursor = 0
			break
		}

		cursor = page.Cursor
		pageNum++
	}

	return collected, nil
}

// retryConfig builds the per-page retry policy from configuration
func (s *Scraper) retryConfig(ctx context.Context, pageNum int) *retry.Config {
	return &retry.Config{
		MaxRetries: s.config.Retry.MaxRetries,
		KindLimit:  s.config.Retry.KindLimit,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  s.config.Retry.BaseDelay,
			MaxDelay:   s.config.Retry.MaxDelay,
			Multiplier: s.config.Retry.Multiplier,
		},
		Context: ctx,
		Logger:  s.logger,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.LogRetry(pageNum, attempt, delay.Milliseconds(), err.Error())
		},
	}
}

// errorOutcome folds any pagination failure into a terminal error outcome
func (s *Scraper) errorOutcome(err error) Outcome {
	message := err.Error()

	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	}

	s.logger.WithError(err).Error("fetch failed")

	return Outcome{Status: StatusError, Message: message}
}
