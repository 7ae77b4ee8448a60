package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/azure/mentions-sentiment-report/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the X (Twitter) API v2 host
	DefaultBaseURL = "https://api.x.com"

	// DefaultMaxRetries is the number of attempts made when none is configured
	DefaultMaxRetries = 3

	searchPath = "/2/tweets/search/recent"
	maxResults = "100"

	rateLimitMargin    = 10 * time.Second
	rateLimitMinWait   = 60 * time.Second
	rateLimitNoHeader  = 900 * time.Second
	transportErrorWait = 30 * time.Second
)

var (
	// ErrUnexpectedStatus is returned for any non-200, non-429 response
	ErrUnexpectedStatus = errors.New("unexpected status from search API")

	// ErrRetriesExhausted is returned when every attempt was rate limited or failed in transport
	ErrRetriesExhausted = errors.New("search API retries exhausted")
)

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// TwitterSource implements the X/Twitter recent search source
type TwitterSource struct {
	bearerToken string
	baseURL     string
	client      *resty.Client
	sleep       Sleeper
	now         func() time.Time
}

// SearchResponse is the decoded body of a recent search call
type SearchResponse struct {
	Data []Tweet `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

// Tweet is a single post in a search response
type Tweet struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Text      string `json:"text"`
}

// Option customizes a TwitterSource
type Option func(*TwitterSource)

// WithBaseURL points the source at another API host
func WithBaseURL(baseURL string) Option {
	return func(t *TwitterSource) {
		if baseURL != "" {
			t.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithSleeper replaces the blocking sleep between attempts
func WithSleeper(sleep Sleeper) Option {
	return func(t *TwitterSource) { t.sleep = sleep }
}

// WithClock replaces the clock used to compute rate-limit waits
func WithClock(now func() time.Time) Option {
	return func(t *TwitterSource) { t.now = now }
}

// WithTransport replaces the HTTP transport of the underlying client
func WithTransport(transport http.RoundTripper) Option {
	return func(t *TwitterSource) { t.client.SetTransport(transport) }
}

// NewTwitterSource creates a new Twitter source
func NewTwitterSource(bearerToken string, opts ...Option) *TwitterSource {
	t := &TwitterSource{
		bearerToken: bearerToken,
		baseURL:     DefaultBaseURL,
		client: resty.New().
			SetHeader("User-Agent", "Mentions-Sentiment-Report/1.0"),
		sleep: sleepContext,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *TwitterSource) GetName() string {
	return "twitter"
}

func (t *TwitterSource) IsEnabled() bool {
	return t.bearerToken != ""
}

// FetchMentions runs one search and converts the returned page to mentions
func (t *TwitterSource) FetchMentions(ctx context.Context, query string, maxRetries int) ([]models.Mention, error) {
	resp, err := t.Search(ctx, query, maxRetries)
	if err != nil {
		return nil, err
	}

	mentions := make([]models.Mention, 0, len(resp.Data))
	for _, tweet := range resp.Data {
		mentions = append(mentions, models.Mention{
			ID:        tweet.ID,
			CreatedAt: tweet.CreatedAt,
			Text:      tweet.Text,
		})
	}

	return mentions, nil
}

// Search performs a single-page recent search. A 429 or a transport error is
// retried up to maxRetries attempts in total; any other non-200 status aborts at once.
func (t *TwitterSource) Search(ctx context.Context, query string, maxRetries int) (*SearchResponse, error) {
	machine := NewRetryMachine(maxRetries)

	var (
		result  *SearchResponse
		lastErr error
	)

	for {
		switch machine.State() {
		case StateAttempting:
			attempt := machine.Attempts() + 1
			resp, outcome, delay, err := t.attempt(ctx, query, attempt, machine.MaxAttempts())
			result, lastErr = resp, err
			machine.Record(outcome, delay)

		case StateBackoff:
			logrus.Infof("Waiting %v before next search attempt", machine.Delay())
			if err := t.sleep(ctx, machine.Delay()); err != nil {
				return nil, err
			}
			machine.Resume()

		case StateSucceeded:
			return result, nil

		case StateAborted:
			return nil, lastErr

		case StateExhausted:
			logrus.Errorf("Search API max retries (%d) exceeded for query '%s'", machine.MaxAttempts(), query)
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, machine.Attempts(), lastErr)
		}
	}
}

func (t *TwitterSource) attempt(ctx context.Context, query string, attempt, maxAttempts int) (*SearchResponse, Outcome, time.Duration, error) {
	logrus.Debugf("Search API request %d/%d for query '%s'", attempt, maxAttempts, query)

	resp, err := t.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+t.bearerToken).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  maxResults,
			"tweet.fields": "created_at,text",
		}).
		Get(t.baseURL + searchPath)

	if err != nil {
		logrus.Warnf("Search API request failed: %v", err)
		return nil, OutcomeTransportError, transportErrorWait, fmt.Errorf("search request failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var searchResp SearchResponse
		if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
			logrus.Warnf("Failed to parse search response: %v", err)
			return nil, OutcomeTransportError, transportErrorWait, fmt.Errorf("failed to parse search response: %w", err)
		}
		logrus.Infof("Search API returned %d mentions for query '%s'", len(searchResp.Data), query)
		return &searchResp, OutcomeSuccess, 0, nil

	case http.StatusTooManyRequests:
		logrus.Warnf("Search API rate limit hit. Attempt %d/%d", attempt, maxAttempts)
		wait := rateLimitDelay(resp.Header().Get("x-rate-limit-reset"), t.now())
		return nil, OutcomeRateLimited, wait, fmt.Errorf("search API rate limited (status %d)", resp.StatusCode())

	default:
		logrus.Errorf("Search API error: status %d, body: %s", resp.StatusCode(), string(resp.Body()))
		return nil, OutcomeFatal, 0, fmt.Errorf("%w: status %d: %s", ErrUnexpectedStatus, resp.StatusCode(), string(resp.Body()))
	}
}

// rateLimitDelay waits until the advertised reset plus a margin, never less than a minute.
// Without a reset header the full 15-minute window is assumed; a malformed one gets
// the transport error wait.
func rateLimitDelay(resetHeader string, now time.Time) time.Duration {
	if resetHeader == "" {
		return rateLimitNoHeader
	}

	reset, err := strconv.ParseInt(strings.TrimSpace(resetHeader), 10, 64)
	if err != nil {
		logrus.Warnf("Unparseable rate limit reset header %q", resetHeader)
		return transportErrorWait
	}

	wait := time.Unix(reset, 0).Sub(now) + rateLimitMargin
	if wait < rateLimitMinWait {
		return rateLimitMinWait
	}
	return wait
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
