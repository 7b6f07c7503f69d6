package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// throttleTransport spaces out requests to at most a fixed rate.
type throttleTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("failed to wait for request slot: %w", err)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient builds the HTTP client shared by the REST and GraphQL gateways.
// Requests pass through an optional throttle (requestsPerSecond > 0), then the
// secondary rate limit waiter, then the token transport. An empty token yields
// unauthenticated requests.
func NewHTTPClient(token string, requestsPerSecond float64, logger *zap.Logger) (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if requestsPerSecond > 0 {
		base = &throttleTransport{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		}
	}

	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(base,
		github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil),
		github_ratelimit.WithLimitDetectedCallback(func(cbContext *github_ratelimit.CallbackContext) {
			if cbContext.SleepUntil != nil {
				logger.Warn("secondary rate limit hit, sleeping", zap.Time("until", *cbContext.SleepUntil))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	if token == "" {
		logger.Warn("no GitHub token configured, requests are unauthenticated")
		return &http.Client{Transport: rateLimitWaiter}, nil
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}, nil
}
