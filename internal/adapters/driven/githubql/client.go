package githubql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ONS-Innovation/keh-github-scraper-batch/internal/core/ports/driven"
)

const (
	// DefaultEndpoint is the GitHub GraphQL API endpoint.
	DefaultEndpoint = "https://api.github.com/graphql"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Ensure Client implements the executor port.
var _ driven.GraphQLExecutor = (*Client)(nil)

// Client executes GraphQL queries against the GitHub API. It speaks raw
// HTTP rather than a typed GraphQL binding so callers see the exact status
// code and response body of every request.
type Client struct {
	initOnce      sync.Once
	initErr       error
	httpClient    *http.Client
	endpoint      string
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
}

// NewClient creates a GraphQL client with a token provider.
func NewClient(tokenProvider driven.TokenProvider) *Client {
	return &Client{
		endpoint:      DefaultEndpoint,
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
	}
}

// NewClientWithEndpoint creates a client against a custom endpoint.
// Useful for testing against a local server.
func NewClientWithEndpoint(tokenProvider driven.TokenProvider, endpoint string) *Client {
	c := NewClient(tokenProvider)
	c.endpoint = endpoint
	return c
}

// graphQLRequest is the JSON body of a GraphQL POST.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// ensureClient initializes the HTTP client on first use, so we can get the
// token when needed. Safe for the concurrent callers sharing one client.
func (c *Client) ensureClient(ctx context.Context) error {
	c.initOnce.Do(func() {
		token, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			c.initErr = fmt.Errorf("get token: %w", err)
			return
		}

		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc := oauth2.NewClient(ctx, ts)
		tc.Timeout = DefaultTimeout
		c.httpClient = tc
	})
	return c.initErr
}

// Execute posts one GraphQL query and returns the raw response. A reachable
// server always yields a response, whatever its status code; only transport
// failures return an error.
func (c *Client) Execute(
	ctx context.Context, query string, variables map[string]any,
) (*driven.GraphQLResponse, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromResponse(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && c.rateLimiter.Remaining() == 0) {
		return nil, &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	return &driven.GraphQLResponse{
		StatusCode: resp.StatusCode,
		Body:       respBody,
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}
