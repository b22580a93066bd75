// Package leetcode fetches a participant's solved-problem count from the
// LeetCode GraphQL API.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/leetboard/pkg/metrics"
)

// DefaultURL is the public GraphQL endpoint.
const DefaultURL = "https://leetcode.com/graphql"

const defaultHTTPTimeout = 15 * time.Second

// Fetcher resolves a handle to its current total solved count.
type Fetcher interface {
	// Fetch returns the total accepted-submission count for username.
	// Returns ErrNotFound when the handle does not resolve.
	Fetch(ctx context.Context, username string) (int, error)
}

// Client implements Fetcher against the LeetCode GraphQL API.
type Client struct {
	url        string
	httpClient *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithURL overrides the GraphQL endpoint, mainly for tests.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client with default configuration.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const solvedQuery = `query ($username: String!) {
  matchedUser(username: $username) {
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStats *struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
}

// Fetch resolves username to its "All" difficulty solved count.
func (c *Client) Fetch(ctx context.Context, username string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(graphqlRequest{
		Query:     solvedQuery,
		Variables: map[string]string{"username": username},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLookup, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: unexpected status %d", ErrLookup, resp.StatusCode)
	}

	var payload graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLookup, err)
	}

	user := payload.Data.MatchedUser
	if user == nil || user.SubmitStats == nil {
		return 0, ErrNotFound
	}
	for _, stat := range user.SubmitStats.ACSubmissionNum {
		if stat.Difficulty == "All" {
			return stat.Count, nil
		}
	}
	return 0, ErrNotFound
}
