// Package github fetches commit metadata for release verification.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// NewClient creates a commit API client. Token may be empty for
// unauthenticated access to public repositories.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Commit is the subset of GitHub commit metadata the checker reads.
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
		Message string `json:"message"`
	} `json:"commit"`
}

// GetCommit fetches the commit a ref currently points at. Any non-200
// response is an error.
func (c *Client) GetCommit(ctx context.Context, owner, repo, ref string) (*Commit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.baseURL, owner, repo, ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("get commit %s/%s@%s: %w", owner, repo, ref, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get commit %s/%s@%s: %w", owner, repo, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get commit %s/%s@%s: unexpected status %s", owner, repo, ref, resp.Status)
	}

	var commit Commit
	if err := json.NewDecoder(resp.Body).Decode(&commit); err != nil {
		return nil, fmt.Errorf("get commit %s/%s@%s: %w", owner, repo, ref, err)
	}
	return &commit, nil
}
