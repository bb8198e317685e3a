// Package jenkins is a minimal client for the Jenkins JSON API, scoped
// to what release dispatch needs: the next build number of a job,
// triggering a parameterized build, and reading back build results.
package jenkins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrBuildNotFound marks a build the instance has not indexed yet.
var ErrBuildNotFound = errors.New("build not found")

// Client talks to one Jenkins instance.
type Client struct {
	baseURL  string
	username string
	password string
	httpc    *http.Client
}

// NewClient creates a client for the instance at baseURL using basic
// auth. All requests share the given timeout.
func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type jobInfo struct {
	NextBuildNumber int `json:"nextBuildNumber"`
}

// BuildInfo is the subset of Jenkins build state the reconciler reads.
type BuildInfo struct {
	Number   int    `json:"number"`
	Result   string `json:"result"`
	Building bool   `json:"building"`
	URL      string `json:"url"`
}

// NextBuildNumber returns the number Jenkins will assign to the job's
// next build. Another trigger racing this call can invalidate it.
func (c *Client) NextBuildNumber(ctx context.Context, job string) (int, error) {
	var info jobInfo
	path := fmt.Sprintf("/job/%s/api/json", url.PathEscape(job))
	if err := c.getJSON(ctx, path, &info); err != nil {
		return 0, fmt.Errorf("next build number of %s: %w", job, err)
	}
	return info.NextBuildNumber, nil
}

// Trigger fires a parameterized build. Jenkins assigns the build number
// asynchronously; Trigger only confirms the request was accepted.
func (c *Client) Trigger(ctx context.Context, job string, params map[string]string) error {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	endpoint := fmt.Sprintf("%s/job/%s/buildWithParameters", c.baseURL, url.PathEscape(job))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("trigger %s: %w", job, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("trigger %s: %w", job, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("trigger %s: unexpected status %s", job, resp.Status)
	}
	return nil
}

// BuildInfo fetches the state of one build. A 404 maps to
// ErrBuildNotFound so callers can treat a not-yet-indexed build as
// still pending.
func (c *Client) BuildInfo(ctx context.Context, job string, number int) (*BuildInfo, error) {
	var info BuildInfo
	path := fmt.Sprintf("/job/%s/%d/api/json", url.PathEscape(job), number)
	if err := c.getJSON(ctx, path, &info); err != nil {
		return nil, fmt.Errorf("build info of %s #%d: %w", job, number, err)
	}
	return &info, nil
}

// BuildURL is the address a build will have once Jenkins creates it.
func (c *Client) BuildURL(job string, number int) string {
	return fmt.Sprintf("%s/job/%s/%d/", c.baseURL, url.PathEscape(job), number)
}

// BuildNumberFromURL recovers a build number from a recorded build URL.
func BuildNumberFromURL(buildURL string) (int, error) {
	trimmed := strings.TrimRight(buildURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, fmt.Errorf("no build number in %q", buildURL)
	}
	number, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("no build number in %q", buildURL)
	}
	return number, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrBuildNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
