// Package jira creates and searches tracker issues.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one Jira instance over its v2 REST API.
type Client struct {
	baseURL  string
	username string
	token    string
	httpc    *http.Client
}

// NewClient creates a Jira client using basic auth.
func NewClient(baseURL, username, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		token:    token,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// IssueFields is the issue payload for creation and the field subset
// returned by search.
type IssueFields struct {
	Project struct {
		Key string `json:"key"`
	} `json:"project"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	IssueType   struct {
		Name string `json:"name"`
	} `json:"issuetype"`
}

// Issue is one tracker issue.
type Issue struct {
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// NewIssueFields assembles the fields for a new issue.
func NewIssueFields(project, issueType, summary, description string) IssueFields {
	var fields IssueFields
	fields.Project.Key = project
	fields.IssueType.Name = issueType
	fields.Summary = summary
	fields.Description = description
	return fields
}

// CreateIssue files a new issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (string, error) {
	payload, err := json.Marshal(map[string]IssueFields{"fields": fields})
	if err != nil {
		return "", fmt.Errorf("create issue: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/2/issue", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create issue: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("create issue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("create issue: unexpected status %s", resp.Status)
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("create issue: %w", err)
	}
	return created.Key, nil
}

// SearchIssues runs a JQL query and returns up to maxResults issues.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]Issue, error) {
	values := url.Values{}
	values.Set("jql", jql)
	values.Set("maxResults", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/api/2/search?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	req.SetBasicAuth(c.username, c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("search issues: unexpected status %s", resp.Status)
	}

	var result struct {
		Issues []Issue `json:"issues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return result.Issues, nil
}
