package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HTTPSource fetches hash manifests from a plain fileserver.
type HTTPSource struct {
	baseURL string
	httpc   *http.Client
}

// NewHTTPSource creates a manifest source rooted at baseURL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Fetch downloads one manifest file. Any non-200 response is an error.
func (s *HTTPSource) Fetch(ctx context.Context, path string) (string, error) {
	endpoint := s.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("fetch %s: unexpected status %s", endpoint, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// LoadReleaseFile parses a YAML release file listing the components to
// verify.
func LoadReleaseFile(path string) ([]Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read release file %s: %w", path, err)
	}
	var file struct {
		Components []Component `yaml:"components"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse release file %s: %w", path, err)
	}
	if len(file.Components) == 0 {
		return nil, fmt.Errorf("release file %s lists no components", path)
	}
	return file.Components, nil
}
