// Package release verifies that published binary manifests match the
// upstream commits their components claim to be built from.
package release

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/lilinghai/tidb-testing/providers/github"
)

// Component is one entry of a release file: where its hash manifest
// lives and which upstream ref it should match.
type Component struct {
	Name     string `yaml:"name"`
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Branch   string `yaml:"branch"`
	HashPath string `yaml:"hash_path"`
}

// Result is the verification outcome for one component.
type Result struct {
	Component   string
	ManifestSHA string
	UpstreamSHA string
	Match       bool
	Author      string
	Date        string
	Subject     string
	Err         error
}

// CommitGetter fetches upstream commit metadata.
type CommitGetter interface {
	GetCommit(ctx context.Context, owner, repo, ref string) (*github.Commit, error)
}

// ManifestSource fetches a component's hash manifest by path or key.
type ManifestSource interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Checker compares manifests against upstream commits.
type Checker struct {
	source      ManifestSource
	commits     CommitGetter
	concurrency int
}

// NewChecker creates a checker. concurrency bounds in-flight fetches.
func NewChecker(source ManifestSource, commits CommitGetter, concurrency int) *Checker {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Checker{source: source, commits: commits, concurrency: concurrency}
}

// Check verifies every component concurrently. A failing component
// carries its error in the result; other components are unaffected.
// Results come back in the input order.
func (c *Checker) Check(ctx context.Context, components []Component) []Result {
	results := make([]Result, len(components))
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.concurrency)
	for i, comp := range components {
		wg.Add(1)
		go func(i int, comp Component) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = c.checkOne(ctx, comp)
		}(i, comp)
	}
	wg.Wait()
	return results
}

func (c *Checker) checkOne(ctx context.Context, comp Component) Result {
	res := Result{Component: comp.Name}

	manifest, err := c.source.Fetch(ctx, comp.HashPath)
	if err != nil {
		res.Err = err
		return res
	}
	res.ManifestSHA = firstToken(manifest)
	if res.ManifestSHA == "" {
		res.Err = fmt.Errorf("empty hash manifest at %s", comp.HashPath)
		return res
	}

	commit, err := c.commits.GetCommit(ctx, comp.Owner, comp.Repo, comp.Branch)
	if err != nil {
		res.Err = err
		return res
	}
	res.UpstreamSHA = commit.SHA
	res.Match = res.ManifestSHA == commit.SHA
	res.Author = commit.Commit.Author.Name
	res.Date = commit.Commit.Author.Date.Format("2006-01-02 15:04:05")
	res.Subject = subjectLine(commit.Commit.Message)
	return res
}

// firstToken extracts the leading field of a manifest file, which is
// the commit hash in both `sha1sum` style and bare-hash files.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func subjectLine(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		return message[:idx]
	}
	return message
}
