package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilinghai/tidb-testing/core/release"
	"github.com/lilinghai/tidb-testing/providers/github"
	"github.com/lilinghai/tidb-testing/providers/s3manifest"
)

var checkHashReleaseFile string

var checkHashCmd = &cobra.Command{
	Use:   "check-hash",
	Short: "Verify published release hashes against upstream commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkHashReleaseFile == "" {
			return fmt.Errorf("--release-file is required")
		}

		components, err := release.LoadReleaseFile(checkHashReleaseFile)
		if err != nil {
			return err
		}
		app, err := newApp()
		if err != nil {
			return err
		}
		timeout := time.Duration(app.cfg.TimeoutSeconds) * time.Second

		var source release.ManifestSource
		switch app.cfg.Manifest.Source {
		case "http":
			if app.cfg.Manifest.BaseURL == "" {
				return fmt.Errorf("manifest base_url must be configured for the http source")
			}
			source = release.NewHTTPSource(app.cfg.Manifest.BaseURL, timeout)
		case "s3":
			source, err = s3manifest.NewClient(cmd.Context(), app.cfg.Manifest.Bucket, app.cfg.Manifest.Region)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown manifest source %q", app.cfg.Manifest.Source)
		}

		commits := github.NewClient(app.cfg.GitHub.BaseURL, app.cfg.GitHub.Token, timeout)
		checker := release.NewChecker(source, commits, app.cfg.QueryConcurrency)

		results := checker.Check(cmd.Context(), components)
		bad := 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				bad++
				fmt.Printf("%-12s ERROR %v\n", res.Component, res.Err)
			case res.Match:
				fmt.Printf("%-12s OK    %s (%s, %s)\n", res.Component, res.UpstreamSHA, res.Author, res.Date)
			default:
				bad++
				fmt.Printf("%-12s STALE manifest %s != upstream %s (%s: %s)\n",
					res.Component, res.ManifestSHA, res.UpstreamSHA, res.Author, res.Subject)
			}
		}
		if bad > 0 {
			return fmt.Errorf("%d of %d components out of date or unreachable", bad, len(results))
		}
		return nil
	},
}

func init() {
	checkHashCmd.Flags().StringVar(&checkHashReleaseFile, "release-file", "", "YAML file listing release components (required)")
}
