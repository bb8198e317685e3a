package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BackendConfig holds the endpoint and credentials for one Jenkins instance.
type BackendConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GitHubConfig holds the commit API settings.
type GitHubConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// JiraConfig holds the issue tracker settings.
type JiraConfig struct {
	BaseURL   string `yaml:"base_url"`
	Username  string `yaml:"username"`
	Token     string `yaml:"token"`
	Project   string `yaml:"project"`
	IssueType string `yaml:"issue_type"`
}

// ManifestConfig selects where release hash files are fetched from.
// Source is "http" (plain fileserver under BaseURL) or "s3".
type ManifestConfig struct {
	Source  string `yaml:"source"`
	BaseURL string `yaml:"base_url"`
	Bucket  string `yaml:"bucket"`
	Region  string `yaml:"region"`
}

// LedgerConfig selects the ledger backend. Driver is "file" or "postgres".
type LedgerConfig struct {
	Driver       string `yaml:"driver"`
	BuildPath    string `yaml:"build_path"`
	RevisionPath string `yaml:"revision_path"`
	DatabaseURL  string `yaml:"database_url"`
}

// Config holds the application configuration
type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`

	// Jenkins instances keyed by affinity group name
	Backends map[string]BackendConfig `yaml:"backends"`

	GitHub   GitHubConfig   `yaml:"github"`
	Jira     JiraConfig     `yaml:"jira"`
	Manifest ManifestConfig `yaml:"manifest"`

	// Server
	ServerPort string `yaml:"server_port"`

	// Max in-flight backend status queries during reconciliation
	QueryConcurrency int `yaml:"query_concurrency"`

	// Network timeout for backend calls, in seconds
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Load reads configuration from a YAML file, then applies environment
// overrides and defaults. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.Ledger.Driver == "" {
		cfg.Ledger.Driver = getEnv("LEDGER_DRIVER", "file")
	}
	if cfg.Ledger.BuildPath == "" {
		cfg.Ledger.BuildPath = getEnv("BUILD_LEDGER", "release.log")
	}
	if cfg.Ledger.RevisionPath == "" {
		cfg.Ledger.RevisionPath = getEnv("REVISION_LEDGER", "issue.log")
	}
	if cfg.Ledger.DatabaseURL == "" {
		cfg.Ledger.DatabaseURL = getEnv("DATABASE_URL", "postgres://localhost/tidb_testing?sslmode=disable")
	}
	if cfg.GitHub.BaseURL == "" {
		cfg.GitHub.BaseURL = getEnv("GITHUB_API", "https://api.github.com")
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = getEnv("GITHUB_TOKEN", "")
	}
	if cfg.Jira.IssueType == "" {
		cfg.Jira.IssueType = "Task"
	}
	if cfg.Manifest.Source == "" {
		cfg.Manifest.Source = "http"
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	}
	if cfg.QueryConcurrency <= 0 {
		cfg.QueryConcurrency = 8
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
