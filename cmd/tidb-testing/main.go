package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lilinghai/tidb-testing/config"
	"github.com/lilinghai/tidb-testing/core/dispatch"
	"github.com/lilinghai/tidb-testing/core/reconcile"
	"github.com/lilinghai/tidb-testing/core/tracker"
	"github.com/lilinghai/tidb-testing/providers/jenkins"
	"github.com/lilinghai/tidb-testing/providers/jira"
	"github.com/lilinghai/tidb-testing/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "tidb-testing",
	Short:         "Release qualification chores: dispatch CI builds, track their status, file tickets",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(checkHashCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the wired components shared by the subcommands.
type app struct {
	cfg            *config.Config
	buildLedger    storage.BuildLedger
	revisionLedger storage.RevisionLedger
	router         *dispatch.Router
	engine         *dispatch.Engine
	reconciler     *reconcile.Reconciler
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var buildLedger storage.BuildLedger
	var revisionLedger storage.RevisionLedger
	switch cfg.Ledger.Driver {
	case "file":
		buildLedger = storage.NewFileBuildLedger(cfg.Ledger.BuildPath)
		revisionLedger = storage.NewFileRevisionLedger(cfg.Ledger.RevisionPath)
	case "postgres":
		db, err := storage.NewDB(cfg.Ledger.DatabaseURL)
		if err != nil {
			return nil, err
		}
		buildLedger = storage.NewPGBuildLedger(db)
		revisionLedger = storage.NewPGRevisionLedger(db)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Ledger.Driver)
	}

	backends := make(map[string]dispatch.Backend, len(cfg.Backends))
	for name, bc := range cfg.Backends {
		backends[name] = jenkins.NewClient(bc.BaseURL, bc.Username, bc.Password, timeout)
	}
	router := dispatch.NewRouter(backends)

	return &app{
		cfg:            cfg,
		buildLedger:    buildLedger,
		revisionLedger: revisionLedger,
		router:         router,
		engine:         dispatch.NewEngine(buildLedger, router),
		reconciler:     reconcile.NewReconciler(buildLedger, router, cfg.QueryConcurrency),
	}, nil
}

func (a *app) newTracker() (*tracker.Tracker, error) {
	jc := a.cfg.Jira
	if jc.BaseURL == "" || jc.Project == "" {
		return nil, fmt.Errorf("jira base_url and project must be configured")
	}
	timeout := time.Duration(a.cfg.TimeoutSeconds) * time.Second
	client := jira.NewClient(jc.BaseURL, jc.Username, jc.Token, timeout)
	return tracker.NewTracker(a.revisionLedger, client, jc.Project, jc.IssueType), nil
}
