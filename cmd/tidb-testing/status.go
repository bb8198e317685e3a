package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lilinghai/tidb-testing/core/models"
)

var (
	succeedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Reconcile every dispatched build against its backend and show the result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		view, err := app.reconciler.Reconcile(cmd.Context())
		if err != nil {
			return err
		}
		if len(view) == 0 {
			fmt.Println("no builds dispatched")
			return nil
		}
		for _, rec := range view {
			fmt.Printf("%-16s %-12s %-8s %s\n", rec.Job, rec.Fingerprint, renderStatus(rec.Status), rec.BuildURL)
		}
		return nil
	},
}

func renderStatus(s models.BuildStatus) string {
	switch s {
	case models.StatusSucceed:
		return succeedStyle.Render(string(s))
	case models.StatusFailed:
		return failedStyle.Render(string(s))
	default:
		return openStyle.Render(string(s))
	}
}
