package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	ticketSummary     string
	ticketDescription string
	ticketDryRun      bool
)

var ticketCmd = &cobra.Command{
	Use:   "ticket <revision>",
	Short: "File a tracking ticket for a revision, unless one already exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if ticketSummary == "" {
			return fmt.Errorf("--summary is required")
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		t, err := app.newTracker()
		if err != nil {
			return err
		}
		ticketID, err := t.EnsureTicket(cmd.Context(), args[0], ticketSummary, ticketDescription, ticketDryRun)
		if err != nil {
			return err
		}
		fmt.Println(ticketID)
		return nil
	},
}

func init() {
	ticketCmd.Flags().StringVar(&ticketSummary, "summary", "", "ticket summary (required)")
	ticketCmd.Flags().StringVar(&ticketDescription, "description", "", "ticket description")
	ticketCmd.Flags().BoolVar(&ticketDryRun, "dry-run", false, "report what would be filed without calling the tracker")
}
