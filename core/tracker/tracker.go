// Package tracker files at most one tracker ticket per source
// revision, gated purely by the local revision ledger.
package tracker

import (
	"context"
	"fmt"
	"strings"

	"github.com/lilinghai/tidb-testing/core/models"
	"github.com/lilinghai/tidb-testing/providers/jira"
	"github.com/lilinghai/tidb-testing/storage"
)

// DryRunTicketID is the placeholder returned when a dry run would have
// created a ticket.
const DryRunTicketID = "DRY-RUN"

// IssueCreator files issues in the external tracker.
type IssueCreator interface {
	CreateIssue(ctx context.Context, fields jira.IssueFields) (string, error)
}

// Tracker enforces the one-ticket-per-revision invariant.
type Tracker struct {
	ledger    storage.RevisionLedger
	creator   IssueCreator
	project   string
	issueType string
}

// NewTracker creates a tracker filing issues into the given project.
func NewTracker(ledger storage.RevisionLedger, creator IssueCreator, project, issueType string) *Tracker {
	return &Tracker{
		ledger:    ledger,
		creator:   creator,
		project:   project,
		issueType: issueType,
	}
}

// EnsureTicket returns the ticket id for a revision, creating one only
// if the ledger has no record whose revision starts with the given id.
// In dry-run mode a would-be creation short-circuits before any remote
// call and returns DryRunTicketID without touching the ledger.
func (t *Tracker) EnsureTicket(ctx context.Context, revision, summary, description string, dryRun bool) (string, error) {
	if revision == "" {
		return "", fmt.Errorf("empty revision id")
	}

	matches, err := t.ledger.Find(func(rec models.RevisionRecord) bool {
		return strings.HasPrefix(rec.Revision, revision)
	})
	if err != nil {
		return "", err
	}
	if len(matches) > 0 {
		return matches[len(matches)-1].TicketID, nil
	}

	if dryRun {
		return DryRunTicketID, nil
	}

	fields := jira.NewIssueFields(t.project, t.issueType, summary, description)
	ticketID, err := t.creator.CreateIssue(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("ensure ticket for %s: %w", revision, err)
	}

	rec := models.RevisionRecord{Revision: revision, TicketID: ticketID}
	if err := t.ledger.Append(rec); err != nil {
		return "", fmt.Errorf("ensure ticket for %s: %w", revision, err)
	}
	return ticketID, nil
}
