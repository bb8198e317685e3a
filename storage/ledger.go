// Package storage provides the append-only ledgers that back dispatch
// idempotency. Records are never edited in place; a new line supersedes
// older lines for the same key, and a full scan preserves history.
package storage

import (
	"github.com/lilinghai/tidb-testing/core/models"
)

// BuildLedger stores build dispatch records.
type BuildLedger interface {
	// Append durably adds one record. The write is flushed before
	// Append returns.
	Append(rec models.BuildRecord) error

	// Scan returns all records in append order. A missing backing
	// store reads as empty.
	Scan() ([]models.BuildRecord, error)

	// Find filters Scan by a predicate, preserving append order.
	Find(pred func(models.BuildRecord) bool) ([]models.BuildRecord, error)
}

// RevisionLedger stores one record per ticketed source revision.
type RevisionLedger interface {
	Append(rec models.RevisionRecord) error
	Scan() ([]models.RevisionRecord, error)
	Find(pred func(models.RevisionRecord) bool) ([]models.RevisionRecord, error)
}
