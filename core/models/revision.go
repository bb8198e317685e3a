package models

import (
	"fmt"
	"strings"
)

// RevisionRecord ties a source revision to the ticket filed for it.
// A revision gets at most one ticket; existence of a record is the
// idempotency signal, so records are never mutated.
type RevisionRecord struct {
	Revision string
	TicketID string
}

// ParseRevisionRecord decodes one revision ledger line.
func ParseRevisionRecord(line string) (RevisionRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return RevisionRecord{}, fmt.Errorf("%w: %d fields in %q", ErrMalformedRecord, len(fields), line)
	}
	return RevisionRecord{Revision: fields[0], TicketID: fields[1]}, nil
}

// Line encodes the record as one ledger line.
func (r RevisionRecord) Line() string {
	return fmt.Sprintf("%s %s", r.Revision, r.TicketID)
}
