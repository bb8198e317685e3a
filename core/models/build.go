package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord is returned when a ledger line cannot be parsed.
var ErrMalformedRecord = errors.New("malformed ledger record")

// BuildStatus is the current state of a remote build.
type BuildStatus string

const (
	StatusUnknown BuildStatus = "unknown"
	StatusCreated BuildStatus = "created"
	StatusPending BuildStatus = "pending"
	StatusRunning BuildStatus = "running"
	StatusSucceed BuildStatus = "succeed"
	StatusFailed  BuildStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s BuildStatus) Terminal() bool {
	return s == StatusSucceed || s == StatusFailed
}

// ParseBuildStatus validates a status token read from the ledger.
func ParseBuildStatus(tok string) (BuildStatus, error) {
	switch BuildStatus(tok) {
	case StatusUnknown, StatusCreated, StatusPending, StatusRunning, StatusSucceed, StatusFailed:
		return BuildStatus(tok), nil
	}
	return "", fmt.Errorf("%w: bad status token %q", ErrMalformedRecord, tok)
}

// BuildRecord is one dispatched build as recorded in the build ledger.
// The ledger is append-only; the latest line for a job name is the
// effective current value.
type BuildRecord struct {
	Job         Job
	Fingerprint string
	BuildURL    string
	Status      BuildStatus

	// explicitStatus remembers that the record came from a
	// four-field line, so an explicit unknown token survives
	// re-encoding and every well-formed line round-trips unchanged.
	explicitStatus bool
}

// ParseBuildRecord decodes one ledger line. Three fields imply status
// unknown; four fields carry an explicit status token.
func ParseBuildRecord(line string) (BuildRecord, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 3:
		return BuildRecord{
			Job:         Job(fields[0]),
			Fingerprint: fields[1],
			BuildURL:    fields[2],
			Status:      StatusUnknown,
		}, nil
	case 4:
		status, err := ParseBuildStatus(fields[3])
		if err != nil {
			return BuildRecord{}, err
		}
		return BuildRecord{
			Job:            Job(fields[0]),
			Fingerprint:    fields[1],
			BuildURL:       fields[2],
			Status:         status,
			explicitStatus: true,
		}, nil
	}
	return BuildRecord{}, fmt.Errorf("%w: %d fields in %q", ErrMalformedRecord, len(fields), line)
}

// Line encodes the record as one ledger line. A newly constructed
// record with unknown status encodes in the three-field form; a record
// parsed from a four-field line keeps its explicit status token either
// way, so parse and encode round-trip.
func (r BuildRecord) Line() string {
	if r.Status == StatusUnknown && !r.explicitStatus {
		return fmt.Sprintf("%s %s %s", r.Job, r.Fingerprint, r.BuildURL)
	}
	return fmt.Sprintf("%s %s %s %s", r.Job, r.Fingerprint, r.BuildURL, r.Status)
}
