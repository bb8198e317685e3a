package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/lilinghai/tidb-testing/core/models"
)

// DB wraps the postgres connection used by the ledger tables.
type DB struct {
	*sql.DB
}

// NewDB connects to postgres and creates the ledger tables if needed.
// Both tables are insert-only so the full append history stays
// available for audit, matching the file ledger.
func NewDB(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS build_records (
			id SERIAL PRIMARY KEY,
			job_name TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			build_url TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS revision_records (
			id SERIAL PRIMARY KEY,
			revision TEXT NOT NULL,
			ticket_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create ledger tables: %w", err)
	}

	return &DB{DB: db}, nil
}

// PGBuildLedger is a build ledger stored in postgres.
type PGBuildLedger struct {
	db *DB
}

// NewPGBuildLedger creates a postgres-backed build ledger.
func NewPGBuildLedger(db *DB) *PGBuildLedger {
	return &PGBuildLedger{db: db}
}

// Append inserts one record row.
func (l *PGBuildLedger) Append(rec models.BuildRecord) error {
	query := `
		INSERT INTO build_records (job_name, fingerprint, build_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := l.db.Exec(query, string(rec.Job), rec.Fingerprint, rec.BuildURL, string(rec.Status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append build record: %w", err)
	}
	return nil
}

// Scan returns all records in insertion order.
func (l *PGBuildLedger) Scan() ([]models.BuildRecord, error) {
	query := `
		SELECT job_name, fingerprint, build_url, status
		FROM build_records
		ORDER BY id
	`
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("scan build records: %w", err)
	}
	defer rows.Close()

	var records []models.BuildRecord
	for rows.Next() {
		var rec models.BuildRecord
		var job, status string
		if err := rows.Scan(&job, &rec.Fingerprint, &rec.BuildURL, &status); err != nil {
			return nil, fmt.Errorf("scan build record row: %w", err)
		}
		rec.Job = models.Job(job)
		rec.Status, err = models.ParseBuildStatus(status)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Find filters Scan by a predicate.
func (l *PGBuildLedger) Find(pred func(models.BuildRecord) bool) ([]models.BuildRecord, error) {
	records, err := l.Scan()
	if err != nil {
		return nil, err
	}
	var out []models.BuildRecord
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// PGRevisionLedger is a revision ledger stored in postgres.
type PGRevisionLedger struct {
	db *DB
}

// NewPGRevisionLedger creates a postgres-backed revision ledger.
func NewPGRevisionLedger(db *DB) *PGRevisionLedger {
	return &PGRevisionLedger{db: db}
}

// Append inserts one record row.
func (l *PGRevisionLedger) Append(rec models.RevisionRecord) error {
	query := `
		INSERT INTO revision_records (revision, ticket_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := l.db.Exec(query, rec.Revision, rec.TicketID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append revision record: %w", err)
	}
	return nil
}

// Scan returns all records in insertion order.
func (l *PGRevisionLedger) Scan() ([]models.RevisionRecord, error) {
	query := `
		SELECT revision, ticket_id
		FROM revision_records
		ORDER BY id
	`
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("scan revision records: %w", err)
	}
	defer rows.Close()

	var records []models.RevisionRecord
	for rows.Next() {
		var rec models.RevisionRecord
		if err := rows.Scan(&rec.Revision, &rec.TicketID); err != nil {
			return nil, fmt.Errorf("scan revision record row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Find filters Scan by a predicate.
func (l *PGRevisionLedger) Find(pred func(models.RevisionRecord) bool) ([]models.RevisionRecord, error) {
	records, err := l.Scan()
	if err != nil {
		return nil, err
	}
	var out []models.RevisionRecord
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
