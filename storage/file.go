package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lilinghai/tidb-testing/core/models"
)

// FileBuildLedger is a line-oriented build ledger on local disk.
type FileBuildLedger struct {
	path string
}

// NewFileBuildLedger creates a build ledger backed by the given file.
// The file is created lazily on first append.
func NewFileBuildLedger(path string) *FileBuildLedger {
	return &FileBuildLedger{path: path}
}

// Append writes one record line and syncs the file.
func (l *FileBuildLedger) Append(rec models.BuildRecord) error {
	return appendLine(l.path, rec.Line())
}

// Scan reads every record in file order.
func (l *FileBuildLedger) Scan() ([]models.BuildRecord, error) {
	lines, err := scanLines(l.path)
	if err != nil {
		return nil, err
	}
	records := make([]models.BuildRecord, 0, len(lines))
	for _, line := range lines {
		rec, err := models.ParseBuildRecord(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Find filters Scan by a predicate.
func (l *FileBuildLedger) Find(pred func(models.BuildRecord) bool) ([]models.BuildRecord, error) {
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

// FileRevisionLedger is a line-oriented revision ledger on local disk.
type FileRevisionLedger struct {
	path string
}

// NewFileRevisionLedger creates a revision ledger backed by the given file.
func NewFileRevisionLedger(path string) *FileRevisionLedger {
	return &FileRevisionLedger{path: path}
}

// Append writes one record line and syncs the file.
func (l *FileRevisionLedger) Append(rec models.RevisionRecord) error {
	return appendLine(l.path, rec.Line())
}

// Scan reads every record in file order.
func (l *FileRevisionLedger) Scan() ([]models.RevisionRecord, error) {
	lines, err := scanLines(l.path)
	if err != nil {
		return nil, err
	}
	records := make([]models.RevisionRecord, 0, len(lines))
	for _, line := range lines {
		rec, err := models.ParseRevisionRecord(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Find filters Scan by a predicate.
func (l *FileRevisionLedger) Find(pred func(models.RevisionRecord) bool) ([]models.RevisionRecord, error) {
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

// appendLine appends one line and flushes before returning. An
// unwritable location surfaces as an error to the caller.
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write ledger file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync ledger file: %w", err)
	}
	return nil
}

// scanLines reads all non-blank lines. A missing file reads as empty.
func scanLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return lines, nil
}
