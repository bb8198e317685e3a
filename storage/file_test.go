package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lilinghai/tidb-testing/core/models"
)

func TestFileBuildLedgerAppendScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.log")
	ledger := NewFileBuildLedger(path)

	recs := []models.BuildRecord{
		{Job: models.JobBuildTiDB, Fingerprint: "abc1234", BuildURL: "http://ci/job/build_tidb/42/", Status: models.StatusUnknown},
		{Job: models.JobBuildTiKV, Fingerprint: "def5678", BuildURL: "http://ci/job/build_tikv/7/", Status: models.StatusRunning},
		{Job: models.JobBuildTiDB, Fingerprint: "abc1234", BuildURL: "http://ci/job/build_tidb/42/", Status: models.StatusSucceed},
	}
	for _, rec := range recs {
		if err := ledger.Append(rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := ledger.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("scan returned %d records, want %d", len(got), len(recs))
	}
	for i := range recs {
		if got[i].Line() != recs[i].Line() {
			t.Errorf("record %d = %+v, want %+v", i, got[i], recs[i])
		}
	}
}

func TestFileBuildLedgerMissingFileIsEmpty(t *testing.T) {
	ledger := NewFileBuildLedger(filepath.Join(t.TempDir(), "absent.log"))
	got, err := ledger.Scan()
	if err != nil {
		t.Fatalf("scan of missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("scan of missing file returned %d records", len(got))
	}
}

func TestFileBuildLedgerUnwritableAppend(t *testing.T) {
	dir := t.TempDir()
	ledger := NewFileBuildLedger(filepath.Join(dir, "no", "such", "dir", "release.log"))
	err := ledger.Append(models.BuildRecord{Job: models.JobBuildTiDB, Fingerprint: "x", BuildURL: "http://ci/1/"})
	if err == nil {
		t.Fatal("append to unwritable location succeeded")
	}
}

func TestFileBuildLedgerMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.log")
	if err := os.WriteFile(path, []byte("build_tidb abc1234\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFileBuildLedger(path).Scan()
	if !errors.Is(err, models.ErrMalformedRecord) {
		t.Errorf("scan err = %v, want ErrMalformedRecord", err)
	}
}

func TestFileBuildLedgerFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.log")
	ledger := NewFileBuildLedger(path)
	for _, rec := range []models.BuildRecord{
		{Job: models.JobBuildTiDB, Fingerprint: "aaa", BuildURL: "http://ci/1/"},
		{Job: models.JobBuildTiKV, Fingerprint: "bbb", BuildURL: "http://ci/2/"},
		{Job: models.JobBuildTiDB, Fingerprint: "ccc", BuildURL: "http://ci/3/"},
	} {
		if err := ledger.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ledger.Find(func(rec models.BuildRecord) bool { return rec.Job == models.JobBuildTiDB })
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Fingerprint != "aaa" || got[1].Fingerprint != "ccc" {
		t.Errorf("find returned %+v", got)
	}
}

func TestFileRevisionLedgerAppendScanFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue.log")
	ledger := NewFileRevisionLedger(path)
	recs := []models.RevisionRecord{
		{Revision: "f7a9b3c2d1e0aabbcc", TicketID: "RELEASE-101"},
		{Revision: "0102030405060708", TicketID: "RELEASE-102"},
	}
	for _, rec := range recs {
		if err := ledger.Append(rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ledger.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != recs[0] || got[1] != recs[1] {
		t.Errorf("scan returned %+v", got)
	}

	found, err := ledger.Find(func(rec models.RevisionRecord) bool {
		return rec.Revision == "f7a9b3c2d1e0aabbcc"
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].TicketID != "RELEASE-101" {
		t.Errorf("find returned %+v", found)
	}
}
