package models

import (
	"errors"
	"testing"
)

func TestParseBuildRecordRoundTrip(t *testing.T) {
	lines := []string{
		"build_tidb abc1234 http://jenkins.example.com/job/build_tidb/42/",
		"build_tidb abc1234 http://jenkins.example.com/job/build_tidb/42/ running",
		"build_tidb abc1234 http://jenkins.example.com/job/build_tidb/42/ unknown",
		"build_tikv deadbeef00 http://ci.example.com/job/build_tikv/7/ succeed",
		"release_test 0011223344 http://qa.example.com/job/release_test/3/ failed",
	}
	for _, line := range lines {
		rec, err := ParseBuildRecord(line)
		if err != nil {
			t.Fatalf("ParseBuildRecord(%q): %v", line, err)
		}
		if got := rec.Line(); got != line {
			t.Errorf("round trip of %q gave %q", line, got)
		}
	}
}

func TestParseBuildRecordImplicitStatus(t *testing.T) {
	rec, err := ParseBuildRecord("build_pd fp1 http://example.com/job/build_pd/1/")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != StatusUnknown {
		t.Errorf("three-field line parsed with status %s, want unknown", rec.Status)
	}
}

func TestBuildRecordLineImplicitUnknown(t *testing.T) {
	// A record the dispatcher constructs itself has no explicit
	// status token, so unknown encodes in the three-field form.
	rec := BuildRecord{Job: JobBuildTiDB, Fingerprint: "abc1234", BuildURL: "http://example.com/job/build_tidb/1/"}
	want := "build_tidb abc1234 http://example.com/job/build_tidb/1/"
	if got := rec.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestParseBuildRecordMalformed(t *testing.T) {
	for _, line := range []string{"", "build_tidb", "build_tidb abc1234"} {
		if _, err := ParseBuildRecord(line); !errors.Is(err, ErrMalformedRecord) {
			t.Errorf("ParseBuildRecord(%q) err = %v, want ErrMalformedRecord", line, err)
		}
	}
}

func TestParseBuildRecordBadStatusToken(t *testing.T) {
	_, err := ParseBuildRecord("build_tidb abc1234 http://example.com/1/ exploded")
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("bad status token err = %v, want ErrMalformedRecord", err)
	}
}

func TestBuildStatusTerminal(t *testing.T) {
	terminal := map[BuildStatus]bool{
		StatusUnknown: false,
		StatusCreated: false,
		StatusPending: false,
		StatusRunning: false,
		StatusSucceed: true,
		StatusFailed:  true,
	}
	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}
