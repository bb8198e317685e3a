package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetCommit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/pingcap/tidb/commits/release-5.0" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"sha": "f7a9b3c2d1e0",
			"commit": {
				"author": {"name": "someone", "date": "2021-04-07T08:00:00Z"},
				"message": "executor: fix panic\n\nlong body"
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	commit, err := client.GetCommit(context.Background(), "pingcap", "tidb", "release-5.0")
	if err != nil {
		t.Fatal(err)
	}
	if commit.SHA != "f7a9b3c2d1e0" {
		t.Errorf("sha = %s", commit.SHA)
	}
	if commit.Commit.Author.Name != "someone" {
		t.Errorf("author = %s", commit.Commit.Author.Name)
	}
}

func TestGetCommitNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	if _, err := client.GetCommit(context.Background(), "pingcap", "tidb", "master"); err == nil {
		t.Error("non-200 response returned nil error")
	}
}
