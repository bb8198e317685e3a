package jenkins

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "bot", "secret", 5*time.Second), server
}

func TestNextBuildNumber(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/build_tidb/api/json" {
			http.NotFound(w, r)
			return
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "bot" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"nextBuildNumber": 43}`))
	})

	got, err := client.NextBuildNumber(context.Background(), "build_tidb")
	if err != nil {
		t.Fatal(err)
	}
	if got != 43 {
		t.Errorf("next build number = %d, want 43", got)
	}
}

func TestTrigger(t *testing.T) {
	var gotVersion string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/job/build_tidb/buildWithParameters" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotVersion = r.PostForm.Get("version")
		w.WriteHeader(http.StatusCreated)
	})

	err := client.Trigger(context.Background(), "build_tidb", map[string]string{"version": "v5.0.0"})
	if err != nil {
		t.Fatal(err)
	}
	if gotVersion != "v5.0.0" {
		t.Errorf("server saw version %q", gotVersion)
	}
}

func TestTriggerRejectionIsError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	if err := client.Trigger(context.Background(), "build_tidb", nil); err == nil {
		t.Error("rejected trigger returned nil error")
	}
}

func TestBuildInfo(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/job/build_tidb/42/api/json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"number": 42, "result": "SUCCESS", "building": false}`))
	})

	info, err := client.BuildInfo(context.Background(), "build_tidb", 42)
	if err != nil {
		t.Fatal(err)
	}
	if info.Result != "SUCCESS" || info.Building {
		t.Errorf("build info = %+v", info)
	}
}

func TestBuildInfoNotFound(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := client.BuildInfo(context.Background(), "build_tidb", 99)
	if !errors.Is(err, ErrBuildNotFound) {
		t.Errorf("err = %v, want ErrBuildNotFound", err)
	}
}

func TestBuildNumberFromURL(t *testing.T) {
	cases := []struct {
		url     string
		want    int
		wantErr bool
	}{
		{"http://ci.example.com/job/build_tidb/42/", 42, false},
		{"http://ci.example.com/job/build_tidb/42", 42, false},
		{"http://ci.example.com/job/build_tidb/", 0, true},
		{"nonsense", 0, true},
	}
	for _, tc := range cases {
		got, err := BuildNumberFromURL(tc.url)
		if tc.wantErr {
			if err == nil {
				t.Errorf("BuildNumberFromURL(%q) succeeded with %d", tc.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("BuildNumberFromURL(%q): %v", tc.url, err)
			continue
		}
		if got != tc.want {
			t.Errorf("BuildNumberFromURL(%q) = %d, want %d", tc.url, got, tc.want)
		}
	}
}
