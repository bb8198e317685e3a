package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/lilinghai/tidb-testing/core/dispatch"
	"github.com/lilinghai/tidb-testing/core/models"
	"github.com/lilinghai/tidb-testing/core/reconcile"
	"github.com/lilinghai/tidb-testing/storage"
)

func TestListBuilds(t *testing.T) {
	ledger := storage.NewFileBuildLedger(filepath.Join(t.TempDir(), "release.log"))
	for _, rec := range []models.BuildRecord{
		{Job: models.JobBuildTiDB, Fingerprint: "aaa", BuildURL: "http://ci/job/build_tidb/1/", Status: models.StatusSucceed},
		{Job: models.JobBuildTiKV, Fingerprint: "bbb", BuildURL: "http://ci/job/build_tikv/2/", Status: models.StatusFailed},
	} {
		if err := ledger.Append(rec); err != nil {
			t.Fatal(err)
		}
	}
	// All records are terminal, so no backends get queried.
	router := dispatch.NewRouter(map[string]dispatch.Backend{})
	handler := NewBuildHandler(reconcile.NewReconciler(ledger, router, 2))

	req := httptest.NewRequest(http.MethodGet, "/api/builds", nil)
	rr := httptest.NewRecorder()
	handler.ListBuilds(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var builds []BuildResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &builds); err != nil {
		t.Fatal(err)
	}
	if len(builds) != 2 {
		t.Fatalf("got %d builds", len(builds))
	}
	if builds[0].Job != "build_tidb" || builds[0].Status != "succeed" || !builds[0].Terminal {
		t.Errorf("first build = %+v", builds[0])
	}
}
