package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lilinghai/tidb-testing/core/reconcile"
)

// BuildHandler serves the reconciled build view.
type BuildHandler struct {
	reconciler *reconcile.Reconciler
}

// NewBuildHandler creates a build handler.
func NewBuildHandler(reconciler *reconcile.Reconciler) *BuildHandler {
	return &BuildHandler{reconciler: reconciler}
}

// BuildResponse is one build in the status API.
type BuildResponse struct {
	Job         string `json:"job"`
	Fingerprint string `json:"fingerprint"`
	BuildURL    string `json:"build_url"`
	Status      string `json:"status"`
	Terminal    bool   `json:"terminal"`
}

// ListBuilds handles GET /api/builds. Each call runs a reconciliation
// pass, so the response reflects live backend status.
func (h *BuildHandler) ListBuilds(w http.ResponseWriter, r *http.Request) {
	view, err := h.reconciler.Reconcile(r.Context())
	if err != nil {
		http.Error(w, "Failed to reconcile builds: "+err.Error(), http.StatusInternalServerError)
		return
	}

	builds := make([]BuildResponse, 0, len(view))
	for _, rec := range view {
		builds = append(builds, BuildResponse{
			Job:         string(rec.Job),
			Fingerprint: rec.Fingerprint,
			BuildURL:    rec.BuildURL,
			Status:      string(rec.Status),
			Terminal:    rec.Status.Terminal(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(builds)
}
