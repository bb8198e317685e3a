package routes

import (
	"github.com/lilinghai/tidb-testing/api/rest/handlers"
	"github.com/lilinghai/tidb-testing/core/reconcile"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *mux.Router, reconciler *reconcile.Reconciler) {
	buildHandler := handlers.NewBuildHandler(reconciler)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/builds", buildHandler.ListBuilds).Methods("GET")
}
