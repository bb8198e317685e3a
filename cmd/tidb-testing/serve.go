package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/lilinghai/tidb-testing/api/rest/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the build status API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}

		r := mux.NewRouter()
		routes.SetupRoutes(r, app.reconciler)

		// Health check endpoint
		r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		}).Methods("GET")

		server := &http.Server{
			Addr:    ":" + app.cfg.ServerPort,
			Handler: r,
		}

		go func() {
			log.Printf("Starting server on port %s", app.cfg.ServerPort)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed to start: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
		log.Println("Server exited")
		return nil
	},
}
