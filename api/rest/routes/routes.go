package routes

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"asset-forge/api/rest/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *mux.Router, h *handlers.AssetHandler) {
	r.HandleFunc("/generate", h.Generate).Methods("POST")
	r.HandleFunc("/status/{job_id}", h.GetStatus).Methods("GET")
	r.HandleFunc("/jobs", h.ListJobs).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/test", h.Test).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/", h.Root).Methods("GET")
}
