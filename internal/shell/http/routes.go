package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sakin2155/anime-auto-scraper-1/internal/shell/metrics"
)

func SetupRoutes(runService RunService, trigger RunTrigger) *mux.Router {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	handler := NewRunHandler(runService, trigger)

	router.HandleFunc("/healthz", handler.Health).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/runs", handler.ListRuns).Methods("GET")
	api.HandleFunc("/runs", handler.TriggerRun).Methods("POST")
	api.HandleFunc("/runs/{id}", handler.GetRun).Methods("GET")

	return router
}

// SetupMetricsRoutes serves the Prometheus endpoint at path
func SetupMetricsRoutes(path string) http.Handler {
	router := mux.NewRouter()
	router.Handle(path, metrics.Handler()).Methods("GET")
	return router
}
