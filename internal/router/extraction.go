package router

import (
	"net/http"

	"document-extraction-service/internal/config"
	"document-extraction-service/internal/handlers"
	"document-extraction-service/internal/middleware"
	"document-extraction-service/internal/services"
	"document-extraction-service/internal/utils"

	"github.com/gorilla/mux"
)

func NewRouter(service services.ExtractionService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	extractHandler := handlers.NewExtractHandler(service, cfg.MaxFileSize, logger)

	// Routes
	r.HandleFunc("/", extractHandler.Health).Methods(http.MethodGet)
	r.HandleFunc("/extract", extractHandler.Extract).Methods(http.MethodPost)
	r.HandleFunc("/test", extractHandler.Test).Methods(http.MethodGet)

	// CORS wraps the router itself so preflight requests get answered even
	// when no route matches the OPTIONS method.
	return middleware.CORS()(r)
}
