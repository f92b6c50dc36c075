package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/bill-tracking/internal/auth"
	"github.com/frahmantamala/bill-tracking/internal/billserver"
	"github.com/frahmantamala/bill-tracking/internal/transport/middleware"
	"github.com/frahmantamala/bill-tracking/internal/transport/swagger"
)

// RegisterRoutes wires the bill service routes onto the router. The
// uploads directory is served under /images so the fileUrl values handed
// to clients resolve.
func RegisterRoutes(router *chi.Mux, db *sql.DB, billHandler *billserver.Handler, tokens *auth.TokenManager, uploadsDir string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, uploadsDir)

	// global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)

	// OpenAPI spec and swagger UI at root
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// receipt files
	router.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(uploadsDir))))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// bill routes require a session token
		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Auth(tokens, logger))

			pr.Route("/bills", func(br chi.Router) {
				br.Get("/", billHandler.ListBills)
				br.Post("/", billHandler.CreateBill)
				br.Put("/{id}", billHandler.UpdateBill)
			})
		})
	})
}
