package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

type componentCheck struct {
	name  string
	check func(ctx context.Context) error
}

// HealthHandler reports the readiness of what the bill service needs to
// take uploads: the database and the receipts directory.
type HealthHandler struct {
	checks []componentCheck
}

func NewHealthHandler(db *sql.DB, uploadsDir string) *HealthHandler {
	return &HealthHandler{
		checks: []componentCheck{
			{name: "database", check: func(ctx context.Context) error {
				return db.PingContext(ctx)
			}},
			{name: "receipt_store", check: func(ctx context.Context) error {
				info, err := os.Stat(uploadsDir)
				if err != nil {
					return err
				}
				if !info.IsDir() {
					return fmt.Errorf("%s is not a directory", uploadsDir)
				}
				return nil
			}},
		},
	}
}

// liveness: just says the service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

// readiness: every component has to pass
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	components := make(map[string]string, len(h.checks))
	for _, c := range h.checks {
		if err := c.check(ctx); err != nil {
			status = "unhealthy"
			components[c.name] = err.Error()
			continue
		}
		components[c.name] = "ok"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     status,
		"checked_at": time.Now().UTC(),
		"components": components,
	})
}
