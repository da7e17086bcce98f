package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"condo/internal/models"
)

type status struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterRoutes — liveness + readiness. db == nil — in-memory режим, readiness всегда ok.
func RegisterRoutes(r *mux.Router, db *gorm.DB) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			models.WriteJSON(w, http.StatusOK, status{Status: "ok", Database: "memory"})
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			models.WriteJSON(w, http.StatusServiceUnavailable, status{Status: "unavailable", Database: "handle error"})
			return
		}
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			models.WriteJSON(w, http.StatusServiceUnavailable, status{Status: "unavailable", Database: "unreachable"})
			return
		}
		models.WriteJSON(w, http.StatusOK, status{Status: "ok", Database: db.Dialector.Name()})
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
