package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"crmlake/internal/record"
	"crmlake/internal/storage"
	"crmlake/pkg/logger"
)

// NewRouter configures the dashboard HTTP routes: the summary
// document, the latest quality reports, and (optionally) the static
// dashboard assets.
func NewRouter(store *storage.Store, dashboardDir string, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", summaryHandler(store)).Methods("GET")
	api.HandleFunc("/reports/{kind}", reportHandler(store)).Methods("GET")

	if dashboardDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(dashboardDir)))
	}

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "crmlake",
	})
}

// summaryHandler serves the latest dashboard summary document. A
// 404 before the first pipeline run is expected; the dashboard
// tolerates it.
func summaryHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(store.SummaryPath())
		if err != nil {
			if os.IsNotExist(err) {
				writeError(w, http.StatusNotFound, "no summary generated yet")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to read summary")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func reportHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind, err := record.ParseKind(mux.Vars(r)["kind"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := store.ReadReport(kind)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read report")
			return
		}
		if report == nil {
			writeError(w, http.StatusNotFound, "no report for this kind yet")
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from handler panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithField("panic", err).Error("Handler panic recovered")
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
