package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yahyahoussini/client-harmony-hub/internal/coordinator"
	"github.com/yahyahoussini/client-harmony-hub/internal/handlers"
	"github.com/yahyahoussini/client-harmony-hub/internal/httpx"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, coord *coordinator.Coordinator, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check; detailed errors stay out of the body.
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Client endpoints. List/Create via /clients; update/delete via dedicated
	// paths for simplicity.
	ch := handlers.NewClientHandler(coord)
	mux.HandleFunc("/clients", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/clients/detail", ch.Detail)
	mux.HandleFunc("/clients/update", ch.Update)
	mux.HandleFunc("/clients/delete", ch.Delete)

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(coord)
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/invoices/status", ih.UpdateStatus)

	// Subscription endpoints
	sh := handlers.NewSubscriptionHandler(coord)
	mux.HandleFunc("/subscriptions", sh.Get)
	mux.HandleFunc("/subscriptions/update", sh.Update)

	// Asset endpoints
	ah := handlers.NewAssetHandler(coord)
	mux.HandleFunc("/assets", ah.List)
	mux.HandleFunc("/assets/upload", ah.Upload)
	mux.HandleFunc("/assets/delete", ah.Delete)

	// Dashboard
	dh := handlers.NewDashboardHandler(coord)
	mux.HandleFunc("/dashboard/stats", dh.Stats)

	return withRecover(withLogging(mux, log), log)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", zap.Any("panic", rec))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
