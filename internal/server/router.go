package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ledgerline/ledgerline/internal/activity"
	"github.com/ledgerline/ledgerline/internal/handlers"
	"github.com/ledgerline/ledgerline/internal/httpx"
	"github.com/ledgerline/ledgerline/internal/services"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. The mailer defaults to logging when nil.
func New(db *gorm.DB, log *zap.Logger, mailer services.Mailer) http.Handler {
	if mailer == nil {
		mailer = services.NewLogMailer(log)
	}

	activities := services.NewActivityService(db, log)
	rec := activity.NewRecorder(activities, log)
	settings := services.NewSettingsService(db)
	invoices := services.NewInvoiceService(db, rec, settings, mailer, log)
	quotes := services.NewQuoteService(db, rec, invoices, log)
	tasks := services.NewTaskService(db, rec, log)
	transactions := services.NewTransactionService(db, rec, log)
	clients := services.NewClientService(db, log)

	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ch := handlers.NewClientHandler(clients)
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("POST /clients", ch.Create)
	mux.HandleFunc("GET /clients/{id}", ch.Get)
	mux.HandleFunc("PUT /clients/{id}", ch.Update)
	mux.HandleFunc("DELETE /clients/{id}", ch.Delete)

	ah := handlers.NewActivityHandler(activities)
	mux.HandleFunc("GET /clients/{id}/activity", ah.Timeline)
	mux.HandleFunc("POST /clients/{id}/notes", ah.AddNote)

	ih := handlers.NewInvoiceHandler(invoices)
	mux.HandleFunc("GET /invoices", ih.List)
	mux.HandleFunc("POST /invoices", ih.Create)
	mux.HandleFunc("GET /invoices/{id}", ih.Get)
	mux.HandleFunc("PUT /invoices/{id}", ih.Update)
	mux.HandleFunc("DELETE /invoices/{id}", ih.Delete)
	mux.HandleFunc("POST /invoices/{id}/send", ih.Send)

	qh := handlers.NewQuoteHandler(quotes)
	mux.HandleFunc("GET /quotes", qh.List)
	mux.HandleFunc("POST /quotes", qh.Create)
	mux.HandleFunc("GET /quotes/{id}", qh.Get)
	mux.HandleFunc("PUT /quotes/{id}", qh.Update)
	mux.HandleFunc("DELETE /quotes/{id}", qh.Delete)
	mux.HandleFunc("POST /quotes/{id}/convert", qh.Convert)

	th := handlers.NewTaskHandler(tasks)
	mux.HandleFunc("GET /tasks", th.List)
	mux.HandleFunc("POST /tasks", th.Create)
	mux.HandleFunc("GET /tasks/{id}", th.Get)
	mux.HandleFunc("PUT /tasks/{id}", th.Update)
	mux.HandleFunc("DELETE /tasks/{id}", th.Delete)

	xh := handlers.NewTransactionHandler(transactions)
	mux.HandleFunc("GET /transactions", xh.List)
	mux.HandleFunc("POST /transactions", xh.Create)
	mux.HandleFunc("DELETE /transactions/{id}", xh.Delete)

	sh := handlers.NewSettingsHandler(settings)
	mux.HandleFunc("GET /settings", sh.Get)
	mux.HandleFunc("PUT /settings", sh.Update)

	return withRecover(withLogging(mux, log), log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func withRecover(next http.Handler, log *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("handler panicked", zap.Any("panic", rec), zap.String("path", r.URL.Path))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
