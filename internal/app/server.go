package app

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/takak2166/notion2telegram/internal/logger"
	"github.com/takak2166/notion2telegram/internal/models"
	"github.com/takak2166/notion2telegram/internal/store"
	"github.com/takak2166/notion2telegram/internal/syncer"
)

// StatusSource exposes the outcome of the latest pass
type StatusSource interface {
	LastReport() (syncer.Report, bool)
}

type historyEntry struct {
	PageID     string    `json:"page_id"`
	MessageID  int       `json:"message_id"`
	LastEdited time.Time `json:"last_edited"`
	Title      string    `json:"title"`
	Archived   bool      `json:"archived"`
}

// NewRouter builds the status server routes. history may be nil when the
// store keeps no archived records.
func NewRouter(status StatusSource, history store.HistoryReader) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, ok := status.LastReport(); !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first pass"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		report, ok := status.LastReport()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first pass"})
			return
		}
		writeJSON(w, http.StatusOK, report)
	})

	if history != nil {
		r.Get("/history/{pageID}", func(w http.ResponseWriter, req *http.Request) {
			ref, err := models.NotionPageRef(chi.URLParam(req, "pageID"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}

			records, err := history.History(req.Context(), ref.ID)
			if err != nil {
				logger.Error("Failed to read sync history", err, map[string]interface{}{
					"page_id": ref.ID,
				})
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read history"})
				return
			}

			out := make([]historyEntry, 0, len(records))
			for _, rec := range records {
				out = append(out, historyEntry{
					PageID:     rec.PageID,
					MessageID:  rec.MessageID,
					LastEdited: rec.LastEdited,
					Title:      rec.Title,
					Archived:   rec.Archived,
				})
			}
			writeJSON(w, http.StatusOK, out)
		})
	}

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		})
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response", err)
	}
}
