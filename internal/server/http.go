package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"sentimentDashboard/internal/dashboard"
)

// NewRouter registers the dashboard routes. webhook may be nil when the
// Telegram bot is disabled.
func NewRouter(svc *dashboard.Service, webhook http.HandlerFunc) *mux.Router {
	h := &handlers{svc: svc}

	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/", h.page).Methods("GET")
	r.HandleFunc("/api/options", h.options).Methods("GET")
	r.HandleFunc("/api/view", h.view).Methods("GET")
	r.HandleFunc("/api/simulate", h.simulate).Methods("GET")
	r.HandleFunc("/api/insight", h.insight).Methods("GET")
	r.HandleFunc("/api/export.csv", h.export).Methods("GET")
	r.HandleFunc("/api/cache/clear", h.clearCache).Methods("POST")
	r.HandleFunc("/charts/{name:[a-z]+}.{format:png|svg}", h.chart).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	if webhook != nil {
		r.HandleFunc("/telegram/webhook", webhook).Methods("POST")
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("address", addr).Msg("http: listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http: shutdown failed")
		return err
	}
	log.Info().Msg("http: stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		ev := log.Info()
		if rec.status >= 500 {
			ev = log.Error()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("elapsed", time.Since(start)).
			Msg("http: request")
	})
}
