package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"sentimentDashboard/internal/analytics"
	"sentimentDashboard/internal/charts"
	"sentimentDashboard/internal/dashboard"
	"sentimentDashboard/internal/dataset"
)

type handlers struct {
	svc *dashboard.Service
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("http: encode response failed")
	}
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrNegativeCapital),
		errors.Is(err, dashboard.ErrInvalidCapital),
		errors.Is(err, analytics.ErrUnknownStrategy),
		errors.Is(err, charts.ErrUnknownFigure):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoNarrator):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// build parses the query and recomputes the view, answering with an error
// itself when either step fails.
func (h *handlers) build(w http.ResponseWriter, r *http.Request) (*dashboard.View, bool) {
	c, err := parseControls(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	v, err := h.svc.Build(r.Context(), c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return v, true
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		http.Error(w, "Dataset unavailable: "+err.Error(), http.StatusInternalServerError)
		return
	}
	c, err := parseControls(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := h.svc.Build(r.Context(), c)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(opts, v, r.URL.Query(), h.svc.HasNarrator())); err != nil {
		log.Error().Err(err).Msg("http: render page failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.svc.Options(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, v)
}

type simulateResponse struct {
	Simulation analytics.Simulation `json:"simulation"`
	Tiles      []dashboard.Tile     `json:"tiles"`
	Equity     charts.EquityFigure  `json:"equity"`
	Notice     string               `json:"notice,omitempty"`
}

func (h *handlers) simulate(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, simulateResponse{
		Simulation: v.Simulation,
		Tiles:      v.SimulatorTiles,
		Equity:     v.Equity,
		Notice:     v.AntiFearNotice,
	})
}

func (h *handlers) insight(w http.ResponseWriter, r *http.Request) {
	c, err := parseControls(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	text, err := h.svc.Insight(r.Context(), c)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

func (h *handlers) export(w http.ResponseWriter, r *http.Request) {
	v, ok := h.build(w, r)
	if !ok {
		return
	}
	data, err := dataset.EncodeCSV(v.Records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard_view.csv"`)
	_, _ = w.Write(data)
}

func (h *handlers) clearCache(w http.ResponseWriter, _ *http.Request) {
	h.svc.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *handlers) chart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, err := charts.ParseKind(vars["name"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	format, err := charts.ParseFormat(vars["format"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	c, err := parseControls(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	img, err := h.svc.Image(r.Context(), c, kind, format)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}
