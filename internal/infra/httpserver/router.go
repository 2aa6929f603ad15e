package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appinspection "github.com/bryanwahyu/inspection-ai/internal/application/inspection"
	"github.com/bryanwahyu/inspection-ai/internal/domain/analysis"
	"github.com/bryanwahyu/inspection-ai/internal/domain/faults"
	"github.com/bryanwahyu/inspection-ai/internal/domain/media"
	"github.com/bryanwahyu/inspection-ai/internal/domain/report"
	"github.com/bryanwahyu/inspection-ai/internal/domain/video"
	"github.com/bryanwahyu/inspection-ai/internal/middleware"
)

type Router struct {
	svc        *appinspection.Service
	reports    report.Repository // optional, may be nil
	faultsRepo faults.Repository // optional, may be nil
}

func NewRouter(svc *appinspection.Service, reports report.Repository, faultsRepo faults.Repository, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, reports: reports, faultsRepo: faultsRepo}
	mux := chi.NewRouter()

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Post("/v1/sessions", r.wrap(r.handleOpenSession))

	mux.Route("/v1/sessions/{session}", func(rt chi.Router) {
		rt.Post("/video", r.wrap(r.handleProcessVideo))
		rt.Post("/report", r.wrap(r.handleGenerateReport))
		rt.Get("/report/json", r.wrap(r.handleReportJSON))
		rt.Get("/report/pdf", r.wrap(r.handleReportPDF))
		rt.Get("/reports", r.wrap(r.handleReportHistory))
		rt.Get("/faults", r.wrap(r.handleFaults))
		rt.Delete("/", r.wrap(r.handleResetSession))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var synth *analysis.SynthesisError
			var decode *video.DecodeError
			switch {
			case errors.Is(err, sql.ErrNoRows), errors.Is(err, errSessionUnknown):
				http.Error(w, "not found", http.StatusNotFound)
			case errors.Is(err, analysis.ErrQuotaExceeded):
				http.Error(w, "analysis quota exceeded", http.StatusTooManyRequests)
			case errors.Is(err, analysis.ErrInvalidState):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, media.ErrAwaitTimeout):
				http.Error(w, err.Error(), http.StatusGatewayTimeout)
			case errors.As(err, &synth):
				http.Error(w, synth.Error(), http.StatusBadGateway)
			case errors.As(err, &decode):
				http.Error(w, decode.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

var errSessionUnknown = errors.New("unknown session")

// session path param harus cocok dengan sesi yang aktif
func (r *Router) activeSession(req *http.Request) (string, error) {
	session := chi.URLParam(req, "session")
	if err := middleware.ValidateSessionID(session); err != nil {
		return "", errSessionUnknown
	}
	if session != r.svc.SessionID() {
		return "", errSessionUnknown
	}
	return session, nil
}

// POST /v1/sessions
func (r *Router) handleOpenSession(w http.ResponseWriter, req *http.Request) error {
	id := r.svc.Start()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	return json.NewEncoder(w).Encode(map[string]string{"session_id": id})
}

// POST /v1/sessions/{session}/video
// Body: {"path": "/data/walkthrough.mp4"}
func (r *Router) handleProcessVideo(w http.ResponseWriter, req *http.Request) error {
	session, err := r.activeSession(req)
	if err != nil {
		return err
	}

	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	if err := middleware.ValidateVideoPath(body.Path); err != nil {
		return err
	}

	ids, err := r.svc.ProcessVideo(req.Context(), body.Path)
	if err != nil {
		middleware.IncrementAssetsFailed()
		return err
	}
	middleware.IncrementAssetsTracked()

	resp := map[string]any{
		"session_id": session,
		"asset_ids":  ids,
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /v1/sessions/{session}/report
func (r *Router) handleGenerateReport(w http.ResponseWriter, req *http.Request) error {
	if _, err := r.activeSession(req); err != nil {
		return err
	}

	rep, err := r.svc.GenerateReport(req.Context())
	if err != nil {
		middleware.IncrementReportsFailed()
		return err
	}
	middleware.IncrementReports()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(rep)
}

// GET /v1/sessions/{session}/report/json
func (r *Router) handleReportJSON(w http.ResponseWriter, req *http.Request) error {
	if _, err := r.activeSession(req); err != nil {
		return err
	}
	data, ok := r.svc.ReportJSON()
	if !ok {
		return fmt.Errorf("no report generated yet: %w", errSessionUnknown)
	}
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write(data)
	return err
}

// GET /v1/sessions/{session}/report/pdf
func (r *Router) handleReportPDF(w http.ResponseWriter, req *http.Request) error {
	if _, err := r.activeSession(req); err != nil {
		return err
	}
	data, ok := r.svc.ReportPDF()
	if !ok {
		return fmt.Errorf("no report generated yet: %w", errSessionUnknown)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="inspection-report.pdf"`)
	_, err := w.Write(data)
	return err
}

// GET /v1/sessions/{session}/reports?limit=20
func (r *Router) handleReportHistory(w http.ResponseWriter, req *http.Request) error {
	session, err := r.activeSession(req)
	if err != nil {
		return err
	}
	if r.reports == nil {
		http.Error(w, "report history not configured", http.StatusNotImplemented)
		return nil
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.reports.Latest(req.Context(), session, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// GET /v1/sessions/{session}/faults?limit=20
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
	session, err := r.activeSession(req)
	if err != nil {
		return err
	}
	if r.faultsRepo == nil {
		http.Error(w, "fault log not configured", http.StatusNotImplemented)
		return nil
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	list, err := r.faultsRepo.ListBySession(req.Context(), session, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}

// DELETE /v1/sessions/{session}
// Reset menghapus frame lokal + state sesi, lalu buka sesi baru.
func (r *Router) handleResetSession(w http.ResponseWriter, req *http.Request) error {
	if _, err := r.activeSession(req); err != nil {
		return err
	}
	id := r.svc.Reset()
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{"session_id": id})
}
