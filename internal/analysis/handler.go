package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// Handler wires HTTP requests to the analysis service and job pipeline.
type Handler struct {
	service   *Service
	publisher *Publisher
	jobs      JobRecorder
	history   *ReportHistory
	logger    *logging.Logger
}

// NewHandler creates an analysis handler. publisher and jobs may be nil when
// async analysis is not enabled; history may be nil when Redis is not
// configured.
func NewHandler(service *Service, publisher *Publisher, jobs JobRecorder, history *ReportHistory, logger *logging.Logger) *Handler {
	if service == nil {
		panic("analysis: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:   service,
		publisher: publisher,
		jobs:      jobs,
		history:   history,
		logger:    logger,
	}
}

// Analyze handles POST /analyze.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode analyze request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.logger.Error("analysis failed, serving static fallback", "error", err)
		report = h.service.FallbackReport()
	}
	if h.history != nil && req.ClientID != "" {
		if err := h.history.Append(r.Context(), req.ClientID, report); err != nil {
			h.logger.Warn("failed to append report history", "error", err, "client_id", req.ClientID)
		}
	}

	h.writeJSON(w, http.StatusOK, report)
}

// AnalyzeAsync handles POST /analyze/async. It records a pending job,
// enqueues it, and returns 202 with the job ID.
func (h *Handler) AnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil || h.jobs == nil {
		http.Error(w, "Async analysis is not enabled", http.StatusServiceUnavailable)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode analyze request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobID := uuid.NewString()
	if err := h.jobs.PutPending(r.Context(), &JobRecord{JobID: jobID, Request: &req}); err != nil {
		h.logger.Error("failed to persist job", "error", err, "job_id", jobID)
		http.Error(w, "Failed to accept analysis job", http.StatusInternalServerError)
		return
	}
	if err := h.publisher.Enqueue(r.Context(), jobID, req); err != nil {
		h.logger.Error("failed to enqueue job", "error", err, "job_id", jobID)
		// The pending record is already stored; mark it failed so the job
		// does not sit in pending forever.
		if updater, ok := h.jobs.(JobUpdater); ok {
			if markErr := updater.MarkFailed(r.Context(), jobID, "failed to enqueue analysis job"); markErr != nil {
				h.logger.Error("failed to mark job failed", "error", markErr, "job_id", jobID)
			}
		}
		http.Error(w, "Failed to accept analysis job", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": string(JobStatusPending),
	})
}

// Job handles GET /jobs/{jobID}.
func (h *Handler) Job(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		http.Error(w, "Async analysis is not enabled", http.StatusServiceUnavailable)
		return
	}

	jobID := chi.URLParam(r, "jobID")
	job, err := h.jobs.GetJob(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch job", "error", err, "job_id", jobID)
		http.Error(w, "Failed to fetch job", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, job)
}

// Reports handles GET /reports/{clientID}.
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "Report history is not enabled", http.StatusServiceUnavailable)
		return
	}

	clientID := chi.URLParam(r, "clientID")
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	reports, err := h.history.List(r.Context(), clientID, limit)
	if err != nil {
		h.logger.Error("failed to list reports", "error", err, "client_id", clientID)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []Report{}
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"client_id": clientID,
		"count":     len(reports),
		"reports":   reports,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
