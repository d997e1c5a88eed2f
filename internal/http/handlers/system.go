// Package handlers holds HTTP handlers that do not belong to a single domain
// package, such as health and model status endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/healthsignal/symptom-ai-platform/internal/registry"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// SystemHandler serves health and model status endpoints.
type SystemHandler struct {
	models       *registry.Manager
	llmProviders []string
	nlpEnabled   bool
	logger       *logging.Logger
	started      time.Time
}

// NewSystemHandler creates the handler. models may be nil when the registry is
// not in use.
func NewSystemHandler(models *registry.Manager, llmProviders []string, nlpEnabled bool, logger *logging.Logger) *SystemHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SystemHandler{
		models:       models,
		llmProviders: llmProviders,
		nlpEnabled:   nlpEnabled,
		logger:       logger,
		started:      time.Now().UTC(),
	}
}

// Health handles GET /health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	providers := h.llmProviders
	if providers == nil {
		providers = []string{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"services": map[string]any{
			"llm_providers": providers,
			"llm_enabled":   len(providers) > 0,
			"nlp_enabled":   h.nlpEnabled,
		},
	})
}

// Models handles GET /models, returning the registry snapshot.
func (h *SystemHandler) Models(w http.ResponseWriter, r *http.Request) {
	if h.models == nil {
		http.Error(w, "Model registry is not enabled", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, http.StatusOK, h.models.Status())
}

func (h *SystemHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
