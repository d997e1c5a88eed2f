package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/healthsignal/symptom-ai-platform/internal/registry"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler(nil, []string{"openai:gpt-4o-mini", "bedrock:claude"}, true, logging.Default())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var payload struct {
		Status   string `json:"status"`
		Uptime   int    `json:"uptime_seconds"`
		Services struct {
			LLMProviders []string `json:"llm_providers"`
			LLMEnabled   bool     `json:"llm_enabled"`
			NLPEnabled   bool     `json:"nlp_enabled"`
		} `json:"services"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Status != "ok" {
		t.Errorf("status = %q", payload.Status)
	}
	if !payload.Services.LLMEnabled || !payload.Services.NLPEnabled {
		t.Errorf("services = %+v", payload.Services)
	}
	if len(payload.Services.LLMProviders) != 2 {
		t.Errorf("providers = %v", payload.Services.LLMProviders)
	}
}

func TestSystemHandler_HealthWithoutProviders(t *testing.T) {
	h := NewSystemHandler(nil, nil, false, logging.Default())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	services := payload["services"].(map[string]any)
	if services["llm_enabled"] != false {
		t.Errorf("llm_enabled = %v", services["llm_enabled"])
	}
	if services["llm_providers"] == nil {
		t.Error("llm_providers should be an empty list, not null")
	}
}

func TestSystemHandler_ModelsUnavailable(t *testing.T) {
	h := NewSystemHandler(nil, nil, false, logging.Default())

	rec := httptest.NewRecorder()
	h.Models(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSystemHandler_ModelsSnapshot(t *testing.T) {
	manager := registry.NewManager(logging.Default())
	h := NewSystemHandler(manager, nil, false, logging.Default())

	rec := httptest.NewRecorder()
	h.Models(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var status registry.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status.System.TotalModels == 0 {
		t.Error("expected catalog models in snapshot")
	}
	if len(status.Models) != status.System.TotalModels {
		t.Errorf("models = %d, total = %d", len(status.Models), status.System.TotalModels)
	}
}
