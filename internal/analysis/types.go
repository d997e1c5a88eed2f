// Package analysis implements AI-powered symptom analysis: an LLM reasoning
// layer with an NLP ensemble and rule-based classifier behind it, plus the
// async job pipeline and HTTP surface.
package analysis

import (
	"errors"
	"strings"
	"time"

	"github.com/healthsignal/symptom-ai-platform/internal/classifier"
	"github.com/healthsignal/symptom-ai-platform/internal/triage"
)

// Severity is the coarse severity bucket reported to callers.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// severityRank orders severities for comparisons.
func severityRank(s Severity) int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// maxSeverity returns the more serious of two severities.
func maxSeverity(a, b Severity) Severity {
	if severityRank(b) > severityRank(a) {
		return b
	}
	return a
}

// SeverityFromScore buckets a 1-10 urgency score.
func SeverityFromScore(score int) Severity {
	switch {
	case score >= 9:
		return SeverityCritical
	case score >= 7:
		return SeverityHigh
	case score >= 4:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

const (
	minSymptomsLength = 10
	maxSymptomsLength = 1000
)

// AnalyzeRequest is the inbound symptom analysis request. Medical history,
// current medications, and the self-assessed severity are optional context
// passed through to the LLM prompt.
type AnalyzeRequest struct {
	Symptoms               string `json:"symptoms"`
	Age                    int    `json:"age,omitempty"`
	Gender                 string `json:"gender,omitempty"`
	MedicalHistory         string `json:"medical_history,omitempty"`
	CurrentMedications     string `json:"current_medications,omitempty"`
	SeveritySelfAssessment int    `json:"severity_self_assessment,omitempty"`
	ClientID               string `json:"client_id,omitempty"`
}

// Validate enforces the request constraints.
func (r AnalyzeRequest) Validate() error {
	symptoms := strings.TrimSpace(r.Symptoms)
	if len(symptoms) < minSymptomsLength {
		return errors.New("analysis: symptoms must be at least 10 characters")
	}
	if len(symptoms) > maxSymptomsLength {
		return errors.New("analysis: symptoms must be at most 1000 characters")
	}
	if r.Age != 0 && (r.Age < 1 || r.Age > 120) {
		return errors.New("analysis: age must be between 1 and 120")
	}
	if r.SeveritySelfAssessment != 0 && (r.SeveritySelfAssessment < 1 || r.SeveritySelfAssessment > 10) {
		return errors.New("analysis: severity self-assessment must be between 1 and 10")
	}
	return nil
}

// Report is the structured analysis returned to callers.
type Report struct {
	AnalysisID        string                  `json:"analysis_id"`
	Condition         string                  `json:"condition"`
	Severity          Severity                `json:"severity"`
	Advice            string                  `json:"advice"`
	Confidence        int                     `json:"confidence"`
	Recommendations   []string                `json:"recommendations"`
	WhenToSeekHelp    string                  `json:"whenToSeekHelp"`
	Disclaimer        string                  `json:"disclaimer"`
	UrgencyScore      int                     `json:"urgency_score"`
	UrgencyLevel      classifier.UrgencyLevel `json:"urgency_level"`
	Triage            triage.Assessment       `json:"triage"`
	Category          classifier.Category     `json:"category,omitempty"`
	EntitiesExtracted []string                `json:"entities_extracted"`
	AIModelsUsed      string                  `json:"ai_models_used"`
	Timestamp         time.Time               `json:"timestamp"`
}
