package analysis

import (
	"strings"
	"testing"

	"github.com/healthsignal/symptom-ai-platform/internal/classifier"
)

func TestParseLLMReport_FullResponse(t *testing.T) {
	raw := `{
		"condition": "Tension Headache",
		"severity": "Low",
		"advice": "Rest and hydrate.",
		"confidence": 82,
		"recommendations": ["Rest in a quiet room", "Drink water"],
		"whenToSeekHelp": "If the headache becomes severe."
	}`

	report, err := parseLLMReport(raw)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Condition != "Tension Headache" {
		t.Errorf("condition = %q", report.Condition)
	}
	if report.Severity != SeverityLow {
		t.Errorf("severity = %s", report.Severity)
	}
	if report.Confidence != 82 {
		t.Errorf("confidence = %d", report.Confidence)
	}
	if len(report.Recommendations) != 2 {
		t.Errorf("recommendations = %v", report.Recommendations)
	}
	// The disclaimer is attached by the service, not the parser.
	if report.Disclaimer != "" {
		t.Errorf("disclaimer = %q, want empty", report.Disclaimer)
	}
}

func TestParseLLMReport_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"condition\": \"Migraine\", \"severity\": \"Medium\", \"confidence\": 70}\n```"

	report, err := parseLLMReport(raw)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Condition != "Migraine" {
		t.Errorf("condition = %q", report.Condition)
	}
}

func TestParseLLMReport_DefaultsWhenFieldsMissing(t *testing.T) {
	report, err := parseLLMReport(`{"severity": "whatever"}`)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Condition != "Condition analysis unavailable" {
		t.Errorf("condition = %q", report.Condition)
	}
	if report.Severity != SeverityMedium {
		t.Errorf("invalid severity should default to Medium, got %s", report.Severity)
	}
	// Confidence key absent entirely defaults to 75.
	if report.Confidence != 75 {
		t.Errorf("confidence = %d, want 75", report.Confidence)
	}
	if len(report.Recommendations) == 0 {
		t.Error("expected a default recommendation")
	}
	if report.WhenToSeekHelp == "" {
		t.Error("expected default whenToSeekHelp")
	}
}

func TestParseLLMReport_ExplicitZeroConfidenceKept(t *testing.T) {
	report, err := parseLLMReport(`{"condition": "x", "confidence": 0}`)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Confidence != 0 {
		t.Errorf("explicit zero confidence should be kept, got %d", report.Confidence)
	}
}

func TestParseLLMReport_ClampsConfidence(t *testing.T) {
	report, err := parseLLMReport(`{"condition": "x", "confidence": 400}`)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", report.Confidence)
	}

	report, err = parseLLMReport(`{"condition": "x", "confidence": -5}`)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if report.Confidence != 0 {
		t.Errorf("confidence = %d, want 0", report.Confidence)
	}
}

func TestParseLLMReport_RecommendationsAsString(t *testing.T) {
	report, err := parseLLMReport(`{"condition": "x", "recommendations": "See a doctor"}`)
	if err != nil {
		t.Fatalf("parseLLMReport returned error: %v", err)
	}
	if len(report.Recommendations) != 1 || report.Recommendations[0] != "See a doctor" {
		t.Errorf("recommendations = %v", report.Recommendations)
	}
}

func TestParseLLMReport_RejectsNonJSON(t *testing.T) {
	if _, err := parseLLMReport("I am sorry, I cannot help with that."); err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestBuildMedicalPrompt_IncludesPatientContext(t *testing.T) {
	prompt := buildMedicalPrompt(AnalyzeRequest{
		Symptoms: "persistent cough and mild fever",
		Age:      42,
		Gender:   "female",
	}, classifier.Analyze("persistent cough and mild fever"), nil)

	for _, want := range []string{
		"persistent cough and mild fever",
		"42 years old",
		"Gender: female",
		`"severity": "Low|Medium|High|Critical"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildMedicalPrompt_IncludesHistoryMedicationsAndSelfSeverity(t *testing.T) {
	prompt := buildMedicalPrompt(AnalyzeRequest{
		Symptoms:               "sharp chest pain when breathing deeply",
		MedicalHistory:         "hypertension, asthma",
		CurrentMedications:     "lisinopril 10mg daily",
		SeveritySelfAssessment: 8,
	}, classifier.Analyze("sharp chest pain when breathing deeply"), []string{"chest pain"})

	for _, want := range []string{
		"Medical History: hypertension, asthma",
		"Current Medications: lisinopril 10mg daily",
		"Self-assessed severity (1-10): 8",
		"Extracted medical entities: chest pain",
		"Symptom category:",
		"Keyword urgency score (1-10):",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildMedicalPrompt_DefaultsForOmittedContext(t *testing.T) {
	prompt := buildMedicalPrompt(AnalyzeRequest{Symptoms: "sore throat for two days"},
		classifier.Analyze("sore throat for two days"), nil)

	if strings.Contains(prompt, "Age:") {
		t.Error("prompt should omit age when unset")
	}
	if strings.Contains(prompt, "Gender:") {
		t.Error("prompt should omit gender when unset")
	}
	for _, want := range []string{
		"Medical History: None provided",
		"Current Medications: None provided",
		"Self-assessed severity (1-10): Not provided",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "Extracted medical entities:") {
		t.Error("prompt should omit the entities line when none were extracted")
	}
}
