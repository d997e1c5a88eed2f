package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// llmReport is the JSON shape the LLM is instructed to produce.
type llmReport struct {
	Condition       string          `json:"condition"`
	Severity        string          `json:"severity"`
	Advice          string          `json:"advice"`
	Confidence      int             `json:"confidence"`
	Recommendations json.RawMessage `json:"recommendations"`
	WhenToSeekHelp  string          `json:"whenToSeekHelp"`
}

// stripCodeFences removes markdown code fences the model sometimes wraps
// around its JSON despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	}
	if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// parseLLMReport decodes the model output into a report, filling defaults for
// anything missing and clamping confidence to 0-100. The disclaimer is left
// empty; finalize attaches the configured one.
func parseLLMReport(raw string) (Report, error) {
	cleaned := stripCodeFences(raw)

	var decoded llmReport
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return Report{}, fmt.Errorf("analysis: llm response was not valid JSON: %w", err)
	}

	report := Report{
		Condition:      decoded.Condition,
		Advice:         decoded.Advice,
		Confidence:     decoded.Confidence,
		WhenToSeekHelp: decoded.WhenToSeekHelp,
	}

	if report.Condition == "" {
		report.Condition = "Condition analysis unavailable"
	}
	if report.Advice == "" {
		report.Advice = "Please consult with a healthcare professional for proper evaluation."
	}
	if report.WhenToSeekHelp == "" {
		report.WhenToSeekHelp = "Seek medical attention if symptoms worsen or persist."
	}
	if decoded.Confidence == 0 && !strings.Contains(cleaned, `"confidence"`) {
		report.Confidence = 75
	}
	if report.Confidence < 0 {
		report.Confidence = 0
	}
	if report.Confidence > 100 {
		report.Confidence = 100
	}

	switch Severity(decoded.Severity) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		report.Severity = Severity(decoded.Severity)
	default:
		report.Severity = SeverityMedium
	}

	report.Recommendations = decodeRecommendations(decoded.Recommendations)

	return report, nil
}

// decodeRecommendations tolerates both the list form the prompt asks for and
// a bare string some models return.
func decodeRecommendations(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{"Consult with a healthcare professional"}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}
	return []string{"Consult with a healthcare professional"}
}
