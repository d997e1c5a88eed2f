// Package compliance provides healthcare regulatory compliance features for
// AI-generated medical content.
package compliance

import (
	"fmt"
	"strings"
)

// DisclaimerLevel represents the verbosity of the disclaimer.
type DisclaimerLevel string

const (
	// DisclaimerShort is the shortest disclaimer.
	DisclaimerShort DisclaimerLevel = "short"
	// DisclaimerMedium is a moderate disclaimer.
	DisclaimerMedium DisclaimerLevel = "medium"
	// DisclaimerFull is the most comprehensive disclaimer.
	DisclaimerFull DisclaimerLevel = "full"
)

// StandardDisclaimer is attached to every analysis report.
const StandardDisclaimer = "This AI analysis is for informational purposes only and should not replace professional medical advice, diagnosis, or treatment. Always consult with a qualified healthcare provider for medical concerns."

// EmergencyNotice is prepended to escalation guidance when triage indicates an
// emergency.
const EmergencyNotice = "If this is a medical emergency, call your local emergency number immediately."

// Disclaimer templates
const (
	disclaimerShortText = "AI analysis. Not medical advice."

	disclaimerMediumText = "This is an automated symptom analysis. For medical advice, please consult a healthcare provider."

	disclaimerFullText = StandardDisclaimer
)

// DisclaimerConfig configures the disclaimer service.
type DisclaimerConfig struct {
	// Level determines which disclaimer template to use.
	Level DisclaimerLevel
	// Enabled controls whether disclaimers are added.
	Enabled bool
	// CustomText overrides the default template.
	CustomText string
}

// DefaultDisclaimerConfig returns sensible defaults.
func DefaultDisclaimerConfig() DisclaimerConfig {
	return DisclaimerConfig{
		Level:   DisclaimerFull,
		Enabled: true,
	}
}

// DisclaimerService handles adding legal disclaimers to generated text.
type DisclaimerService struct {
	config DisclaimerConfig
}

// NewDisclaimerService creates a new disclaimer service.
func NewDisclaimerService(config DisclaimerConfig) *DisclaimerService {
	return &DisclaimerService{config: config}
}

// GetDisclaimerText returns the appropriate disclaimer text.
func (s *DisclaimerService) GetDisclaimerText() string {
	if s.config.CustomText != "" {
		return s.config.CustomText
	}

	switch s.config.Level {
	case DisclaimerShort:
		return disclaimerShortText
	case DisclaimerMedium:
		return disclaimerMediumText
	default:
		return disclaimerFullText
	}
}

// AddDisclaimer appends the disclaimer to the text if configured and not
// already present.
func (s *DisclaimerService) AddDisclaimer(text string) string {
	if !s.config.Enabled {
		return text
	}

	disclaimer := s.GetDisclaimerText()
	if strings.Contains(text, disclaimer) {
		return text
	}

	return fmt.Sprintf("%s\n\n%s", strings.TrimSpace(text), disclaimer)
}

// ShouldAddDisclaimer checks if a disclaimer would be added.
func (s *DisclaimerService) ShouldAddDisclaimer() bool {
	return s.config.Enabled
}
