package analysis

import (
	"fmt"
	"strings"

	"github.com/healthsignal/symptom-ai-platform/internal/classifier"
)

const llmSystemPrompt = "You are a knowledgeable medical AI assistant. Provide accurate, helpful, and conservative medical guidance while always emphasizing the importance of professional medical consultation for serious concerns."

const promptInstructions = `
INSTRUCTIONS:
Please provide your analysis in the following JSON format only (no additional text):

{
    "condition": "Most likely condition based on symptoms",
    "severity": "Low|Medium|High|Critical",
    "advice": "Primary medical advice and immediate care instructions",
    "confidence": 85,
    "recommendations": [
        "Specific recommendation 1",
        "Specific recommendation 2",
        "Specific recommendation 3"
    ],
    "whenToSeekHelp": "Clear criteria for when to seek immediate medical attention"
}

IMPORTANT GUIDELINES:
- Base severity on symptom urgency: Low (minor issues), Medium (concerning but not urgent), High (needs medical attention soon), Critical (seek immediate emergency care)
- Provide practical, actionable advice
- Include 3-4 specific recommendations for symptom management
- Always include clear criteria for when to seek professional medical help
- Be conservative in assessments - when in doubt, recommend medical consultation
- Do not provide specific drug dosages or prescription medication recommendations
`

// buildMedicalPrompt renders the structured analysis prompt for one request.
// The classifier result and any extracted entities ride along as preliminary
// signals so the model sees what the cheaper layers already found.
func buildMedicalPrompt(req AnalyzeRequest, cls classifier.Result, entities []string) string {
	var b strings.Builder
	b.WriteString("You are a medical AI assistant providing preliminary symptom analysis. Please analyze the following symptoms and provide a structured response.\n\n")
	b.WriteString("PATIENT INFORMATION:\n")
	b.WriteString(fmt.Sprintf("- Symptoms: %s\n", strings.TrimSpace(req.Symptoms)))
	if req.Age > 0 {
		b.WriteString(fmt.Sprintf("- Age: %d years old\n", req.Age))
	}
	if strings.TrimSpace(req.Gender) != "" {
		b.WriteString(fmt.Sprintf("- Gender: %s\n", req.Gender))
	}
	b.WriteString(fmt.Sprintf("- Medical History: %s\n", orFallback(req.MedicalHistory, "None provided")))
	b.WriteString(fmt.Sprintf("- Current Medications: %s\n", orFallback(req.CurrentMedications, "None provided")))
	if req.SeveritySelfAssessment > 0 {
		b.WriteString(fmt.Sprintf("- Self-assessed severity (1-10): %d\n", req.SeveritySelfAssessment))
	} else {
		b.WriteString("- Self-assessed severity (1-10): Not provided\n")
	}

	b.WriteString("\nPRELIMINARY SIGNALS (automated keyword and entity analysis):\n")
	b.WriteString(fmt.Sprintf("- Symptom category: %s", cls.PrimaryCategory))
	if len(cls.MatchedKeywords) > 0 {
		b.WriteString(fmt.Sprintf(" (matched: %s)", strings.Join(cls.MatchedKeywords, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("- Keyword urgency score (1-10): %d\n", cls.Urgency.Score))
	if len(entities) > 0 {
		b.WriteString(fmt.Sprintf("- Extracted medical entities: %s\n", strings.Join(entities, ", ")))
	}

	b.WriteString(promptInstructions)
	return b.String()
}

func orFallback(s, fallback string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return fallback
}
