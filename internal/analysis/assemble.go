package analysis

import (
	"fmt"
	"strings"

	"github.com/healthsignal/symptom-ai-platform/internal/classifier"
	"github.com/healthsignal/symptom-ai-platform/internal/nlp"
)

// commonConditions are recognizable condition names matched directly against
// the symptom text.
var commonConditions = []string{
	"Common Cold", "Influenza", "COVID-19", "Migraine",
	"Tension Headache", "Hypertension", "Gastroenteritis",
	"Acid Reflux", "Allergic Rhinitis", "Sinusitis",
	"Urinary Tract Infection", "Asthma", "Bronchitis",
	"Pneumonia", "Arthritis", "Tendonitis", "Anxiety",
	"Depression", "Insomnia", "Conjunctivitis", "Dermatitis",
	"Rosacea", "Hypothyroidism", "Diabetes", "Anemia",
}

const ensembleModelsUsed = "Ensemble: Biomedical NER + Zero-Shot Classifier + Severity Analyzer"

// classTitle turns a zero-shot label like "respiratory symptoms" into a
// condition title like "Respiratory".
func classTitle(label string) string {
	label = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(label)), " symptoms")
	if label == "" {
		return ""
	}
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func classesContain(classes []string, fragment string) bool {
	for _, c := range classes {
		if strings.Contains(strings.ToLower(c), fragment) {
			return true
		}
	}
	return false
}

// buildEnsembleReport assembles an analysis from the NLP model outputs when
// no LLM is available. severityScore is on the 1-10 scale.
func buildEnsembleReport(req AnalyzeRequest, entities nlp.EntityExtraction, classes []string, severityScore int) Report {
	if severityScore <= 0 {
		severityScore = nlp.DefaultSeverityScore
	}
	severity := SeverityFromScore(severityScore)

	condition := "Symptom Analysis"
	if len(classes) > 0 {
		if title := classTitle(classes[0]); title != "" {
			condition = fmt.Sprintf("Possible %s Condition", title)
		}
	}

	symptoms := strings.ToLower(req.Symptoms)
	for _, common := range commonConditions {
		if strings.Contains(symptoms, strings.ToLower(common)) {
			condition = "Possible " + common
			break
		}
	}
	switch {
	case strings.Contains(symptoms, "chest") && strings.Contains(symptoms, "pain"):
		condition = "Possible Cardiovascular or Respiratory Issue"
		// Chest pain is never treated as low severity.
		severity = maxSeverity(severity, SeverityHigh)
	case strings.Contains(symptoms, "head") && strings.Contains(symptoms, "ache"):
		condition = "Possible Headache or Migraine"
	case (strings.Contains(symptoms, "stomach") || strings.Contains(symptoms, "abdomen")) && strings.Contains(symptoms, "pain"):
		condition = "Possible Gastrointestinal Issue"
	case strings.Contains(symptoms, "throat") && (strings.Contains(symptoms, "sore") || strings.Contains(symptoms, "pain")):
		condition = "Possible Upper Respiratory Infection"
	case (strings.Contains(symptoms, "rash") || strings.Contains(symptoms, "itch")) && (strings.Contains(symptoms, "skin") || strings.Contains(symptoms, "body")):
		condition = "Possible Skin Condition or Allergic Reaction"
	}

	recommendations := []string{
		"Monitor your symptoms closely",
		"Keep a record of your symptoms including timing and triggers",
		"Maintain proper hydration and rest",
	}
	if classesContain(classes, "respiratory") {
		recommendations = append(recommendations, "Consider using a humidifier to ease breathing")
	}
	if classesContain(classes, "gastrointestinal") {
		recommendations = append(recommendations, "Follow a bland diet until symptoms improve")
	}
	if classesContain(classes, "musculoskeletal") {
		recommendations = append(recommendations, "Apply ice to reduce inflammation and pain")
	}
	if classesContain(classes, "cardiovascular") {
		recommendations = append(recommendations, "Monitor your blood pressure if possible")
		severity = maxSeverity(severity, SeverityMedium)
	}
	if severity == SeverityHigh || severity == SeverityCritical {
		recommendations = append(recommendations, "Seek prompt medical attention")
	} else {
		recommendations = append(recommendations, "Consult with a healthcare professional if symptoms persist or worsen")
	}

	terms := enhanceWithTerminology(entities.Entities)

	var advice strings.Builder
	advice.WriteString("Based on our analysis of your symptoms")
	if req.Age > 0 {
		advice.WriteString(fmt.Sprintf(" at age %d", req.Age))
	}
	if strings.TrimSpace(req.Gender) != "" {
		advice.WriteString(fmt.Sprintf(" as a %s patient", req.Gender))
	}
	advice.WriteString(fmt.Sprintf(", you may be experiencing a %s severity %s. ", strings.ToLower(string(severity)), strings.ToLower(condition)))
	if len(terms) > 0 {
		preview := terms
		if len(preview) > 3 {
			preview = preview[:3]
		}
		advice.WriteString(fmt.Sprintf("Medical terminology relevant to your symptoms includes: %s. ", strings.Join(preview, ", ")))
	}
	advice.WriteString("We recommend monitoring your symptoms and consulting with a healthcare professional for proper diagnosis and treatment.")

	whenToSeekHelp := "Seek medical attention if your symptoms worsen or do not improve within a few days."
	switch severity {
	case SeverityHigh:
		whenToSeekHelp = "Seek prompt medical attention within 24-48 hours."
	case SeverityCritical:
		whenToSeekHelp = "Seek immediate medical attention or emergency care."
	}

	// Base confidence of 35 plus bounded contributions from each model, capped
	// below full LLM analysis.
	confidence := 35
	if n := len(entities.Entities); n > 0 {
		confidence += min(n*5, 25)
	}
	if n := len(classes); n > 0 {
		confidence += min(n*10, 25)
	}
	if n := len(terms); n > 0 {
		confidence += min(n*5, 15)
	}
	if confidence > 85 {
		confidence = 85
	}

	return Report{
		Condition:         condition,
		Severity:          severity,
		Advice:            advice.String(),
		Confidence:        confidence,
		Recommendations:   recommendations,
		WhenToSeekHelp:    whenToSeekHelp,
		UrgencyScore:      severityScore,
		EntitiesExtracted: entities.Entities,
		AIModelsUsed:      ensembleModelsUsed,
	}
}

// buildRuleBasedReport assembles an analysis from the keyword classifier when
// neither the LLM nor the NLP models are reachable.
func buildRuleBasedReport(req AnalyzeRequest, result classifier.Result) Report {
	condition := "Possible " + result.Description
	if result.PrimaryCategory == classifier.CategoryGeneral {
		condition = "General Symptom Assessment"
	}

	severity := SeverityFromScore(result.Urgency.Score)

	recommendations := []string{
		"Monitor your symptoms closely",
		"Keep a record of your symptoms including timing and triggers",
		"Maintain proper hydration and rest",
	}
	if result.Urgency.Level == classifier.UrgencyHigh {
		recommendations = append(recommendations, "Seek prompt medical attention")
	} else {
		recommendations = append(recommendations, "Consult with a healthcare professional if symptoms persist or worsen")
	}

	whenToSeekHelp := "Seek medical attention if your symptoms worsen or do not improve within a few days."
	switch severity {
	case SeverityHigh:
		whenToSeekHelp = "Seek prompt medical attention within 24-48 hours."
	case SeverityCritical:
		whenToSeekHelp = "Seek immediate medical attention or emergency care."
	}

	return Report{
		Condition:         condition,
		Severity:          severity,
		Advice:            fmt.Sprintf("Your symptoms match the %s category. We recommend monitoring your symptoms and consulting with a healthcare professional for proper diagnosis and treatment.", result.PrimaryCategory),
		Confidence:        int(result.Classification.Confidence * 100),
		Recommendations:   recommendations,
		WhenToSeekHelp:    whenToSeekHelp,
		UrgencyScore:      result.Urgency.Score,
		Category:          result.PrimaryCategory,
		EntitiesExtracted: result.MatchedKeywords,
		AIModelsUsed:      "Rule-Based Symptom Classifier",
	}
}

// staticFallbackReport is the last resort when every analysis layer fails.
func staticFallbackReport() Report {
	return Report{
		Condition:       "AI Analysis Unavailable",
		Severity:        SeverityMedium,
		Advice:          "We're unable to provide AI analysis at the moment. Please consult with a healthcare professional for proper evaluation of your symptoms.",
		Confidence:      0,
		Recommendations: []string{
			"Consult with a healthcare professional",
			"Monitor your symptoms closely",
			"Seek medical attention if symptoms worsen",
			"Keep a record of your symptoms",
		},
		WhenToSeekHelp:    "Seek immediate medical attention if you experience severe symptoms, difficulty breathing, chest pain, or if your condition rapidly worsens.",
		Disclaimer:        "AI analysis is temporarily unavailable. Always consult healthcare professionals for medical advice.",
		UrgencyScore:      5,
		EntitiesExtracted: []string{},
		AIModelsUsed:      "none",
	}
}
