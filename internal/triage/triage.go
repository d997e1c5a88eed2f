// Package triage maps symptom urgency onto a five-level medical triage scale.
package triage

import "strings"

// Level is a triage disposition, ordered from most to least urgent.
type Level string

const (
	LevelEmergency  Level = "emergency"
	LevelUrgent     Level = "urgent"
	LevelSemiUrgent Level = "semi_urgent"
	LevelRoutine    Level = "routine"
	LevelSelfCare   Level = "self_care"
)

// Assessment is the triage outcome for one analysis.
type Assessment struct {
	Level             Level   `json:"level"`
	Priority          int     `json:"priority"`
	RecommendedAction string  `json:"recommended_action"`
	ColorCode         string  `json:"color_code"`
	UrgencyScore      float64 `json:"urgency_score"`
}

type levelDef struct {
	Color    string
	Priority int
	Action   string
}

var levels = map[Level]levelDef{
	LevelEmergency:  {Color: "red", Priority: 1, Action: "Seek immediate emergency care"},
	LevelUrgent:     {Color: "orange", Priority: 2, Action: "See healthcare provider within 24 hours"},
	LevelSemiUrgent: {Color: "yellow", Priority: 3, Action: "Schedule appointment within 1-3 days"},
	LevelRoutine:    {Color: "green", Priority: 4, Action: "Schedule routine appointment"},
	LevelSelfCare:   {Color: "blue", Priority: 5, Action: "Monitor and self-care"},
}

// redFlags are symptom phrases that always escalate urgency.
var redFlags = []string{
	"chest pain",
	"difficulty breathing",
	"severe headache",
	"loss of consciousness",
	"severe abdominal pain",
	"signs of stroke",
	"severe allergic reaction",
}

var severeWords = []string{"severe", "intense", "debilitating", "excruciating"}

var suddenOnsetWords = []string{"sudden", "immediate", "rapid"}

// ScoreText computes a 0-1 urgency score from the symptom text: +0.3 per red
// flag, +0.2 for severe wording, +0.2 for sudden onset, capped at 1.0.
func ScoreText(symptomsText string) float64 {
	text := strings.ToLower(symptomsText)

	var score float64
	for _, flag := range redFlags {
		if strings.Contains(text, flag) {
			score += 0.3
		}
	}
	if containsAny(text, severeWords) {
		score += 0.2
	}
	if containsAny(text, suddenOnsetWords) {
		score += 0.2
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Assess converts a 0-1 urgency score into a triage assessment.
func Assess(urgencyScore float64) Assessment {
	var level Level
	switch {
	case urgencyScore >= 0.8:
		level = LevelEmergency
	case urgencyScore >= 0.6:
		level = LevelUrgent
	case urgencyScore >= 0.4:
		level = LevelSemiUrgent
	case urgencyScore >= 0.2:
		level = LevelRoutine
	default:
		level = LevelSelfCare
	}

	def := levels[level]
	return Assessment{
		Level:             level,
		Priority:          def.Priority,
		RecommendedAction: def.Action,
		ColorCode:         def.Color,
		UrgencyScore:      urgencyScore,
	}
}

// AssessText scores the symptom text and triages it in one step.
func AssessText(symptomsText string) Assessment {
	return Assess(ScoreText(symptomsText))
}

// FromUrgencyScale triages a 1-10 urgency score by normalizing to 0-1.
func FromUrgencyScale(score int) Assessment {
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return Assess(float64(score) / 10.0)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
