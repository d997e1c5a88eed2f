package triage

import (
	"math"
	"testing"
)

func TestScoreText(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string
		want     float64
	}{
		{
			name:     "single red flag",
			symptoms: "I have chest pain",
			want:     0.3,
		},
		{
			name:     "red flag plus severe wording",
			symptoms: "severe headache that came on suddenly",
			// "severe headache" red flag + severe wording + sudden onset
			want: 0.7,
		},
		{
			name:     "multiple red flags capped",
			symptoms: "sudden severe abdominal pain with chest pain and difficulty breathing",
			want:     1.0,
		},
		{
			name:     "no indicators",
			symptoms: "a bit of a runny nose",
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreText(tt.symptoms)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ScoreText() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestAssessLevels(t *testing.T) {
	tests := []struct {
		score        float64
		wantLevel    Level
		wantColor    string
		wantPriority int
	}{
		{0.9, LevelEmergency, "red", 1},
		{0.8, LevelEmergency, "red", 1},
		{0.7, LevelUrgent, "orange", 2},
		{0.5, LevelSemiUrgent, "yellow", 3},
		{0.3, LevelRoutine, "green", 4},
		{0.1, LevelSelfCare, "blue", 5},
		{0, LevelSelfCare, "blue", 5},
	}

	for _, tt := range tests {
		got := Assess(tt.score)
		if got.Level != tt.wantLevel {
			t.Errorf("Assess(%f) level = %s, want %s", tt.score, got.Level, tt.wantLevel)
		}
		if got.ColorCode != tt.wantColor {
			t.Errorf("Assess(%f) color = %s, want %s", tt.score, got.ColorCode, tt.wantColor)
		}
		if got.Priority != tt.wantPriority {
			t.Errorf("Assess(%f) priority = %d, want %d", tt.score, got.Priority, tt.wantPriority)
		}
		if got.RecommendedAction == "" {
			t.Errorf("Assess(%f) missing recommended action", tt.score)
		}
	}
}

func TestAssessText(t *testing.T) {
	got := AssessText("sudden severe chest pain and difficulty breathing")
	if got.Level != LevelEmergency {
		t.Fatalf("expected emergency triage, got %s", got.Level)
	}
	if got.UrgencyScore != 1.0 {
		t.Fatalf("expected capped urgency score, got %f", got.UrgencyScore)
	}
}

func TestFromUrgencyScale(t *testing.T) {
	tests := []struct {
		score int
		want  Level
	}{
		{10, LevelEmergency},
		{8, LevelEmergency},
		{7, LevelUrgent},
		{5, LevelSemiUrgent},
		{3, LevelRoutine},
		{1, LevelSelfCare},
		{-1, LevelSelfCare},
		{15, LevelEmergency},
	}

	for _, tt := range tests {
		if got := FromUrgencyScale(tt.score); got.Level != tt.want {
			t.Errorf("FromUrgencyScale(%d) = %s, want %s", tt.score, got.Level, tt.want)
		}
	}
}
