package classifier

import (
	"strings"
	"testing"
)

func TestClassifyPrimaryCategory(t *testing.T) {
	tests := []struct {
		name         string
		symptoms     string
		wantCategory Category
	}{
		{
			name:         "respiratory plus emergency terms",
			symptoms:     "I have severe chest pain and shortness of breath",
			wantCategory: CategoryEmergency,
		},
		{
			name:         "neurological",
			symptoms:     "Persistent headache with dizziness and confusion for 3 days",
			wantCategory: CategoryNeurological,
		},
		{
			name:         "gastrointestinal",
			symptoms:     "stomach pain with nausea, vomiting and diarrhea after eating",
			wantCategory: CategoryGastrointestinal,
		},
		{
			name:         "dermatological",
			symptoms:     "Skin rash with itching and redness on my arms",
			wantCategory: CategoryDermatological,
		},
		{
			name:         "psychological",
			symptoms:     "Feeling anxiety and stress, having insomnia and trouble with sleep",
			wantCategory: CategoryPsychological,
		},
		{
			name:         "urological",
			symptoms:     "burning during urination and bladder pressure, possible UTI",
			wantCategory: CategoryUrological,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.symptoms)
			if got.PrimaryCategory != tt.wantCategory {
				t.Errorf("Classify() primary = %s, want %s (all: %+v)", got.PrimaryCategory, tt.wantCategory, got.AllCategories)
			}
			if got.Confidence <= 0.3 || got.Confidence > 0.95 {
				t.Errorf("Classify() confidence = %f, want in (0.3, 0.95]", got.Confidence)
			}
			if len(got.MatchedKeywords) == 0 {
				t.Error("Classify() matched no keywords")
			}
		})
	}
}

func TestClassifyNoMatchFallsBackToGeneral(t *testing.T) {
	got := Classify("I just feel a bit off today")
	if got.PrimaryCategory != CategoryGeneral {
		t.Fatalf("expected general category, got %s", got.PrimaryCategory)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("expected 0.5 confidence, got %f", got.Confidence)
	}
	if len(got.AllCategories) != 0 {
		t.Fatalf("expected no category scores, got %d", len(got.AllCategories))
	}
}

func TestClassifyWordBoundaryBonus(t *testing.T) {
	// "cough" as a full word should outscore a category matched only via substrings.
	got := Classify("a cough that will not go away")
	if got.PrimaryCategory != CategoryRespiratory {
		t.Fatalf("expected respiratory, got %s", got.PrimaryCategory)
	}
	if got.AllCategories[0].Score != 1.5 {
		t.Fatalf("expected 1.5 for a word-boundary match, got %f", got.AllCategories[0].Score)
	}
}

func TestClassifyConfidenceCapped(t *testing.T) {
	// Stuff the text with every respiratory keyword; confidence must stay <= 0.95.
	got := Classify(strings.Join(symptomCategories[CategoryRespiratory].Keywords, " and "))
	if got.Confidence > 0.95 {
		t.Fatalf("confidence %f exceeds cap", got.Confidence)
	}
}

func TestAssessUrgency(t *testing.T) {
	tests := []struct {
		name      string
		symptoms  string
		wantLevel UrgencyLevel
		wantScore int
	}{
		{
			name:      "high indicator dominates",
			symptoms:  "sudden severe abdominal pain",
			wantLevel: UrgencyHigh,
			wantScore: 9, // 7 + 2 indicators
		},
		{
			name:      "high score capped at 10",
			symptoms:  "sudden severe acute critical unbearable pain",
			wantLevel: UrgencyHigh,
			wantScore: 10,
		},
		{
			name:      "medium beats low",
			symptoms:  "persistent and worsening discomfort",
			wantLevel: UrgencyMedium,
			wantScore: 6, // 4 + 2
		},
		{
			name:      "low by default",
			symptoms:  "mild occasional twinge",
			wantLevel: UrgencyLow,
			wantScore: 3, // 1 + 2
		},
		{
			name:      "no indicators",
			symptoms:  "something feels different",
			wantLevel: UrgencyLow,
			wantScore: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessUrgency(tt.symptoms)
			if got.Level != tt.wantLevel {
				t.Errorf("AssessUrgency() level = %s, want %s", got.Level, tt.wantLevel)
			}
			if got.Score != tt.wantScore {
				t.Errorf("AssessUrgency() score = %d, want %d", got.Score, tt.wantScore)
			}
		})
	}
}

func TestAnalyzeCombines(t *testing.T) {
	got := Analyze("severe chest pain and shortness of breath")
	if got.PrimaryCategory == "" {
		t.Fatal("missing classification")
	}
	if got.Urgency.Level != UrgencyHigh {
		t.Fatalf("expected high urgency, got %s", got.Urgency.Level)
	}
}
