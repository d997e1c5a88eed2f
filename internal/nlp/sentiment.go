package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultSentimentModel scores the emotional intensity of symptom text.
const DefaultSentimentModel = "cardiffnlp/twitter-roberta-base-sentiment-latest"

// DefaultSeverityScore is the fallback severity when neither explicit terms
// nor the sentiment model give a signal.
const DefaultSeverityScore = 5

// severityTerms maps explicit severity wording to a 1-10 score. Ordered so
// the scan is deterministic; first match wins.
var severityTerms = []struct {
	Term  string
	Score int
}{
	{"life-threatening", 10},
	{"critical", 10},
	{"severe", 9},
	{"high", 8},
	{"significant", 7},
	{"moderate", 5},
	{"medium", 5},
	{"mild", 3},
	{"low", 2},
}

// severityScore returns the score for an exact severity term.
func severityScore(word string) (int, bool) {
	for _, st := range severityTerms {
		if st.Term == word {
			return st.Score, true
		}
	}
	return 0, false
}

// SeverityAnalyzer derives a 1-10 severity score from symptom text, using
// explicit severity wording first and a sentiment model as backstop.
type SeverityAnalyzer struct {
	client  *Client
	modelID string
}

// NewSeverityAnalyzer creates an analyzer. Empty modelID selects the default
// sentiment model.
func NewSeverityAnalyzer(client *Client, modelID string) *SeverityAnalyzer {
	if modelID == "" {
		modelID = DefaultSentimentModel
	}
	return &SeverityAnalyzer{client: client, modelID: modelID}
}

type sentimentRequest struct {
	Inputs  string       `json:"inputs"`
	Options modelOptions `json:"options"`
}

type sentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreFromText checks the text for explicit severity terms without touching
// the model.
func ScoreFromText(symptomsText string) (int, bool) {
	text := strings.ToLower(symptomsText)
	for _, st := range severityTerms {
		if strings.Contains(text, st.Term) {
			return st.Score, true
		}
	}
	return 0, false
}

// Score returns the 1-10 severity of the symptom text. Explicit severity
// wording short-circuits the model call. Negative sentiment with high
// confidence reads as more severe distress.
func (s *SeverityAnalyzer) Score(ctx context.Context, symptomsText string) (int, error) {
	if score, ok := ScoreFromText(symptomsText); ok {
		return score, nil
	}

	req := sentimentRequest{
		Inputs:  symptomsText,
		Options: modelOptions{WaitForModel: true},
	}
	body, err := s.client.Infer(ctx, s.modelID, req)
	if err != nil {
		return DefaultSeverityScore, err
	}

	top, err := decodeTopSentiment(body)
	if err != nil {
		return DefaultSeverityScore, err
	}

	return mapSentimentToSeverity(top.Label, top.Score), nil
}

// decodeTopSentiment handles both the nested and flat response shapes the
// text-classification endpoint produces.
func decodeTopSentiment(body []byte) (sentimentResult, error) {
	var nested [][]sentimentResult
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0][0], nil
	}
	var flat []sentimentResult
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat[0], nil
	}
	return sentimentResult{}, fmt.Errorf("nlp: decoding sentiment: unexpected response shape")
}

func mapSentimentToSeverity(label string, score float64) int {
	switch l := strings.ToUpper(label); {
	case strings.Contains(l, "NEG") && score > 0.8:
		return 8
	case strings.Contains(l, "NEG") && score > 0.6:
		return 7
	case strings.Contains(l, "NEG"):
		return 6
	case strings.Contains(l, "POS") && score > 0.8:
		return 3
	case strings.Contains(l, "POS"):
		return 4
	default:
		return DefaultSeverityScore
	}
}
