package nlp

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultZeroShotModel is the zero-shot classification model.
const DefaultZeroShotModel = "facebook/bart-large-mnli"

// MedicalCategories are the candidate labels for zero-shot symptom
// classification.
var MedicalCategories = []string{
	"respiratory symptoms",
	"cardiovascular symptoms",
	"gastrointestinal symptoms",
	"neurological symptoms",
	"musculoskeletal symptoms",
	"dermatological symptoms",
	"psychological symptoms",
	"infectious disease symptoms",
	"urological symptoms",
	"gynecological symptoms",
	"emergency symptoms",
	"chronic pain symptoms",
}

const (
	// zeroShotRelevanceThreshold filters out labels the model barely endorses.
	zeroShotRelevanceThreshold = 0.15
	// zeroShotTopN bounds how many labels we consider relevant.
	zeroShotTopN = 5
)

// ZeroShotResult is a ranked classification of symptom text.
type ZeroShotResult struct {
	Labels []string           `json:"labels"`
	Scores map[string]float64 `json:"scores"`
}

// Primary returns the best-scoring label, or "" when nothing was relevant.
func (r ZeroShotResult) Primary() string {
	if len(r.Labels) == 0 {
		return ""
	}
	return r.Labels[0]
}

// ZeroShotClassifier classifies symptom text against the medical categories
// via the hosted inference API.
type ZeroShotClassifier struct {
	client  *Client
	modelID string
	labels  []string
}

// NewZeroShotClassifier creates a classifier. Empty modelID selects the
// default model; nil labels select the standard medical categories.
func NewZeroShotClassifier(client *Client, modelID string, labels []string) *ZeroShotClassifier {
	if modelID == "" {
		modelID = DefaultZeroShotModel
	}
	if len(labels) == 0 {
		labels = MedicalCategories
	}
	return &ZeroShotClassifier{client: client, modelID: modelID, labels: labels}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
	Options    modelOptions       `json:"options"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify returns the relevant categories for the symptom text, best first.
// Only the top few labels above the relevance threshold are kept, so a vague
// complaint can legitimately yield no labels at all.
func (z *ZeroShotClassifier) Classify(ctx context.Context, symptomsText string) (ZeroShotResult, error) {
	req := zeroShotRequest{
		Inputs: symptomsText,
		Parameters: zeroShotParameters{
			CandidateLabels: z.labels,
			MultiLabel:      true,
		},
		Options: modelOptions{WaitForModel: true},
	}

	body, err := z.client.Infer(ctx, z.modelID, req)
	if err != nil {
		return ZeroShotResult{}, err
	}

	var resp zeroShotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ZeroShotResult{}, fmt.Errorf("nlp: decoding classification: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return ZeroShotResult{}, fmt.Errorf("nlp: classification returned %d labels but %d scores", len(resp.Labels), len(resp.Scores))
	}

	result := ZeroShotResult{Scores: make(map[string]float64, len(resp.Labels))}
	for i, label := range resp.Labels {
		if i >= zeroShotTopN {
			break
		}
		if resp.Scores[i] <= zeroShotRelevanceThreshold {
			continue
		}
		result.Labels = append(result.Labels, label)
		result.Scores[label] = resp.Scores[i]
	}

	return result, nil
}
