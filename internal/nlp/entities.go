package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultNERModel is the biomedical named-entity recognition model.
const DefaultNERModel = "d4data/biomedical-ner-all"

// entityScoreThreshold drops low-confidence recognitions.
const entityScoreThreshold = 0.7

// rawEntity is one recognized span as returned by the token-classification
// endpoint with simple aggregation.
type rawEntity struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

func (e rawEntity) label() string {
	if e.EntityGroup != "" {
		return e.EntityGroup
	}
	return e.Entity
}

// EntityExtraction groups recognized medical entities by kind. Entities is the
// consolidated deduplicated list used downstream.
type EntityExtraction struct {
	Entities           []string `json:"entities"`
	Symptoms           []string `json:"symptoms"`
	BodyParts          []string `json:"body_parts"`
	Diseases           []string `json:"diseases"`
	Treatments         []string `json:"treatments"`
	SeverityIndicators []string `json:"severity_indicators"`
}

// EntityExtractor runs biomedical NER against the hosted inference API.
type EntityExtractor struct {
	client  *Client
	modelID string
}

// NewEntityExtractor creates an extractor. An empty modelID selects the
// default biomedical model.
func NewEntityExtractor(client *Client, modelID string) *EntityExtractor {
	if modelID == "" {
		modelID = DefaultNERModel
	}
	return &EntityExtractor{client: client, modelID: modelID}
}

type nerRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters nerParameters `json:"parameters"`
	Options    modelOptions  `json:"options"`
}

type nerParameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

type modelOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Extract recognizes medical entities in the symptom text. Subword fragments,
// very short tokens, and spans scored at or below the confidence threshold
// are discarded.
func (x *EntityExtractor) Extract(ctx context.Context, symptomsText string) (EntityExtraction, error) {
	req := nerRequest{
		Inputs:     symptomsText,
		Parameters: nerParameters{AggregationStrategy: "simple"},
		Options:    modelOptions{WaitForModel: true},
	}

	body, err := x.client.Infer(ctx, x.modelID, req)
	if err != nil {
		return EntityExtraction{}, err
	}

	var raw []rawEntity
	if err := json.Unmarshal(body, &raw); err != nil {
		return EntityExtraction{}, fmt.Errorf("nlp: decoding entities: %w", err)
	}

	return groupEntities(raw), nil
}

// groupEntities buckets high-confidence recognitions by entity label and
// builds the consolidated entity list.
func groupEntities(raw []rawEntity) EntityExtraction {
	out := EntityExtraction{Entities: []string{}}

	for _, ent := range raw {
		word := strings.ToLower(strings.TrimSpace(ent.Word))
		if word == "" || strings.HasPrefix(word, "##") {
			continue
		}
		if ent.Score <= entityScoreThreshold {
			continue
		}

		label := strings.ToUpper(ent.label())
		switch {
		case strings.Contains(label, "SYMPTOM") || strings.Contains(label, "SIGN"):
			out.Symptoms = appendUnique(out.Symptoms, word)
		case strings.Contains(label, "DISEASE") || strings.Contains(label, "CONDITION") || strings.Contains(label, "DISORDER"):
			out.Diseases = appendUnique(out.Diseases, word)
		case strings.Contains(label, "BODY") || strings.Contains(label, "ORGAN") || strings.Contains(label, "ANATOM"):
			out.BodyParts = appendUnique(out.BodyParts, word)
		case strings.Contains(label, "TREATMENT") || strings.Contains(label, "PROCEDURE") || strings.Contains(label, "MEDICATION"):
			out.Treatments = appendUnique(out.Treatments, word)
		default:
			if _, ok := severityScore(word); ok {
				out.SeverityIndicators = appendUnique(out.SeverityIndicators, word)
			}
		}
	}

	// Consolidated list skips very short fragments.
	for _, word := range concat(out.Symptoms, out.BodyParts, out.Diseases) {
		if len(word) > 2 {
			out.Entities = appendUnique(out.Entities, word)
		}
	}

	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
