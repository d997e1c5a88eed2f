package analysis

import (
	"sort"
	"strings"
)

// medicalTerms maps lay symptom wording to clinical terminology. Used to
// enrich ensemble advice and as a confidence signal.
var medicalTerms = map[string]string{
	"headache":            "cephalgia",
	"stomach pain":        "abdominal pain",
	"chest pain":          "angina",
	"shortness of breath": "dyspnea",
	"fast heartbeat":      "tachycardia",
	"slow heartbeat":      "bradycardia",
	"dizziness":           "vertigo",
	"fainting":            "syncope",
	"tiredness":           "fatigue",
	"joint pain":          "arthralgia",
	"muscle pain":         "myalgia",
	"fever":               "pyrexia",
	"high blood pressure": "hypertension",
	"low blood pressure":  "hypotension",
	"swelling":            "edema",
	"bruising":            "ecchymosis",
	"cough":               "tussis",
	"sore throat":         "pharyngitis",
	"runny nose":          "rhinorrhea",
	"vomiting":            "emesis",
	"nausea":              "queasiness",
	"blurred vision":      "visual disturbance",
	"itching":             "pruritus",
	"rash":                "dermatitis",
	"poor appetite":       "anorexia",
	"weight loss":         "cachexia",
	"numbness":            "paresthesia",
}

// enhanceWithTerminology annotates extracted entities with their clinical
// terms, e.g. "headache (cephalgia)". Entities without a known term but
// overlapping one are annotated via partial match.
func enhanceWithTerminology(entities []string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	// Deterministic order for partial matching.
	terms := make([]string, 0, len(medicalTerms))
	for term := range medicalTerms {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	for _, entity := range entities {
		lower := strings.ToLower(entity)
		if clinical, ok := medicalTerms[lower]; ok {
			add(entity + " (" + clinical + ")")
			continue
		}
		for _, term := range terms {
			if strings.Contains(lower, term) || strings.Contains(term, lower) {
				add(entity + " (" + medicalTerms[term] + ")")
				break
			}
		}
	}
	return out
}
