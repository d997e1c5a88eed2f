package classifier

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// CategoryScore captures how strongly one category matched the input text.
type CategoryScore struct {
	Category        Category `json:"category"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
	Description     string   `json:"description"`
}

// Classification is the rule-based categorization of a symptom description.
type Classification struct {
	PrimaryCategory Category        `json:"primary_category"`
	Confidence      float64         `json:"confidence"`
	Description     string          `json:"description"`
	MatchedKeywords []string        `json:"matched_keywords"`
	AllCategories   []CategoryScore `json:"all_categories"`
}

// Urgency is the keyword-derived urgency assessment on a 1-10 scale.
type Urgency struct {
	Level      UrgencyLevel         `json:"urgency_level"`
	Score      int                  `json:"urgency_score"`
	Indicators map[UrgencyLevel]int `json:"urgency_indicators"`
}

// Result bundles classification and urgency for a single input.
type Result struct {
	Classification
	Urgency
}

var (
	boundaryOnce sync.Once
	boundaryRe   map[string]*regexp.Regexp
)

// compileBoundaries builds word-boundary matchers for every keyword once.
// The keyword tables are static, so this is cheap to do lazily.
func compileBoundaries() {
	boundaryRe = make(map[string]*regexp.Regexp)
	for _, def := range symptomCategories {
		for _, kw := range def.Keywords {
			if _, ok := boundaryRe[kw]; ok {
				continue
			}
			boundaryRe[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
}

// Classify scores the symptom text against every category's keyword
// dictionary. Each substring match counts 1 point; a word-boundary match adds
// another 0.5. The top-scoring category wins. Texts matching nothing fall back
// to the general category at 0.5 confidence.
func Classify(symptomsText string) Classification {
	boundaryOnce.Do(compileBoundaries)

	text := strings.ToLower(symptomsText)

	scores := make([]CategoryScore, 0, len(symptomCategories))
	for category, def := range symptomCategories {
		var score float64
		var matched []string
		for _, kw := range def.Keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			score++
			matched = append(matched, kw)
			if boundaryRe[kw].MatchString(text) {
				score += 0.5
			}
		}
		if score > 0 {
			scores = append(scores, CategoryScore{
				Category:        category,
				Score:           score,
				MatchedKeywords: matched,
				Description:     def.Description,
			})
		}
	}

	if len(scores) == 0 {
		return Classification{
			PrimaryCategory: CategoryGeneral,
			Confidence:      0.5,
			Description:     "General medical symptoms",
			MatchedKeywords: []string{},
			AllCategories:   []CategoryScore{},
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		// Deterministic order for equal scores.
		return scores[i].Category < scores[j].Category
	})

	primary := scores[0]
	maxPossible := float64(len(symptomCategories[primary.Category].Keywords))
	confidence := primary.Score/maxPossible*0.8 + 0.3
	if confidence > 0.95 {
		confidence = 0.95
	}

	return Classification{
		PrimaryCategory: primary.Category,
		Confidence:      confidence,
		Description:     primary.Description,
		MatchedKeywords: primary.MatchedKeywords,
		AllCategories:   scores,
	}
}

// AssessUrgency scans the text for urgency indicator keywords and derives a
// 1-10 urgency score. Any high indicator forces the high level.
func AssessUrgency(symptomsText string) Urgency {
	text := strings.ToLower(symptomsText)

	indicators := map[UrgencyLevel]int{
		UrgencyHigh:   0,
		UrgencyMedium: 0,
		UrgencyLow:    0,
	}
	for level, keywords := range urgencyKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				indicators[level]++
			}
		}
	}

	var level UrgencyLevel
	var score int
	switch {
	case indicators[UrgencyHigh] > 0:
		level = UrgencyHigh
		score = 7 + indicators[UrgencyHigh]
		if score > 10 {
			score = 10
		}
	case indicators[UrgencyMedium] > indicators[UrgencyLow]:
		level = UrgencyMedium
		score = 4 + min(3, indicators[UrgencyMedium])
	default:
		level = UrgencyLow
		score = 1 + min(3, indicators[UrgencyLow])
	}

	return Urgency{
		Level:      level,
		Score:      score,
		Indicators: indicators,
	}
}

// Analyze runs classification and urgency assessment in one call.
func Analyze(symptomsText string) Result {
	return Result{
		Classification: Classify(symptomsText),
		Urgency:        AssessUrgency(symptomsText),
	}
}
