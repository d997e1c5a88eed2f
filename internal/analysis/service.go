package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/healthsignal/symptom-ai-platform/internal/classifier"
	"github.com/healthsignal/symptom-ai-platform/internal/compliance"
	"github.com/healthsignal/symptom-ai-platform/internal/nlp"
	"github.com/healthsignal/symptom-ai-platform/internal/triage"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

var analysisTracer = otel.Tracer("healthsignal.internal.analysis")

// Analysis stages, in fallback order.
const (
	StageLLM       = "llm"
	StageEnsemble  = "nlp_ensemble"
	StageRuleBased = "rule_based"
	StageStatic    = "static"
)

const (
	llmMaxTokens   = 800
	llmTemperature = 0.3
)

var analysisTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "healthsignal",
		Subsystem: "analysis",
		Name:      "analyses_total",
		Help:      "Completed symptom analyses by stage that produced the report",
	},
	[]string{"stage", "severity"},
)

var llmLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "healthsignal",
		Subsystem: "analysis",
		Name:      "llm_latency_seconds",
		Help:      "Latency of LLM completions",
		// Focus on sub-10s buckets with a few higher ones for visibility.
		Buckets: []float64{0.25, 0.5, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
	},
	[]string{"model", "status"},
)

var llmTokensTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "healthsignal",
		Subsystem: "analysis",
		Name:      "llm_tokens_total",
		Help:      "Tokens used by the LLM",
	},
	[]string{"model", "type"}, // type: input, output, total
)

func init() {
	prometheus.MustRegister(analysisTotal)
	prometheus.MustRegister(llmLatency)
	prometheus.MustRegister(llmTokensTotal)
}

// RegisterMetrics registers analysis metrics with a custom registry.
// Use this when exposing a non-default registry.
func RegisterMetrics(reg prometheus.Registerer) {
	if reg == nil || reg == prometheus.DefaultRegisterer {
		return
	}
	reg.MustRegister(analysisTotal, llmLatency, llmTokensTotal)
}

// Service runs symptom analysis through a chain of fallbacks: an LLM first,
// then the NLP model ensemble, then the rule-based keyword classifier. Every
// report carries classifier urgency and a triage assessment regardless of
// which stage produced it.
type Service struct {
	llm        *FallbackLLMClient
	llmModel   string
	extractor  *nlp.EntityExtractor
	zeroShot   *nlp.ZeroShotClassifier
	severity   *nlp.SeverityAnalyzer
	disclaimer *compliance.DisclaimerService
	logger     *logging.Logger
	now        func() time.Time
	newID      func() string
}

type ServiceOption func(*Service)

// WithLLM configures the LLM provider chain. Without it the service starts at
// the NLP ensemble stage.
func WithLLM(llm *FallbackLLMClient, model string) ServiceOption {
	return func(s *Service) {
		s.llm = llm
		s.llmModel = model
	}
}

// WithEnsemble configures the NLP model ensemble. Any of the three may be nil;
// entity extraction is the anchor and must be present for the stage to run.
func WithEnsemble(extractor *nlp.EntityExtractor, zeroShot *nlp.ZeroShotClassifier, severity *nlp.SeverityAnalyzer) ServiceOption {
	return func(s *Service) {
		s.extractor = extractor
		s.zeroShot = zeroShot
		s.severity = severity
	}
}

func WithLogger(logger *logging.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDisclaimer overrides the disclaimer policy attached to reports.
func WithDisclaimer(d *compliance.DisclaimerService) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.disclaimer = d
		}
	}
}

// WithClock overrides time and ID generation, for tests.
func WithClock(now func() time.Time, newID func() string) ServiceOption {
	return func(s *Service) {
		s.now = now
		s.newID = newID
	}
}

func NewService(opts ...ServiceOption) *Service {
	s := &Service{
		disclaimer: compliance.NewDisclaimerService(compliance.DefaultDisclaimerConfig()),
		logger:     logging.Default(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze produces a structured report for the request. It only fails on
// invalid input; every analysis stage has a fallback behind it, ending at the
// rule-based classifier which always succeeds.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (Report, error) {
	if err := req.Validate(); err != nil {
		return Report{}, err
	}

	ctx, span := analysisTracer.Start(ctx, "analysis.Analyze")
	defer span.End()

	cls := classifier.Analyze(req.Symptoms)
	report, stage := s.analyzeWithFallback(ctx, req, cls)
	s.finalize(&report, req, cls)

	span.SetAttributes(
		attribute.String("analysis.stage", stage),
		attribute.String("analysis.severity", string(report.Severity)),
		attribute.String("analysis.triage", string(report.Triage.Level)),
	)
	analysisTotal.WithLabelValues(stage, string(report.Severity)).Inc()
	s.logger.Info("symptom analysis completed",
		"analysis_id", report.AnalysisID,
		"stage", stage,
		"severity", report.Severity,
		"triage", report.Triage.Level,
	)
	return report, nil
}

func (s *Service) analyzeWithFallback(ctx context.Context, req AnalyzeRequest, cls classifier.Result) (Report, string) {
	// Entities are extracted once up front: they feed the LLM prompt as
	// preliminary signals and anchor the ensemble stage. Extraction failure
	// disables the ensemble but not the LLM.
	var (
		entities  nlp.EntityExtraction
		extracted bool
	)
	if s.extractor != nil {
		got, err := s.extractor.Extract(ctx, req.Symptoms)
		if err != nil {
			s.logger.Warn("entity extraction unavailable", "error", err)
		} else {
			entities = got
			extracted = true
		}
	}

	if s.llm != nil {
		report, err := s.analyzeWithLLM(ctx, req, cls, entities.Entities)
		if err == nil {
			return report, StageLLM
		}
		s.logger.Warn("llm analysis failed, falling back to nlp ensemble", "error", err)
	}

	if extracted {
		return s.analyzeWithEnsemble(ctx, req, entities), StageEnsemble
	}

	return buildRuleBasedReport(req, cls), StageRuleBased
}

func (s *Service) analyzeWithLLM(ctx context.Context, req AnalyzeRequest, cls classifier.Result, entities []string) (Report, error) {
	start := time.Now()
	resp, provider, err := s.llm.CompleteWithProvider(ctx, LLMRequest{
		Model:  s.llmModel,
		System: []string{llmSystemPrompt},
		Messages: []ChatMessage{
			{Role: ChatRoleUser, Content: buildMedicalPrompt(req, cls, entities)},
		},
		MaxTokens:   llmMaxTokens,
		Temperature: llmTemperature,
	})
	status := "ok"
	if err != nil {
		status = "error"
	}
	llmLatency.WithLabelValues(s.llmModel, status).Observe(time.Since(start).Seconds())
	if err != nil {
		return Report{}, err
	}

	llmTokensTotal.WithLabelValues(s.llmModel, "input").Add(float64(resp.Usage.InputTokens))
	llmTokensTotal.WithLabelValues(s.llmModel, "output").Add(float64(resp.Usage.OutputTokens))
	llmTokensTotal.WithLabelValues(s.llmModel, "total").Add(float64(resp.Usage.TotalTokens))

	report, err := parseLLMReport(resp.Text)
	if err != nil {
		return Report{}, err
	}
	report.AIModelsUsed = provider
	return report, nil
}

func (s *Service) analyzeWithEnsemble(ctx context.Context, req AnalyzeRequest, entities nlp.EntityExtraction) Report {
	var classes []string
	if s.zeroShot != nil {
		result, err := s.zeroShot.Classify(ctx, req.Symptoms)
		if err != nil {
			s.logger.Warn("zero-shot classification unavailable", "error", err)
		} else {
			classes = result.Labels
		}
	}

	score := nlp.DefaultSeverityScore
	if s.severity != nil {
		got, err := s.severity.Score(ctx, req.Symptoms)
		if err != nil {
			s.logger.Warn("severity scoring unavailable", "error", err)
		} else {
			score = got
		}
	}

	return buildEnsembleReport(req, entities, classes, score)
}

// finalize attaches the fields every report carries no matter which stage
// produced it.
func (s *Service) finalize(report *Report, req AnalyzeRequest, cls classifier.Result) {
	report.AnalysisID = s.newID()
	report.Timestamp = s.now().UTC()
	report.UrgencyLevel = cls.Urgency.Level
	if report.Category == "" {
		report.Category = cls.PrimaryCategory
	}
	if report.UrgencyScore <= 0 {
		report.UrgencyScore = cls.Urgency.Score
	}
	if report.Disclaimer == "" {
		report.Disclaimer = s.disclaimer.GetDisclaimerText()
	}

	// Triage uses the stronger of the red-flag text score and the report's
	// 1-10 urgency score.
	textScore := triage.ScoreText(req.Symptoms)
	scaleScore := float64(report.UrgencyScore) / 10.0
	if scaleScore > textScore {
		report.Triage = triage.Assess(scaleScore)
	} else {
		report.Triage = triage.Assess(textScore)
	}

	if report.Triage.Level == triage.LevelEmergency {
		report.WhenToSeekHelp = compliance.EmergencyNotice + " " + report.WhenToSeekHelp
	}
}

// FallbackReport returns the static last-resort report, stamped like a normal
// analysis. Callers use it when Analyze itself cannot run.
func (s *Service) FallbackReport() Report {
	report := staticFallbackReport()
	report.AnalysisID = s.newID()
	report.Timestamp = s.now().UTC()
	report.Triage = triage.FromUrgencyScale(report.UrgencyScore)
	analysisTotal.WithLabelValues(StageStatic, string(report.Severity)).Inc()
	return report
}
