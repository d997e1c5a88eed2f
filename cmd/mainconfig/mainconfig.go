// Package mainconfig centralizes the wiring shared by the API and worker
// binaries: AWS SDK setup, the LLM provider chain, the hosted NLP clients,
// and Redis.
package mainconfig

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/redis/go-redis/v9"

	"github.com/healthsignal/symptom-ai-platform/internal/analysis"
	"github.com/healthsignal/symptom-ai-platform/internal/compliance"
	appconfig "github.com/healthsignal/symptom-ai-platform/internal/config"
	"github.com/healthsignal/symptom-ai-platform/internal/nlp"
	"github.com/healthsignal/symptom-ai-platform/internal/registry"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so both binaries share the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case sqs.ServiceID, dynamodb.ServiceID:
					return aws.Endpoint{
						URL:           endpoint,
						PartitionID:   "aws",
						SigningRegion: cfg.AWSRegion,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// BuildLLMChain assembles the configured provider chain. Returns nil when no
// provider has credentials; the service then starts at the NLP ensemble.
func BuildLLMChain(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (*analysis.FallbackLLMClient, string) {
	var providers []analysis.Provider

	for _, name := range []string{cfg.LLMPrimary, cfg.LLMFallback} {
		switch name {
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				continue
			}
			client, err := analysis.NewOpenAILLMClientFromKey(cfg.OpenAIAPIKey)
			if err != nil {
				logger.Warn("skipping openai provider", "error", err)
				continue
			}
			providers = append(providers, analysis.Provider{Name: "openai:" + cfg.OpenAIModel, Client: client})
		case "bedrock":
			if cfg.BedrockModelID == "" {
				continue
			}
			client := analysis.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
			providers = append(providers, analysis.Provider{Name: "bedrock:" + cfg.BedrockModelID, Client: client})
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				continue
			}
			client, err := analysis.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
			if err != nil {
				logger.Warn("skipping gemini provider", "error", err)
				continue
			}
			providers = append(providers, analysis.Provider{Name: "gemini:" + cfg.GeminiModelID, Client: client})
		case "":
		default:
			logger.Warn("unknown llm provider", "provider", name)
		}
	}

	if len(providers) == 0 {
		return nil, ""
	}

	model := cfg.OpenAIModel
	if cfg.LLMPrimary == "bedrock" {
		model = cfg.BedrockModelID
	} else if cfg.LLMPrimary == "gemini" {
		model = cfg.GeminiModelID
	}
	return analysis.NewFallbackLLMClient(logger, providers...), model
}

// BuildNLPEnsemble creates the hosted inference clients, or nils when no
// inference token is configured.
func BuildNLPEnsemble(cfg *appconfig.Config) (*nlp.EntityExtractor, *nlp.ZeroShotClassifier, *nlp.SeverityAnalyzer) {
	if cfg.InferenceToken == "" {
		return nil, nil, nil
	}

	client := nlp.NewClient(
		nlp.WithBaseURL(cfg.InferenceBaseURL),
		nlp.WithToken(cfg.InferenceToken),
		nlp.WithHTTPClient(&http.Client{Timeout: cfg.InferenceTimeout}),
		nlp.WithRateLimit(cfg.InferenceRateLimit, cfg.InferenceBurst),
	)

	extractor := nlp.NewEntityExtractor(client, cfg.NERModelID)
	zeroShot := nlp.NewZeroShotClassifier(client, cfg.ZeroShotModelID, nlp.MedicalCategories)
	severity := nlp.NewSeverityAnalyzer(client, cfg.SentimentModelID)
	return extractor, zeroShot, severity
}

// WarmupLoader returns a registry loader that primes the hosted ensemble
// models with a minimal inference call, so cold starts happen at boot instead
// of on the first request. Catalog models outside the ensemble are tracked
// without a warm-up.
func WarmupLoader(extractor *nlp.EntityExtractor, zeroShot *nlp.ZeroShotClassifier, severity *nlp.SeverityAnalyzer) registry.Loader {
	// Probe text avoids explicit severity terms so the sentiment model is
	// actually exercised.
	const probe = "persistent headache"
	return func(ctx context.Context, cfg registry.ModelConfig) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var err error
		switch cfg.Name {
		case registry.ModelBiomedicalNER:
			_, err = extractor.Extract(ctx, probe)
		case registry.ModelZeroShot:
			_, err = zeroShot.Classify(ctx, probe)
		case registry.ModelSymptomSeverity:
			_, err = severity.Score(ctx, probe)
		}
		if err != nil {
			return nil, err
		}
		return cfg.ModelID, nil
	}
}

// BuildDisclaimer translates the configured disclaimer level into the policy
// attached to every report. Unknown levels fall through to the full text.
func BuildDisclaimer(cfg *appconfig.Config) *compliance.DisclaimerService {
	return compliance.NewDisclaimerService(compliance.DisclaimerConfig{
		Level:   compliance.DisclaimerLevel(cfg.DisclaimerLevel),
		Enabled: true,
	})
}

// BuildRedis creates the Redis client for report history, or nil when no
// address is configured.
func BuildRedis(cfg *appconfig.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
