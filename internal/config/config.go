package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string

	// Async analysis pipeline
	UseMemoryQueue    bool
	WorkerCount       int
	AnalysisQueueURL  string
	AnalysisJobsTable string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// LLM providers
	LLMPrimary        string
	LLMFallback       string
	OpenAIAPIKey      string
	OpenAIModel       string
	BedrockModelID    string
	GeminiAPIKey      string
	GeminiModelID     string
	LLMTimeout        time.Duration
	LLMMaxTokens      int
	LLMTemperature    float64

	// Hosted NLP inference (Hugging Face Inference API)
	InferenceBaseURL   string
	InferenceToken     string
	InferenceTimeout   time.Duration
	InferenceRateLimit float64
	InferenceBurst     int
	NERModelID         string
	ZeroShotModelID    string
	SentimentModelID   string

	// Model registry
	ModelMemoryBudgetMB int

	// Redis report cache
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int

	// Disclaimer
	DisclaimerLevel string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		UseMemoryQueue:    getEnvAsBool("USE_MEMORY_QUEUE", false),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 2),
		AnalysisQueueURL:  getEnv("ANALYSIS_QUEUE_URL", ""),
		AnalysisJobsTable: getEnv("ANALYSIS_JOBS_TABLE", "analysis_jobs"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		LLMPrimary:     strings.ToLower(strings.TrimSpace(getEnv("LLM_PRIMARY", "openai"))),
		LLMFallback:    strings.ToLower(strings.TrimSpace(getEnv("LLM_FALLBACK", ""))),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		BedrockModelID: getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModelID:  getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),
		LLMTimeout:     getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		LLMMaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", 800),
		LLMTemperature: getEnvAsFloat("LLM_TEMPERATURE", 0.3),

		InferenceBaseURL:   getEnv("INFERENCE_BASE_URL", "https://api-inference.huggingface.co"),
		InferenceToken:     getEnv("INFERENCE_TOKEN", ""),
		InferenceTimeout:   getEnvAsDuration("INFERENCE_TIMEOUT", 15*time.Second),
		InferenceRateLimit: getEnvAsFloat("INFERENCE_RATE_LIMIT", 5),
		InferenceBurst:     getEnvAsInt("INFERENCE_BURST", 10),
		NERModelID:         getEnv("NER_MODEL_ID", "d4data/biomedical-ner-all"),
		ZeroShotModelID:    getEnv("ZERO_SHOT_MODEL_ID", "facebook/bart-large-mnli"),
		SentimentModelID:   getEnv("SENTIMENT_MODEL_ID", "cardiffnlp/twitter-roberta-base-sentiment-latest"),

		ModelMemoryBudgetMB: getEnvAsInt("MODEL_MEMORY_BUDGET_MB", 8000),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
		RateLimitPerSec:    getEnvAsFloat("RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		DisclaimerLevel: getEnv("DISCLAIMER_LEVEL", "full"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
