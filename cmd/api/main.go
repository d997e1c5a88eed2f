package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/healthsignal/symptom-ai-platform/cmd/mainconfig"
	"github.com/healthsignal/symptom-ai-platform/internal/analysis"
	"github.com/healthsignal/symptom-ai-platform/internal/api/router"
	appconfig "github.com/healthsignal/symptom-ai-platform/internal/config"
	"github.com/healthsignal/symptom-ai-platform/internal/http/handlers"
	"github.com/healthsignal/symptom-ai-platform/internal/registry"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel).Component("api")
	logger.Info("starting symptom-ai-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	// Analysis pipeline
	llmChain, llmModel := mainconfig.BuildLLMChain(ctx, cfg, awsCfg, logger)
	extractor, zeroShot, severity := mainconfig.BuildNLPEnsemble(cfg)

	serviceOpts := []analysis.ServiceOption{
		analysis.WithLogger(logger),
		analysis.WithDisclaimer(mainconfig.BuildDisclaimer(cfg)),
	}
	if llmChain != nil {
		serviceOpts = append(serviceOpts, analysis.WithLLM(llmChain, llmModel))
	}
	if extractor != nil {
		serviceOpts = append(serviceOpts, analysis.WithEnsemble(extractor, zeroShot, severity))
	}
	service := analysis.NewService(serviceOpts...)

	// Report history
	history := analysis.NewReportHistory(mainconfig.BuildRedis(cfg))

	// Async job pipeline: SQS + DynamoDB in production, in-process otherwise.
	// With SQS the separate worker binary does the consuming; the memory queue
	// is drained by an in-process worker.
	var (
		publisher *analysis.Publisher
		jobs      analysis.JobRecorder
	)
	if !cfg.UseMemoryQueue && cfg.AnalysisQueueURL != "" {
		queue := analysis.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.AnalysisQueueURL)
		store := analysis.NewJobStore(dynamodb.NewFromConfig(awsCfg), cfg.AnalysisJobsTable, logger)
		publisher = analysis.NewPublisher(queue, logger)
		jobs = store
	} else {
		queue := analysis.NewMemoryQueue(0)
		store := analysis.NewMemoryJobStore()
		publisher = analysis.NewPublisher(queue, logger)
		jobs = store

		worker := analysis.NewWorker(service, queue, store, logger,
			analysis.WithWorkerCount(cfg.WorkerCount),
			analysis.WithWorkerReportHistory(history),
		)
		worker.Start(ctx)
		defer worker.Wait()
	}

	// Model registry for the models endpoint; warm up the ensemble models
	// when hosted inference is configured.
	managerOpts := []registry.ManagerOption{registry.WithMemoryBudgetMB(cfg.ModelMemoryBudgetMB)}
	if extractor != nil {
		managerOpts = append(managerOpts, registry.WithLoader(mainconfig.WarmupLoader(extractor, zeroShot, severity)))
	}
	models := registry.NewManager(logger, managerOpts...)
	models.LoadByPriority(ctx, 0)

	// Handlers
	var llmProviders []string
	if llmChain != nil {
		llmProviders = llmChain.Providers()
	}
	analysisHandler := analysis.NewHandler(service, publisher, jobs, history, logger)
	systemHandler := handlers.NewSystemHandler(models, llmProviders, extractor != nil, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		AnalysisHandler:    analysisHandler,
		SystemHandler:      systemHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSec:    cfg.RateLimitPerSec,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
