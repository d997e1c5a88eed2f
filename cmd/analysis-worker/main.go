package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/healthsignal/symptom-ai-platform/cmd/mainconfig"
	"github.com/healthsignal/symptom-ai-platform/internal/analysis"
	appconfig "github.com/healthsignal/symptom-ai-platform/internal/config"
	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).Component("analysis-worker")
	logger.Info("starting symptom-ai-platform analysis worker",
		"env", cfg.Env,
		"workers", cfg.WorkerCount,
	)

	if cfg.AnalysisQueueURL == "" {
		logger.Error("ANALYSIS_QUEUE_URL is required for the worker binary")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

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

	queue := analysis.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.AnalysisQueueURL)
	jobs := analysis.NewJobStore(dynamodb.NewFromConfig(awsCfg), cfg.AnalysisJobsTable, logger)
	history := analysis.NewReportHistory(mainconfig.BuildRedis(cfg))

	worker := analysis.NewWorker(service, queue, jobs, logger,
		analysis.WithWorkerCount(cfg.WorkerCount),
		analysis.WithWorkerReportHistory(history),
	)
	worker.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down analysis worker...")
	worker.Wait()
	logger.Info("analysis worker stopped")
}
