package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

const (
	defaultWorkerCount   = 2
	defaultWaitSeconds   = 2
	defaultBatchSize     = 5
	maxWaitSeconds       = 20
	maxReceiveBatchSize  = 10
	deleteTimeoutSeconds = 5
	analyzeTimeout       = 90 * time.Second
)

// Worker consumes analysis jobs from the queue and runs them through the
// service, recording the outcome in the job store.
type Worker struct {
	service *Service
	queue   queueClient
	jobs    JobUpdater
	history *ReportHistory
	logger  *logging.Logger

	cfg workerConfig
	wg  sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
	history          *ReportHistory
}

// WorkerOption customizes worker behavior.
type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the SQS long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds < 0 {
			return
		}
		if seconds > maxWaitSeconds {
			seconds = maxWaitSeconds
		}
		cfg.receiveWaitSecs = seconds
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size <= 0 {
			return
		}
		if size > maxReceiveBatchSize {
			size = maxReceiveBatchSize
		}
		cfg.receiveBatchSize = size
	}
}

// WithWorkerReportHistory wires a Redis-backed report history appended to on
// every completed job.
func WithWorkerReportHistory(history *ReportHistory) WorkerOption {
	return func(cfg *workerConfig) {
		cfg.history = history
	}
}

// NewWorker constructs a queue consumer around the provided service.
func NewWorker(service *Service, queue queueClient, jobs JobUpdater, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if service == nil {
		panic("analysis: service cannot be nil")
	}
	if queue == nil {
		panic("analysis: queue cannot be nil")
	}
	if jobs == nil {
		panic("analysis: job store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultWaitSeconds,
		receiveBatchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Worker{
		service: service,
		queue:   queue,
		jobs:    jobs,
		history: cfg.history,
		logger:  logger,
		cfg:     cfg,
	}
}

// Start launches worker goroutines until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("analysis worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("analysis worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive analysis jobs", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg queueMessage) {
	var payload queuePayload
	if err := json.Unmarshal([]byte(msg.Body), &payload); err != nil {
		w.logger.Error("failed to decode analysis job", "error", err)
		w.deleteMessage(context.Background(), msg.ReceiptHandle)
		return
	}

	w.logger.Info("worker processing analysis job", "job_id", payload.ID, "msg_id", msg.ID)

	jobCtx, cancel := context.WithTimeout(ctx, analyzeTimeout)
	report, err := w.service.Analyze(jobCtx, payload.Request)
	cancel()

	if err != nil {
		w.logger.Error("analysis job failed", "error", err, "job_id", payload.ID)
		if storeErr := w.jobs.MarkFailed(ctx, payload.ID, err.Error()); storeErr != nil {
			w.logger.Error("failed to update job status", "error", storeErr, "job_id", payload.ID)
		}
	} else {
		if storeErr := w.jobs.MarkCompleted(ctx, payload.ID, &report); storeErr != nil {
			w.logger.Error("failed to update job status", "error", storeErr, "job_id", payload.ID)
		}
		if w.history != nil && payload.Request.ClientID != "" {
			if histErr := w.history.Append(ctx, payload.Request.ClientID, report); histErr != nil {
				w.logger.Warn("failed to append report history", "error", histErr, "job_id", payload.ID)
			}
		}
		w.logger.Debug("analysis job processed", "job_id", payload.ID, "severity", report.Severity)
	}

	w.deleteMessage(context.Background(), msg.ReceiptHandle)
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSeconds*time.Second)
	defer cancel()

	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete analysis job", "error", err)
	}
}
