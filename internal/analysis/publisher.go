package analysis

import (
	"context"
	"fmt"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

// Publisher enqueues analysis jobs for asynchronous processing.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("analysis: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// Enqueue publishes an analysis job under the given job ID.
func (p *Publisher) Enqueue(ctx context.Context, jobID string, req AnalyzeRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(queuePayload{ID: jobID, Request: req})
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("analysis: failed to enqueue job: %w", err)
	}

	p.logger.Debug("analysis job enqueued", "job_id", payload.ID)
	return nil
}
