package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const defaultQueueBuffer = 128

// MemoryQueue is a channel-backed queueClient for single-process deployments
// and tests. Delivery is at-most-once; Delete is a no-op.
type MemoryQueue struct {
	ch chan queueMessage
}

// NewMemoryQueue creates a MemoryQueue with the provided buffer capacity.
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = defaultQueueBuffer
	}
	return &MemoryQueue{ch: make(chan queueMessage, buffer)}
}

// Send enqueues a payload, blocking until there is buffer space or ctx is done.
func (q *MemoryQueue) Send(ctx context.Context, body string) error {
	select {
	case q.ch <- queueMessage{
		ID:            uuid.NewString(),
		Body:          body,
		ReceiptHandle: uuid.NewString(),
	}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive returns up to maxMessages, blocking for the first one until
// waitSeconds elapses (forever when zero) or ctx is done. A nil batch with a
// nil error means the poll window passed with nothing queued.
func (q *MemoryQueue) Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]queueMessage, error) {
	if maxMessages <= 0 {
		maxMessages = 1
	}

	// A nil channel blocks forever, so no timer means wait indefinitely.
	var window <-chan time.Time
	if waitSeconds > 0 {
		timer := time.NewTimer(time.Duration(waitSeconds) * time.Second)
		defer timer.Stop()
		window = timer.C
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-window:
		return nil, nil
	case first := <-q.ch:
		batch := []queueMessage{first}
		for len(batch) < maxMessages {
			select {
			case msg := <-q.ch:
				batch = append(batch, msg)
			default:
				return batch, nil
			}
		}
		return batch, nil
	}
}

// Delete is a no-op for the in-memory queue.
func (q *MemoryQueue) Delete(_ context.Context, _ string) error {
	return nil
}
