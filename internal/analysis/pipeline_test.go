package analysis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/healthsignal/symptom-ai-platform/pkg/logging"
)

type stubQueue struct {
	sent []string
}

func (s *stubQueue) Send(_ context.Context, body string) error {
	s.sent = append(s.sent, body)
	return nil
}

func (s *stubQueue) Receive(_ context.Context, _ int, _ int) ([]queueMessage, error) {
	return nil, context.Canceled
}

func (s *stubQueue) Delete(_ context.Context, _ string) error {
	return nil
}

func TestPublisher_EnqueueEncodesPayload(t *testing.T) {
	queue := &stubQueue{}
	publisher := NewPublisher(queue, logging.Default())

	req := AnalyzeRequest{Symptoms: "persistent cough and fever", ClientID: "client-1"}
	if err := publisher.Enqueue(context.Background(), "job-123", req); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}
	if len(queue.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(queue.sent))
	}

	var payload queuePayload
	if err := json.Unmarshal([]byte(queue.sent[0]), &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.ID != "job-123" {
		t.Errorf("job ID = %q", payload.ID)
	}
	if payload.Request.Symptoms != req.Symptoms {
		t.Errorf("symptoms = %q", payload.Request.Symptoms)
	}
}

func TestPublisher_GeneratesJobIDWhenEmpty(t *testing.T) {
	queue := &stubQueue{}
	publisher := NewPublisher(queue, logging.Default())

	if err := publisher.Enqueue(context.Background(), "", AnalyzeRequest{Symptoms: "mild sore throat today"}); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}

	var payload queuePayload
	if err := json.Unmarshal([]byte(queue.sent[0]), &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if payload.ID == "" {
		t.Error("expected generated job ID")
	}
}

func TestMemoryQueue_SendReceiveDelete(t *testing.T) {
	queue := NewMemoryQueue(4)
	ctx := context.Background()

	if err := queue.Send(ctx, "one"); err != nil {
		t.Fatalf("send returned error: %v", err)
	}
	if err := queue.Send(ctx, "two"); err != nil {
		t.Fatalf("send returned error: %v", err)
	}

	messages, err := queue.Receive(ctx, 10, 1)
	if err != nil {
		t.Fatalf("receive returned error: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Body != "one" || messages[1].Body != "two" {
		t.Errorf("bodies = %q, %q", messages[0].Body, messages[1].Body)
	}
	if messages[0].ReceiptHandle == "" {
		t.Error("expected receipt handle")
	}
	if err := queue.Delete(ctx, messages[0].ReceiptHandle); err != nil {
		t.Errorf("delete returned error: %v", err)
	}
}

func TestMemoryQueue_ReceiveTimesOut(t *testing.T) {
	queue := NewMemoryQueue(1)

	start := time.Now()
	messages, err := queue.Receive(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("receive returned error: %v", err)
	}
	if messages != nil {
		t.Fatalf("expected no messages, got %v", messages)
	}
	if time.Since(start) < 500*time.Millisecond {
		t.Error("expected receive to wait for the poll window")
	}
}

func TestMemoryQueue_ReceiveHonorsContext(t *testing.T) {
	queue := NewMemoryQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := queue.Receive(ctx, 1, 0); err == nil {
		t.Fatal("expected context error")
	}
}

func TestMemoryJobStore_Lifecycle(t *testing.T) {
	store := NewMemoryJobStore()
	ctx := context.Background()

	job := &JobRecord{JobID: "job-1", Request: &AnalyzeRequest{Symptoms: "persistent cough"}}
	if err := store.PutPending(ctx, job); err != nil {
		t.Fatalf("PutPending returned error: %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if got.Status != JobStatusPending {
		t.Errorf("status = %s", got.Status)
	}
	if got.ExpiresAt <= time.Now().Unix() {
		t.Error("expected TTL in the future")
	}

	report := &Report{Condition: "Bronchitis", Severity: SeverityMedium}
	if err := store.MarkCompleted(ctx, "job-1", report); err != nil {
		t.Fatalf("MarkCompleted returned error: %v", err)
	}
	got, err = store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob returned error: %v", err)
	}
	if got.Status != JobStatusCompleted || got.Report == nil || got.Report.Condition != "Bronchitis" {
		t.Errorf("job = %+v", got)
	}

	if err := store.MarkFailed(ctx, "job-1", "boom"); err != nil {
		t.Fatalf("MarkFailed returned error: %v", err)
	}
	got, _ = store.GetJob(ctx, "job-1")
	if got.Status != JobStatusFailed || got.ErrorMessage != "boom" || got.Report != nil {
		t.Errorf("job = %+v", got)
	}
}

func TestMemoryJobStore_UnknownJob(t *testing.T) {
	store := NewMemoryJobStore()
	if _, err := store.GetJob(context.Background(), "missing"); err != ErrJobNotFound {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
	if err := store.MarkCompleted(context.Background(), "missing", &Report{}); err != ErrJobNotFound {
		t.Fatalf("err = %v, want ErrJobNotFound", err)
	}
}

func TestWorker_ProcessesJobEndToEnd(t *testing.T) {
	queue := NewMemoryQueue(4)
	store := NewMemoryJobStore()
	svc := NewService(WithLogger(logging.Default()), fixedClock())
	worker := NewWorker(svc, queue, store, logging.Default(), WithWorkerCount(1))
	publisher := NewPublisher(queue, logging.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := AnalyzeRequest{Symptoms: "persistent cough and mild fever"}
	if err := store.PutPending(ctx, &JobRecord{JobID: "job-1", Request: &req}); err != nil {
		t.Fatalf("PutPending returned error: %v", err)
	}
	if err := publisher.Enqueue(ctx, "job-1", req); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}

	worker.Start(ctx)

	deadline := time.After(5 * time.Second)
	for {
		job, err := store.GetJob(ctx, "job-1")
		if err != nil {
			t.Fatalf("GetJob returned error: %v", err)
		}
		if job.Status == JobStatusCompleted {
			if job.Report == nil || job.Report.Condition == "" {
				t.Fatalf("completed job missing report: %+v", job)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed, status = %s", job.Status)
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	worker.Wait()
}

func TestWorker_MarksInvalidRequestFailed(t *testing.T) {
	queue := NewMemoryQueue(4)
	store := NewMemoryJobStore()
	svc := NewService(WithLogger(logging.Default()))
	worker := NewWorker(svc, queue, store, logging.Default(), WithWorkerCount(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := AnalyzeRequest{Symptoms: "short"}
	if err := store.PutPending(ctx, &JobRecord{JobID: "job-bad", Request: &req}); err != nil {
		t.Fatalf("PutPending returned error: %v", err)
	}
	if err := NewPublisher(queue, logging.Default()).Enqueue(ctx, "job-bad", req); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}

	worker.Start(ctx)

	deadline := time.After(5 * time.Second)
	for {
		job, err := store.GetJob(ctx, "job-bad")
		if err != nil {
			t.Fatalf("GetJob returned error: %v", err)
		}
		if job.Status == JobStatusFailed {
			if job.ErrorMessage == "" {
				t.Error("expected error message on failed job")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("job never failed, status = %s", job.Status)
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	worker.Wait()
}
