package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"saarthi_backend/platform/apperr"
	"saarthi_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string                      { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool                { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string                { return "" }
func (c testSchedulerConfig) GetAsynqConcurrency() int                 { return 1 }
func (c testSchedulerConfig) GetRequalifySweepInterval() time.Duration { return time.Hour }

func TestEnqueueRequalificationDeduplicates(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	id := uuid.New()
	if err := client.EnqueueRequalification(context.Background(), id); err != nil {
		t.Fatalf("first enqueue failed: %v", err)
	}
	if err := client.EnqueueRequalification(context.Background(), id); err != nil {
		t.Fatalf("duplicate enqueue should be absorbed, got %v", err)
	}

	pending, err := mr.List("asynq:{default}:pending")
	if err != nil {
		t.Fatalf("read pending queue: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one pending task, got %d", len(pending))
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error without redis url")
	}
}

func TestRequalifyPayloadRoundTrip(t *testing.T) {
	id := uuid.New().String()
	task, err := NewRequalifyInquiryTask(RequalifyInquiryPayload{InquiryID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskRequalifyInquiry {
		t.Fatalf("unexpected task type %q", task.Type())
	}
	payload, err := ParseRequalifyInquiryPayload(task)
	if err != nil || payload.InquiryID != id {
		t.Fatalf("unexpected payload %+v (%v)", payload, err)
	}
}

type fakeRequalifier struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeRequalifier) RequalifyInquiry(_ context.Context, id uuid.UUID) error {
	f.calls = append(f.calls, id)
	return f.err
}

func TestHandleRequalifyInquiry(t *testing.T) {
	id := uuid.New()
	task, _ := NewRequalifyInquiryTask(RequalifyInquiryPayload{InquiryID: id.String()})

	t.Run("dispatches", func(t *testing.T) {
		req := &fakeRequalifier{}
		w := &Worker{requalifier: req, log: logger.Discard()}
		if err := w.handleRequalifyInquiry(context.Background(), task); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(req.calls) != 1 || req.calls[0] != id {
			t.Fatalf("unexpected calls %v", req.calls)
		}
	})

	t.Run("deleted inquiry is not retried", func(t *testing.T) {
		w := &Worker{requalifier: &fakeRequalifier{err: apperr.NotFound("inquiry not found")}, log: logger.Discard()}
		if err := w.handleRequalifyInquiry(context.Background(), task); err != nil {
			t.Fatalf("expected nil for missing inquiry, got %v", err)
		}
	})

	t.Run("transient failure is retried", func(t *testing.T) {
		w := &Worker{requalifier: &fakeRequalifier{err: errors.New("db down")}, log: logger.Discard()}
		err := w.handleRequalifyInquiry(context.Background(), task)
		if err == nil || errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected retryable error, got %v", err)
		}
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		w := &Worker{requalifier: &fakeRequalifier{}, log: logger.Discard()}
		bad := asynq.NewTask(TaskRequalifyInquiry, []byte(`{"inquiryId":"nope"}`))
		if err := w.handleRequalifyInquiry(context.Background(), bad); !errors.Is(err, asynq.SkipRetry) {
			t.Fatalf("expected SkipRetry, got %v", err)
		}
	})
}

type fakeSource struct {
	ids []uuid.UUID
	err error
}

func (f fakeSource) ActiveIDs(context.Context, int) ([]uuid.UUID, error) { return f.ids, f.err }

type fakeEnqueuer struct {
	ids    []uuid.UUID
	failOn uuid.UUID
}

func (f *fakeEnqueuer) EnqueueRequalification(_ context.Context, id uuid.UUID) error {
	if id == f.failOn {
		return errors.New("redis down")
	}
	f.ids = append(f.ids, id)
	return nil
}

func TestSweepEnqueuesActiveInquiries(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	enq := &fakeEnqueuer{failOn: ids[1]}
	sweep := NewRequalificationSweep(fakeSource{ids: ids}, enq, logger.Discard(), 0)

	if got := sweep.sweep(context.Background()); got != 2 {
		t.Fatalf("expected 2 enqueued, got %d", got)
	}
	if sweep.interval != defaultSweepInterval {
		t.Fatalf("expected default interval, got %s", sweep.interval)
	}
}

func TestSweepSourceFailure(t *testing.T) {
	enq := &fakeEnqueuer{}
	sweep := NewRequalificationSweep(fakeSource{err: errors.New("db down")}, enq, logger.Discard(), time.Minute)

	if got := sweep.sweep(context.Background()); got != 0 || len(enq.ids) != 0 {
		t.Fatalf("expected nothing enqueued, got %d", got)
	}
}
