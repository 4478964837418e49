package events

import (
	"context"
	"errors"
	"testing"

	"roomly/pkg/logger"
)

func TestRetryCountOnZeroValueMessage(t *testing.T) {
	var msg Message

	if got := msg.RetryCount(); got != 0 {
		t.Fatalf("expected retry count 0, got %d", got)
	}

	msg.IncrementRetryCount()
	msg.IncrementRetryCount()

	if got := msg.RetryCount(); got != 2 {
		t.Fatalf("expected retry count 2, got %d", got)
	}
	if msg.Headers == nil {
		t.Fatal("expected header map to be allocated")
	}
}

func TestSetHeaderAllocatesLazily(t *testing.T) {
	var msg Message
	msg.setHeader("dlq-error", "broker down")

	if msg.Headers["dlq-error"] != "broker down" {
		t.Fatalf("unexpected headers: %v", msg.Headers)
	}
}

func TestProcessMessageIncrementsRetryCount(t *testing.T) {
	var counts []int
	c := &Consumer{
		maxRetries: 2,
		log:        logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT}),
		handler: func(ctx context.Context, msg Message) error {
			counts = append(counts, msg.RetryCount())
			return errors.New("handler down")
		},
	}

	// Zero-value headers so the retry path also proves nil-map safety.
	err := c.processMessage(context.Background(), Message{Key: "65a1", Value: []byte("{}")})
	if err == nil {
		t.Fatal("expected the handler error after exhausted retries")
	}

	if len(counts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(counts))
	}
	for i, got := range counts {
		if got != i {
			t.Errorf("attempt %d saw retry count %d", i+1, got)
		}
	}
}
