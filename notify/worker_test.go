package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySender fails a configured number of times before succeeding.
type flakySender struct {
	mu        sync.Mutex
	failures  int
	delivered []Message
}

func (s *flakySender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("relay refused")
	}
	s.delivered = append(s.delivered, msg)
	return nil
}

func (s *flakySender) deliveredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func fastPolicy(retries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:    retries,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func testMessage() Message {
	return Message{
		Kind:           KindBookingConfirmation,
		To:             []string{"client@example.com"},
		ReservationRef: "ref-1",
		CustomerName:   "Awa Diop",
		RoomName:       "Salle Baobab",
		StartDate:      "2024-03-10",
		EndDate:        "2024-03-12",
		TotalPrice:     400_000,
	}
}

func TestWorker_DeliversAfterRetries(t *testing.T) {
	sender := &flakySender{failures: 2}
	w := NewWorker(sender, fastPolicy(3), zerolog.Nop(), 8)
	w.Start()

	require.True(t, w.Enqueue(testMessage()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	assert.Equal(t, 1, sender.deliveredCount())
}

func TestWorker_GivesUpAfterMaxRetries(t *testing.T) {
	sender := &flakySender{failures: 100}
	w := NewWorker(sender, fastPolicy(2), zerolog.Nop(), 8)
	w.Start()

	require.True(t, w.Enqueue(testMessage()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	assert.Equal(t, 0, sender.deliveredCount())
}

func TestWorker_EnqueueNeverBlocksWhenSaturated(t *testing.T) {
	// A worker that was never started drains nothing, so the buffer fills.
	sender := &flakySender{}
	w := NewWorker(sender, fastPolicy(0), zerolog.Nop(), 2)

	assert.True(t, w.Enqueue(testMessage()))
	assert.True(t, w.Enqueue(testMessage()))

	done := make(chan bool, 1)
	go func() { done <- w.Enqueue(testMessage()) }()
	select {
	case accepted := <-done:
		assert.False(t, accepted, "a saturated queue must drop, not block")
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestWorker_DrainsQueueOnShutdown(t *testing.T) {
	sender := &flakySender{}
	w := NewWorker(sender, fastPolicy(0), zerolog.Nop(), 8)

	for i := 0; i < 5; i++ {
		require.True(t, w.Enqueue(testMessage()))
	}
	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	assert.Equal(t, 5, sender.deliveredCount())
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, InitialDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 4}
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 4*time.Second, p.NextDelay(2))
	assert.Equal(t, 10*time.Second, p.NextDelay(3), "clamped to MaxDelay")
	assert.Equal(t, time.Second, p.NextDelay(0), "attempt floor")
}
