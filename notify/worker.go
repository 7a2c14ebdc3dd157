package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"salle-backend/metrics"
)

// Worker drains a buffered queue of messages and delivers them through a
// Sender with exponential-backoff retries. Delivery failures are logged
// and counted, never propagated: a reservation is committed before its
// mail is attempted and must not be rolled back by a relay outage.
type Worker struct {
	sender Sender
	policy RetryPolicy
	log    zerolog.Logger

	queue chan Message

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
	finished  chan struct{}
}

func NewWorker(sender Sender, policy RetryPolicy, log zerolog.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Worker{
		sender:   sender,
		policy:   policy,
		log:      log,
		queue:    make(chan Message, buffer),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start launches the dispatch goroutine. Calling it twice is a no-op.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Enqueue hands a message to the worker without blocking the caller.
// When the queue is saturated or the worker is stopping, the message is
// dropped with a log line; the reservation itself is already durable.
func (w *Worker) Enqueue(msg Message) bool {
	select {
	case <-w.done:
	default:
		select {
		case w.queue <- msg:
			return true
		default:
		}
	}
	w.log.Warn().
		Str("kind", string(msg.Kind)).
		Str("reservation", msg.ReservationRef).
		Msg("notification dropped, queue saturated or worker stopped")
	metrics.IncEmail("dropped")
	return false
}

// Shutdown stops intake and waits for in-flight deliveries until the
// context expires.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	select {
	case <-w.finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run() {
	defer close(w.finished)
	for {
		select {
		case msg := <-w.queue:
			w.deliver(msg)
		case <-w.done:
			// Drain what was already queued, then exit.
			for {
				select {
				case msg := <-w.queue:
					w.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (w *Worker) deliver(msg Message) {
	var err error
	for attempt := 1; ; attempt++ {
		err = w.sender.Send(msg)
		if err == nil {
			metrics.IncEmail("sent")
			w.log.Info().
				Str("kind", string(msg.Kind)).
				Str("reservation", msg.ReservationRef).
				Int("attempt", attempt).
				Msg("notification sent")
			return
		}
		if attempt > w.policy.MaxRetries {
			break
		}
		delay := w.policy.NextDelay(attempt)
		w.log.Warn().
			Err(err).
			Str("kind", string(msg.Kind)).
			Str("reservation", msg.ReservationRef).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("notification delivery failed, retrying")
		select {
		case <-time.After(delay):
		case <-w.done:
			// Shutting down: spend the remaining attempts without
			// waiting out the backoff so Shutdown is not held hostage.
		}
	}
	metrics.IncEmail("failed")
	w.log.Error().
		Err(err).
		Str("kind", string(msg.Kind)).
		Str("reservation", msg.ReservationRef).
		Msg("notification abandoned after retries")
}
