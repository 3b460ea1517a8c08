package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type WorkerConfig struct {
	Workers        int
	MaxAttempts    uint
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 5
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 15 * time.Second
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	return c
}

// Worker drains a Queue into a Mailer. A notification that still fails after
// MaxAttempts is logged and dropped; the order it belongs to is already stored.
type Worker struct {
	queue  Queue
	mailer Mailer
	cfg    WorkerConfig
}

func NewWorker(queue Queue, mailer Mailer, cfg WorkerConfig) *Worker {
	return &Worker{queue: queue, mailer: mailer, cfg: cfg.withDefaults()}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	for {
		n, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to dequeue notification", "worker", id, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		if err := w.Deliver(ctx, n); err != nil {
			slog.Error("Giving up on order confirmation", "order_id", n.OrderID, "to", n.To, "error", err)
		}
	}
}

// Deliver sends n, retrying with exponential backoff.
func (w *Worker) Deliver(ctx context.Context, n Notification) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = w.cfg.InitialBackoff

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		n.Attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, w.cfg.AttemptTimeout)
		defer cancel()
		err := w.mailer.Send(attemptCtx, n)
		if err == nil {
			slog.Info("Order confirmation sent", "order_id", n.OrderID, "attempts", n.Attempts)
			return struct{}{}, nil
		}
		if errors.Is(err, ErrInvalidRecipient) {
			return struct{}{}, backoff.Permanent(err)
		}
		// The message may still be delivered; retrying could send it twice.
		if errors.Is(err, ErrSendInFlight) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
			slog.Warn("Order confirmation outcome unknown", "order_id", n.OrderID, "attempt", n.Attempts, "error", err)
			return struct{}{}, backoff.Permanent(err)
		}
		slog.Warn("Order confirmation attempt failed", "order_id", n.OrderID, "attempt", n.Attempts, "error", err)
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(w.cfg.MaxAttempts))
	return err
}

var (
	// ErrInvalidRecipient marks failures that retrying cannot fix.
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrSendInFlight means the attempt timed out while the transport was
	// still sending.
	ErrSendInFlight = errors.New("send still in flight")
)
