package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yukikurage/bugfree-api/internal/constants"
)

var (
	ErrQueueFull        = errors.New("mail queue is full")
	ErrDispatcherClosed = errors.New("mail dispatcher is closed")
)

// Options tunes a Dispatcher. Zero values fall back to defaults.
type Options struct {
	QueueSize      int
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	SendTimeout    time.Duration
}

// Dispatcher queues messages and delivers them on a background worker,
// retrying failed sends with exponential backoff. Delivery is best effort:
// a message that exhausts its attempts is logged and dropped.
type Dispatcher struct {
	mailer Mailer
	logger *slog.Logger
	opts   Options

	queue  chan Message
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(mailer Mailer, logger *slog.Logger, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = constants.MailInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = constants.MailMaxBackoff
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = constants.MailSendTimeout
	}

	return &Dispatcher{
		mailer: mailer,
		logger: logger,
		opts:   opts,
		queue:  make(chan Message, opts.QueueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker. Cancelling ctx stops retries; queued
// messages still get a single attempt each until Close returns.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		defer close(d.done)
		for msg := range d.queue {
			d.deliver(ctx, msg)
		}
	}()
}

// Enqueue schedules a message without blocking.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrDispatcherClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting messages and waits for the worker to drain the
// queue. Start must have been called.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	backoff := d.opts.InitialBackoff

	for attempt := 1; attempt <= d.opts.MaxAttempts; attempt++ {
		err := d.send(ctx, msg)
		if err == nil {
			d.logger.Debug("mail sent", "kind", msg.Kind, "to", msg.To, "attempt", attempt)
			return
		}

		if attempt == d.opts.MaxAttempts || ctx.Err() != nil {
			d.logger.Error("mail delivery failed, dropping message",
				"kind", msg.Kind,
				"to", msg.To,
				"attempts", attempt,
				"error", err,
			)
			return
		}

		d.logger.Warn("mail send failed, will retry",
			"kind", msg.Kind,
			"to", msg.To,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
		}

		backoff *= 2
		if backoff > d.opts.MaxBackoff {
			backoff = d.opts.MaxBackoff
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, msg Message) error {
	sendCtx := context.WithoutCancel(ctx)
	sendCtx, cancel := context.WithTimeout(sendCtx, d.opts.SendTimeout)
	defer cancel()
	return d.mailer.Send(sendCtx, msg)
}
