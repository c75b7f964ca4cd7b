package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"clinic-admin-api/internal/config"
	"clinic-admin-api/internal/metrics"

	"go.uber.org/zap"
)

// Dispatcher decouples request handling from broker delivery. Notify only
// enqueues; a single worker publishes in order. Delivery is at-most-once.
type Dispatcher struct {
	publisher Publisher
	queue     chan Event
	timeout   time.Duration
	log       *zap.Logger
	done      chan struct{}
	dropped   atomic.Int64

	// mu orders enqueues against shutdown: once stopped is set under the
	// write lock no Notify can add to the queue behind the final drain.
	mu      sync.RWMutex
	stopped bool
}

func NewDispatcher(publisher Publisher, cfg config.EventsConfig, log *zap.Logger) *Dispatcher {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	return &Dispatcher{
		publisher: publisher,
		queue:     make(chan Event, size),
		timeout:   cfg.PublishTimeout,
		log:       log,
		done:      make(chan struct{}),
	}
}

// Notify enqueues e and returns immediately. When the queue is full or the
// dispatcher has stopped the event is dropped and logged.
func (d *Dispatcher) Notify(e Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(e, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- e:
	default:
		d.drop(e, "queue full")
	}
}

// Start runs the delivery worker until ctx is cancelled, then publishes
// whatever is still queued and returns.
func (d *Dispatcher) Start(ctx context.Context) {
	defer close(d.done)
	d.log.Info("Event dispatcher started", zap.Int("queue_size", cap(d.queue)))

	for {
		select {
		case <-ctx.Done():
			d.mu.Lock()
			d.stopped = true
			d.mu.Unlock()
			d.drain()
			d.log.Info("Event dispatcher stopped")
			return
		case e := <-d.queue:
			d.publish(e)
		}
	}
}

// Done is closed once Start has drained the queue and returned.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func (d *Dispatcher) drain() {
	for {
		select {
		case e := <-d.queue:
			d.publish(e)
		default:
			return
		}
	}
}

// publish runs on its own context so request cancellation never reaches
// the broker call.
func (d *Dispatcher) publish(e Event) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	if err := d.publisher.Publish(ctx, e); err != nil {
		metrics.RecordEvent(e.EventName(), metrics.EventFailed)
		d.log.Warn("Event publish failed", zap.String("event", e.EventName()), zap.Error(err))
		return
	}
	metrics.RecordEvent(e.EventName(), metrics.EventPublished)
}

func (d *Dispatcher) drop(e Event, reason string) {
	d.dropped.Add(1)
	metrics.RecordEvent(e.EventName(), metrics.EventDropped)
	d.log.Warn("Event dropped", zap.String("event", e.EventName()), zap.String("reason", reason))
}
