package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shiftwatch-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// Config holds dispatcher configuration
type Config struct {
	Workers   int           // default: 2
	QueueSize int           // default: 256
	Timeout   time.Duration // per delivery, default: 5s
}

type job struct {
	ctx context.Context
	msg notification.Message
}

type dispatcher struct {
	registry notification.Registry
	senders  map[notification.DestinationKind]notification.Sender
	logs     notification.DeliveryLogRepository
	hub      *sse.Hub
	config   Config
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

// NewDispatcher starts the delivery workers. Messages are rendered once and
// fanned out to every destination routed for their event; a failed delivery
// is logged and never retried. hub and logs may be nil.
func NewDispatcher(
	registry notification.Registry,
	senders []notification.Sender,
	logs notification.DeliveryLogRepository,
	hub *sse.Hub,
	cfg Config,
) notification.Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	d := &dispatcher{
		registry: registry,
		senders:  make(map[notification.DestinationKind]notification.Sender, len(senders)),
		logs:     logs,
		hub:      hub,
		config:   cfg,
		now:      time.Now,
		queue:    make(chan job, cfg.QueueSize),
	}
	for _, s := range senders {
		d.senders[s.Kind()] = s
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	slog.Info("notification dispatcher started", "workers", cfg.Workers, "queue_size", cfg.QueueSize)
	return d
}

// Dispatch implements notification.Dispatcher. It never blocks the caller:
// when the queue is full the message is dropped with a warning.
func (d *dispatcher) Dispatch(ctx context.Context, msg notification.Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = d.now()
	}

	if d.hub != nil && msg.RecipientID != "" {
		d.hub.Publish(msg.RecipientID, sse.Event{Name: string(msg.Event), Data: msg})
	}

	if len(d.registry.Destinations(msg.Event)) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		slog.Warn("notification dropped after shutdown", "event", msg.Event, "id", msg.ID)
		return
	}

	// delivery outlives the request but keeps its values
	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), msg: msg}:
	default:
		slog.Warn("notification queue full, dropping message", "event", msg.Event, "id", msg.ID)
	}
}

// Close stops accepting messages and waits for queued ones to be delivered.
func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
	slog.Info("notification dispatcher stopped")
}

func (d *dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		for _, kind := range d.registry.Destinations(j.msg.Event) {
			d.deliver(j.ctx, kind, j.msg)
		}
	}
}

func (d *dispatcher) deliver(ctx context.Context, kind notification.DestinationKind, msg notification.Message) {
	entry := notification.DeliveryLog{
		Event:       msg.Event,
		Destination: kind,
		Payload:     payloadOf(msg),
		CreatedAt:   d.now(),
	}

	sender, ok := d.senders[kind]
	if !ok {
		errMsg := notification.ErrDestinationNotEnabled.Error()
		entry.Error = &errMsg
		slog.Warn("notification destination not configured", "event", msg.Event, "destination", kind)
		d.record(ctx, entry)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	delivery, err := sender.Send(sendCtx, msg)
	cancel()

	entry.Target = delivery.Target
	if delivery.StatusCode != 0 {
		code := delivery.StatusCode
		entry.StatusCode = &code
	}
	if err != nil {
		errMsg := err.Error()
		entry.Error = &errMsg
		slog.Error("notification delivery failed",
			"event", msg.Event,
			"destination", kind,
			"target", delivery.Target,
			"error", err,
		)
	} else {
		entry.Success = true
	}

	d.record(ctx, entry)
}

func (d *dispatcher) record(ctx context.Context, entry notification.DeliveryLog) {
	if d.logs == nil {
		return
	}
	logCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()
	if err := d.logs.Create(logCtx, entry); err != nil {
		slog.Error("failed to write delivery log", "event", entry.Event, "destination", entry.Destination, "error", err)
	}
}

func payloadOf(msg notification.Message) map[string]interface{} {
	return map[string]interface{}{
		"id":          msg.ID,
		"event":       string(msg.Event),
		"subject":     msg.Subject,
		"text":        msg.Text,
		"data":        msg.Data,
		"occurred_at": msg.OccurredAt,
	}
}
