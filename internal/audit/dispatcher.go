package audit

import (
	"context"

	"github.com/BruksfildServices01/horacerta/pkg/logging"
)

type Event struct {
	BarbershopID string
	CustomerID   string
	Action       string
	Entity       string
	EntityID     string
	Metadata     any
}

type Dispatcher struct {
	store  *Logger
	logger *logging.Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(store *Logger, logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	d := &Dispatcher{
		store:  store,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.store.Log(context.Background(), ev); err != nil {
			d.logger.Warn("audit: write failed", "action", ev.Action, "error", err)
		}
	}
}

// Dispatch never blocks; when the queue is full the event is dropped.
// A nil dispatcher ignores events.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit: queue full, dropping event", "action", ev.Action)
	}
}

// Close drains pending events and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	close(d.queue)
	<-d.done
}
