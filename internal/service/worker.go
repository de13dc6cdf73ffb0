package service

import (
	"log/slog"
	"sync"

	"github.com/unclebandit/contacts-backend/internal/queue"
)

// Worker processes contact change events
type Worker struct {
	Logger *slog.Logger
	Events <-chan queue.ContactEvent
	// OnEvent is called for every decoded event; an error asks the broker to redeliver.
	OnEvent func(ev queue.ContactEvent) error

	mu     sync.Mutex
	counts map[queue.EventType]int
}

// Constructor
func NewWorker(logger *slog.Logger, events <-chan queue.ContactEvent, onEvent func(queue.ContactEvent) error) *Worker {
	return &Worker{
		Logger:  logger,
		Events:  events,
		OnEvent: onEvent,
		counts:  map[queue.EventType]int{},
	}
}

// Start processes events until the channel is closed.
func (w *Worker) Start() {
	for ev := range w.Events {
		if err := w.handle(ev); err != nil {
			w.Logger.Warn("failed to handle contact event", "event_id", ev.ID, "err", err)
		}
	}
}

// Process is a queue handler: it decodes payload and handles it. Payloads
// that cannot be decoded are logged and dropped.
func (w *Worker) Process(payload any) error {
	ev, err := queue.DecodeContactEvent(payload)
	if err != nil {
		w.Logger.Warn("invalid contact event", "err", err)
		return nil
	}
	return w.handle(ev)
}

func (w *Worker) handle(ev queue.ContactEvent) error {
	if w.OnEvent != nil {
		if err := w.OnEvent(ev); err != nil {
			return err
		}
	}

	w.mu.Lock()
	if w.counts == nil {
		w.counts = map[queue.EventType]int{}
	}
	w.counts[ev.Type]++
	w.mu.Unlock()

	w.Logger.Info("contact event processed",
		"event_id", ev.ID,
		"type", ev.Type,
		"contact_id", ev.ContactID,
		"occurred_at", ev.OccurredAt,
	)
	return nil
}

// Counts returns how many events of each type were handled.
func (w *Worker) Counts() map[queue.EventType]int {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[queue.EventType]int, len(w.counts))
	for k, v := range w.counts {
		out[k] = v
	}
	return out
}
