package queue

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TopicContactEvents carries ContactEvent payloads.
const TopicContactEvents = "contact_events"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers to in-process subscribers with retry
type InMemoryQueue struct {
	Logger  *slog.Logger
	Backoff time.Duration

	mu       sync.Mutex
	handlers map[string][]func(payload any) error
	wg       sync.WaitGroup
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *slog.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		Logger:   logger,
		Backoff:  500 * time.Millisecond,
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Topic:      topic,
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()

	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		q.Logger.Warn("job failed", "topic", job.Topic, "attempt", job.RetryCount, "max", job.MaxRetries, "err", err)

		if job.RetryCount > job.MaxRetries {
			q.Logger.Error("job permanently failed", "topic", job.Topic, "attempts", job.RetryCount)
			return // No requeue
		}

		time.Sleep(time.Duration(job.RetryCount) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has been handled.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

// StartContactEventSubscriber forwards every contact event published on q
// to sink. Payloads that are not contact events are logged and dropped.
func StartContactEventSubscriber(q Queue, sink chan<- ContactEvent, logger *slog.Logger) error {
	err := q.Subscribe(TopicContactEvents, func(payload any) error {
		ev, err := DecodeContactEvent(payload)
		if err != nil {
			logger.Warn("dropping contact event", "err", err)
			return nil // no retry
		}
		sink <- ev
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicContactEvents, err)
	}
	return nil
}
