package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/contacts-backend/internal/model"
)

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// ContactEvent records one mutation of the contact collection.
type ContactEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	ContactID  int            `json:"contact_id"`
	Contact    *model.Contact `json:"contact,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewContactEvent stamps an event with a fresh id. c is nil for deletions.
func NewContactEvent(typ EventType, id int, c *model.Contact) ContactEvent {
	return ContactEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		ContactID:  id,
		Contact:    c,
		OccurredAt: time.Now().UTC(),
	}
}

// DecodeContactEvent accepts either an in-process ContactEvent or the JSON
// body delivered by AMQPQueue.
func DecodeContactEvent(payload any) (ContactEvent, error) {
	switch p := payload.(type) {
	case ContactEvent:
		return p, nil
	case *ContactEvent:
		return *p, nil
	case []byte:
		var ev ContactEvent
		if err := json.Unmarshal(p, &ev); err != nil {
			return ev, fmt.Errorf("decode contact event: %w", err)
		}
		return ev, nil
	default:
		return ContactEvent{}, fmt.Errorf("invalid payload type %T, expected ContactEvent", payload)
	}
}
