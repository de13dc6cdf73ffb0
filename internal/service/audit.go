package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/unclebandit/contacts-backend/internal/queue"
)

// AuditLog appends one JSON line per contact event. Its Record method fits
// Worker.OnEvent.
type AuditLog struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewAuditLog(w io.Writer) *AuditLog {
	return &AuditLog{enc: json.NewEncoder(w)}
}

func (a *AuditLog) Record(ev queue.ContactEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.enc.Encode(ev); err != nil {
		return fmt.Errorf("write audit entry %s: %w", ev.ID, err)
	}
	return nil
}
