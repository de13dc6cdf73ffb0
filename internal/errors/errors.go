// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"strings"
)

// ErrContactNotFound is returned for operations on an unknown contact id
type ErrContactNotFound struct {
	ContactID int
}

func (e *ErrContactNotFound) Error() string {
	return fmt.Sprintf("contact with ID %d not found", e.ContactID)
}

// Helper constructor
func NewContactNotFound(id int) error {
	return &ErrContactNotFound{ContactID: id}
}

// FieldError describes one rejected field of a contact payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is returned when a contact payload fails validation.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
