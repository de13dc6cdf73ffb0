package repository

import (
	"context"

	"github.com/unclebandit/contacts-backend/internal/model"
)

// ContactRepositoryInterface defines methods used by service.
// Unknown ids yield *appErrors.ErrContactNotFound.
type ContactRepositoryInterface interface {
	// List returns every contact in insertion order.
	List(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id int) (*model.Contact, error)
	// Create assigns c.ID and stores c.
	Create(ctx context.Context, c *model.Contact) error
	// Update replaces the stored record with c.ID.
	Update(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}
