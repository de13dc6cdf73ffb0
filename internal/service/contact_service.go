// internal/service/contact_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unclebandit/contacts-backend/internal/model"
	"github.com/unclebandit/contacts-backend/internal/queue"
	"github.com/unclebandit/contacts-backend/internal/repository"
)

type ContactService struct {
	ContactRepo repository.ContactRepositoryInterface
	Queue       queue.Queue
	Logger      *slog.Logger
}

// ListContacts runs the query against a snapshot of the collection.
func (s *ContactService) ListContacts(ctx context.Context, q model.ContactQuery) (model.ContactPage, error) {
	all, err := s.ContactRepo.List(ctx)
	if err != nil {
		return model.ContactPage{}, fmt.Errorf("list contacts: %w", err)
	}
	return QueryContacts(all, q), nil
}

// AllContacts returns the whole collection unfiltered, never nil.
func (s *ContactService) AllContacts(ctx context.Context) ([]model.Contact, error) {
	all, err := s.ContactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if all == nil {
		all = []model.Contact{}
	}
	return all, nil
}

func (s *ContactService) GetContact(ctx context.Context, id int) (*model.Contact, error) {
	return s.ContactRepo.GetByID(ctx, id)
}

func (s *ContactService) CreateContact(ctx context.Context, in model.ContactInput) (*model.Contact, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := in.ToContact(0)
	if err := s.ContactRepo.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	s.publish(queue.EventCreated, c.ID, &c)
	return &c, nil
}

// ReplaceContact overwrites every mutable field of contact id. An unknown id
// is reported before the payload is validated.
func (s *ContactService) ReplaceContact(ctx context.Context, id int, in model.ContactInput) (*model.Contact, error) {
	if _, err := s.ContactRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, in.ToContact(id))
}

// PatchContact applies the non-nil fields of patch; the merged record must
// still validate.
func (s *ContactService) PatchContact(ctx context.Context, id int, patch model.ContactPatch) (*model.Contact, error) {
	current, err := s.ContactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(*current)
	if err := updated.Input().Validate(); err != nil {
		return nil, err
	}
	return s.save(ctx, updated)
}

func (s *ContactService) ToggleFavourite(ctx context.Context, id int) (*model.Contact, error) {
	current, err := s.ContactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Favourite = !current.Favourite
	return s.save(ctx, *current)
}

func (s *ContactService) DeleteContact(ctx context.Context, id int) error {
	if err := s.ContactRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(queue.EventDeleted, id, nil)
	return nil
}

func (s *ContactService) save(ctx context.Context, c model.Contact) (*model.Contact, error) {
	if err := s.ContactRepo.Update(ctx, &c); err != nil {
		return nil, err
	}
	s.publish(queue.EventUpdated, c.ID, &c)
	return &c, nil
}

// publish never fails the caller; a lost event is only logged.
func (s *ContactService) publish(typ queue.EventType, id int, c *model.Contact) {
	if s.Queue == nil {
		return
	}
	if err := s.Queue.Publish(queue.TopicContactEvents, queue.NewContactEvent(typ, id, c)); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to publish contact event", "type", typ, "contact_id", id, "err", err)
	}
}
