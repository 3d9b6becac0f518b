package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

// EventService handles event business logic
type EventService struct {
	eventRepo    repository.EventRepository
	attendeeRepo repository.AttendeeRepository
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, attendeeRepo repository.AttendeeRepository) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
	}
}

// CreateEventInput represents input for creating an event
type CreateEventInput struct {
	Name        string           `json:"name" validate:"required,notblank,max=255,nomarkup"`
	Description string           `json:"description" validate:"max=10000,nomarkup"`
	Location    string           `json:"location" validate:"max=255,nomarkup"`
	Date        *utils.Timestamp `json:"date"`
	Attendees   []string         `json:"attendees"`
}

// UpdateEventInput represents a partial event update. Nil fields are left
// untouched; ClearDate unsets the date.
type UpdateEventInput struct {
	Name        *string          `json:"name" validate:"omitnil,notblank,max=255,nomarkup"`
	Description *string          `json:"description" validate:"omitnil,max=10000,nomarkup"`
	Location    *string          `json:"location" validate:"omitnil,max=255,nomarkup"`
	Date        *utils.Timestamp `json:"date"`
	Attendees   *[]string        `json:"attendees"`
	ClearDate   bool             `json:"-"`
}

// CreateEvent validates the payload and stores a new event
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	attendeeIDs, err := s.resolveAttendeeIDs(ctx, input.Attendees)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:          utils.NewID(),
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		Date:        input.Date.Ptr(),
		AttendeeIDs: attendeeIDs,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return s.GetEvent(ctx, event.ID)
}

// ListEvents returns every event with attendees populated
func (s *EventService) ListEvents(ctx context.Context, opts repository.ListOptions) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent returns a single event with attendees populated
func (s *EventService) GetEvent(ctx context.Context, rawID string) (*models.Event, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// UpdateEvent merges the provided fields onto an existing event
func (s *EventService) UpdateEvent(ctx context.Context, rawID string, input UpdateEventInput) (*models.Event, error) {
	event, err := s.GetEvent(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		event.Name = *input.Name
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.ClearDate {
		event.Date = nil
	} else if input.Date != nil {
		event.Date = input.Date.Ptr()
	}
	if input.Attendees != nil {
		attendeeIDs, err := s.resolveAttendeeIDs(ctx, *input.Attendees)
		if err != nil {
			return nil, err
		}
		event.AttendeeIDs = attendeeIDs
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	return s.GetEvent(ctx, event.ID)
}

// DeleteEvent removes an event. Missing events are not an error, and tasks
// pointing at the event are left untouched.
func (s *EventService) DeleteEvent(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// resolveAttendeeIDs normalises and de-duplicates ids and checks that every
// one of them refers to an existing attendee.
func (s *EventService) resolveAttendeeIDs(ctx context.Context, raw []string) ([]string, error) {
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id, err := parseID("attendees", r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return ids, nil
	}

	count, err := s.attendeeRepo.CountByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to verify attendees: %w", err)
	}
	if int(count) != len(ids) {
		return nil, newValidationError("attendees", "one or more attendees do not exist")
	}
	return ids, nil
}
