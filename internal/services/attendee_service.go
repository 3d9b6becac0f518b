package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

// AttendeeService handles attendee business logic
type AttendeeService struct {
	attendeeRepo repository.AttendeeRepository
}

// NewAttendeeService creates a new AttendeeService
func NewAttendeeService(attendeeRepo repository.AttendeeRepository) *AttendeeService {
	return &AttendeeService{attendeeRepo: attendeeRepo}
}

// CreateAttendeeInput represents input for creating an attendee
type CreateAttendeeInput struct {
	Name  string `json:"name" validate:"required,notblank,max=255,nomarkup"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

// UpdateAttendeeInput represents a partial attendee update
type UpdateAttendeeInput struct {
	Name  *string `json:"name" validate:"omitnil,notblank,max=255,nomarkup"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

func (s *AttendeeService) CreateAttendee(ctx context.Context, input CreateAttendeeInput) (*models.Attendee, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	attendee := &models.Attendee{
		ID:    utils.NewID(),
		Name:  input.Name,
		Email: input.Email,
	}
	if err := s.attendeeRepo.Create(ctx, attendee); err != nil {
		return nil, fmt.Errorf("failed to create attendee: %w", err)
	}
	return attendee, nil
}

func (s *AttendeeService) ListAttendees(ctx context.Context, opts repository.ListOptions) ([]models.Attendee, error) {
	attendees, err := s.attendeeRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendees: %w", err)
	}
	return attendees, nil
}

func (s *AttendeeService) GetAttendee(ctx context.Context, rawID string) (*models.Attendee, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	attendee, err := s.attendeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("failed to find attendee: %w", err)
	}
	return attendee, nil
}

func (s *AttendeeService) UpdateAttendee(ctx context.Context, rawID string, input UpdateAttendeeInput) (*models.Attendee, error) {
	attendee, err := s.GetAttendee(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		attendee.Name = *input.Name
	}
	if input.Email != nil {
		attendee.Email = *input.Email
	}

	if err := s.attendeeRepo.Update(ctx, attendee); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttendeeNotFound
		}
		return nil, fmt.Errorf("failed to update attendee: %w", err)
	}
	return attendee, nil
}

// DeleteAttendee removes an attendee. Events and tasks keep the dangling id.
func (s *AttendeeService) DeleteAttendee(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.attendeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendee: %w", err)
	}
	return nil
}
