package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/event-dashboard-api/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("repository: duplicate record")
)

// ListOptions bounds a list query. A zero Limit returns every record.
type ListOptions struct {
	Offset int
	Limit  int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; ErrDuplicate if the username is taken
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventRepository defines the interface for event data access.
// Returned events carry both the stored AttendeeIDs and the populated Attendees.
type EventRepository interface {
	// Create persists the event and its attendee references
	Create(ctx context.Context, event *models.Event) error

	// FindByID finds an event by ID with attendees populated
	FindByID(ctx context.Context, id string) (*models.Event, error)

	// List retrieves events in creation order with attendees populated
	List(ctx context.Context, opts ListOptions) ([]models.Event, error)

	// Update overwrites the event fields and replaces its attendee references
	Update(ctx context.Context, event *models.Event) error

	// Delete removes the event; deleting a missing event is not an error
	Delete(ctx context.Context, id string) error
}

// AttendeeRepository defines the interface for attendee data access
type AttendeeRepository interface {
	// Create creates a new attendee
	Create(ctx context.Context, attendee *models.Attendee) error

	// FindByID finds an attendee by ID
	FindByID(ctx context.Context, id string) (*models.Attendee, error)

	// List retrieves attendees in creation order
	List(ctx context.Context, opts ListOptions) ([]models.Attendee, error)

	// Update overwrites the attendee fields
	Update(ctx context.Context, attendee *models.Attendee) error

	// Delete removes the attendee; references to it are left in place
	Delete(ctx context.Context, id string) error

	// CountByIDs counts how many of the given attendee IDs exist
	CountByIDs(ctx context.Context, ids []string) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with AssignedTo populated
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, AssignedTo populated
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update overwrites the task fields
	Update(ctx context.Context, task *models.Task) error

	// Delete removes the task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	EventID *string
	ListOptions
}

// Repositories bundles one implementation of every repository.
type Repositories struct {
	Users     UserRepository
	Events    EventRepository
	Attendees AttendeeRepository
	Tasks     TaskRepository
}
