package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"github.com/yukikurage/event-dashboard-api/internal/repository"
	"github.com/yukikurage/event-dashboard-api/internal/utils"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	eventRepo    repository.EventRepository
	attendeeRepo repository.AttendeeRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	eventRepo repository.EventRepository,
	attendeeRepo repository.AttendeeRepository,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		eventRepo:    eventRepo,
		attendeeRepo: attendeeRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name       string           `json:"name" validate:"required,notblank,max=255,nomarkup"`
	Deadline   *utils.Timestamp `json:"deadline"`
	Status     string           `json:"status" validate:"omitempty,oneof=Pending Completed"`
	Event      string           `json:"event" validate:"required"`
	AssignedTo *string          `json:"assignedTo"`
}

// UpdateTaskInput represents a partial task update. The Clear flags unset
// nullable fields that the client sent as an explicit null.
type UpdateTaskInput struct {
	Name            *string          `json:"name" validate:"omitnil,notblank,max=255,nomarkup"`
	Deadline        *utils.Timestamp `json:"deadline"`
	Status          *string          `json:"status" validate:"omitempty,oneof=Pending Completed"`
	Event           *string          `json:"event"`
	AssignedTo      *string          `json:"assignedTo"`
	ClearDeadline   bool             `json:"-"`
	ClearAssignedTo bool             `json:"-"`
}

// CreateTask validates the payload and stores a new task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	eventID, err := s.resolveEvent(ctx, input.Event)
	if err != nil {
		return nil, err
	}

	var assignedTo *string
	if input.AssignedTo != nil && *input.AssignedTo != "" {
		assignedTo, err = s.resolveAttendee(ctx, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
	}

	status := models.TaskStatusPending
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
	}

	task := &models.Task{
		ID:           utils.NewID(),
		Name:         input.Name,
		Deadline:     input.Deadline.Ptr(),
		Status:       status,
		EventID:      eventID,
		AssignedToID: assignedTo,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// ListTasks returns every task with assignees populated
func (s *TaskService) ListTasks(ctx context.Context, opts repository.ListOptions) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{ListOptions: opts})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksByEvent returns the tasks whose event reference equals eventID.
// The event itself does not have to exist, so tasks of a deleted event stay
// reachable.
func (s *TaskService) ListTasksByEvent(ctx context.Context, rawEventID string, opts repository.ListOptions) ([]models.Task, error) {
	eventID, err := parseID("eventId", rawEventID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{EventID: &eventID, ListOptions: opts})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task with its assignee populated
func (s *TaskService) GetTask(ctx context.Context, rawID string) (*models.Task, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask merges the provided fields onto an existing task
func (s *TaskService) UpdateTask(ctx context.Context, rawID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if err := validateStruct(input); err != nil {
		return nil, err
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline.Ptr()
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Event != nil {
		eventID, err := s.resolveEvent(ctx, *input.Event)
		if err != nil {
			return nil, err
		}
		task.EventID = eventID
	}
	switch {
	case input.ClearAssignedTo, input.AssignedTo != nil && *input.AssignedTo == "":
		task.AssignedToID = nil
	case input.AssignedTo != nil:
		assignedTo, err := s.resolveAttendee(ctx, *input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedToID = assignedTo
	}
	task.AssignedTo = nil

	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, task.ID)
}

// DeleteTask removes a task; deleting a missing task is not an error
func (s *TaskService) DeleteTask(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) resolveEvent(ctx context.Context, raw string) (string, error) {
	id, err := parseID("event", raw)
	if err != nil {
		return "", err
	}
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", newValidationError("event", "does not exist")
		}
		return "", fmt.Errorf("failed to verify event: %w", err)
	}
	return id, nil
}

func (s *TaskService) resolveAttendee(ctx context.Context, raw string) (*string, error) {
	id, err := parseID("assignedTo", raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.attendeeRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newValidationError("assignedTo", "does not exist")
		}
		return nil, fmt.Errorf("failed to verify attendee: %w", err)
	}
	return &id, nil
}
