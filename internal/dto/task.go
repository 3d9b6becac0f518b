package dto

import (
	"time"

	"github.com/yukikurage/event-dashboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// AttendeeDTO represents an attendee in API responses
type AttendeeDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventDTO represents an event with its attendees populated
type EventDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Date        *time.Time    `json:"date"`
	Attendees   []AttendeeDTO `json:"attendees"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// TaskDTO represents a task in API responses. AssignedTo is the populated
// attendee or null when unassigned or when the attendee no longer exists;
// AssignedToID always carries the stored reference.
type TaskDTO struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Deadline     *time.Time        `json:"deadline"`
	Status       models.TaskStatus `json:"status"`
	Event        string            `json:"event"`
	AssignedTo   *AttendeeDTO      `json:"assignedTo"`
	AssignedToID *string           `json:"assignedToId"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

func ToAttendeeDTO(attendee models.Attendee) AttendeeDTO {
	return AttendeeDTO{
		ID:        attendee.ID,
		Name:      attendee.Name,
		Email:     attendee.Email,
		CreatedAt: attendee.CreatedAt,
		UpdatedAt: attendee.UpdatedAt,
	}
}

func ToAttendeeDTOs(attendees []models.Attendee) []AttendeeDTO {
	out := make([]AttendeeDTO, len(attendees))
	for i, a := range attendees {
		out[i] = ToAttendeeDTO(a)
	}
	return out
}

// ToEventDTO converts an Event model; attendees is always a JSON array
func ToEventDTO(event models.Event) EventDTO {
	return EventDTO{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Location:    event.Location,
		Date:        event.Date,
		Attendees:   ToAttendeeDTOs(event.Attendees),
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func ToEventDTOs(events []models.Event) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, e := range events {
		out[i] = ToEventDTO(e)
	}
	return out
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Name:         task.Name,
		Deadline:     task.Deadline,
		Status:       task.Status,
		Event:        task.EventID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include assignee if it resolved
	if task.AssignedTo != nil {
		assignee := ToAttendeeDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
