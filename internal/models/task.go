package models

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "Pending"
	TaskStatusCompleted TaskStatus = "Completed"
)

// Valid reports whether s is one of the two allowed statuses.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type Task struct {
	ID           string     `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Deadline     *time.Time `json:"deadline"`
	Status       TaskStatus `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	EventID      string     `gorm:"type:varchar(26);index;not null" json:"event"`
	AssignedToID *string    `gorm:"type:varchar(26);index" json:"assigned_to_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	AssignedTo *Attendee `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}
