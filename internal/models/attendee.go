package models

import "time"

type Attendee struct {
	ID        string    `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EventAttendee is the join row backing Event.Attendees. It is declared so the
// join table keeps rows for attendees that have since been deleted.
type EventAttendee struct {
	EventID    string `gorm:"primaryKey;type:varchar(26)"`
	AttendeeID string `gorm:"primaryKey;type:varchar(26)"`
}
