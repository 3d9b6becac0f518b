package models

import "time"

type Event struct {
	ID          string     `gorm:"primaryKey;type:varchar(26)" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"type:varchar(255)" json:"location"`
	Date        *time.Time `json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations. AttendeeIDs is the stored reference set; Attendees is the
	// populated view and only contains references that still resolve.
	AttendeeIDs []string   `gorm:"-" json:"-"`
	Attendees   []Attendee `gorm:"many2many:event_attendees;" json:"attendees"`
}
