package repository

import (
	"context"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create inserts the event and one join row per attendee reference.
func (r *GormEventRepository) Create(ctx context.Context, event *models.Event) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}
		return replaceEventAttendees(tx, event.ID, event.AttendeeIDs)
	}))
}

// FindByID finds an event by ID with attendees populated
func (r *GormEventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	db := r.db.WithContext(ctx)
	if err := db.Preload("Attendees", orderByID).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, translateError(err)
	}

	refs, err := loadAttendeeRefs(db, []string{event.ID})
	if err != nil {
		return nil, translateError(err)
	}
	event.AttendeeIDs = refs[event.ID]
	if event.AttendeeIDs == nil {
		event.AttendeeIDs = []string{}
	}
	return &event, nil
}

// List retrieves events in creation order with attendees populated
func (r *GormEventRepository) List(ctx context.Context, opts ListOptions) ([]models.Event, error) {
	events := []models.Event{}
	db := r.db.WithContext(ctx)
	query := paginate(db.Preload("Attendees", orderByID).Order("id ASC"), opts)
	if err := query.Find(&events).Error; err != nil {
		return nil, translateError(err)
	}
	if len(events) == 0 {
		return events, nil
	}

	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	refs, err := loadAttendeeRefs(db, ids)
	if err != nil {
		return nil, translateError(err)
	}
	for i := range events {
		events[i].AttendeeIDs = refs[events[i].ID]
		if events[i].AttendeeIDs == nil {
			events[i].AttendeeIDs = []string{}
		}
	}
	return events, nil
}

// Update overwrites the scalar fields and rewrites the attendee reference set
// from event.AttendeeIDs in a single transaction.
func (r *GormEventRepository) Update(ctx context.Context, event *models.Event) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(event).
			Omit(clause.Associations).
			Select("name", "description", "location", "date", "updated_at").
			Updates(event)
		if err := updateResult(result); err != nil {
			return err
		}
		return replaceEventAttendees(tx, event.ID, event.AttendeeIDs)
	}))
}

// Delete removes the event row. Tasks and join rows referencing it are kept.
func (r *GormEventRepository) Delete(ctx context.Context, id string) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Event{}).Error)
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("attendees.id ASC")
}

func replaceEventAttendees(tx *gorm.DB, eventID string, attendeeIDs []string) error {
	if err := tx.Where("event_id = ?", eventID).Delete(&models.EventAttendee{}).Error; err != nil {
		return err
	}
	if len(attendeeIDs) == 0 {
		return nil
	}

	rows := make([]models.EventAttendee, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		rows = append(rows, models.EventAttendee{EventID: eventID, AttendeeID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func loadAttendeeRefs(db *gorm.DB, eventIDs []string) (map[string][]string, error) {
	var rows []models.EventAttendee
	if err := db.Where("event_id IN ?", eventIDs).Order("attendee_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	refs := make(map[string][]string, len(eventIDs))
	for _, row := range rows {
		refs[row.EventID] = append(refs[row.EventID], row.AttendeeID)
	}
	return refs, nil
}
