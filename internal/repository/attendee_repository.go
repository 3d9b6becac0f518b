package repository

import (
	"context"

	"github.com/yukikurage/event-dashboard-api/internal/models"
	"gorm.io/gorm"
)

// GormAttendeeRepository is a GORM implementation of AttendeeRepository
type GormAttendeeRepository struct {
	db *gorm.DB
}

// NewAttendeeRepository creates a new AttendeeRepository
func NewAttendeeRepository(db *gorm.DB) AttendeeRepository {
	return &GormAttendeeRepository{db: db}
}

func (r *GormAttendeeRepository) Create(ctx context.Context, attendee *models.Attendee) error {
	return translateError(r.db.WithContext(ctx).Create(attendee).Error)
}

func (r *GormAttendeeRepository) FindByID(ctx context.Context, id string) (*models.Attendee, error) {
	var attendee models.Attendee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&attendee).Error; err != nil {
		return nil, translateError(err)
	}
	return &attendee, nil
}

func (r *GormAttendeeRepository) List(ctx context.Context, opts ListOptions) ([]models.Attendee, error) {
	attendees := []models.Attendee{}
	query := paginate(r.db.WithContext(ctx).Order("id ASC"), opts)
	if err := query.Find(&attendees).Error; err != nil {
		return nil, translateError(err)
	}
	return attendees, nil
}

func (r *GormAttendeeRepository) Update(ctx context.Context, attendee *models.Attendee) error {
	result := r.db.WithContext(ctx).
		Model(attendee).
		Select("name", "email", "updated_at").
		Updates(attendee)
	return updateResult(result)
}

// Delete removes the attendee row only. Join rows in event_attendees and
// tasks.assigned_to_id keep pointing at the deleted id.
func (r *GormAttendeeRepository) Delete(ctx context.Context, id string) error {
	return translateError(r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Attendee{}).Error)
}

func (r *GormAttendeeRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Attendee{}).Where("id IN ?", ids).Count(&count).Error
	return count, translateError(err)
}
