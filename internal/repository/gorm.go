package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// NewGormRepositories wires every GORM repository to db.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:     NewUserRepository(db),
		Events:    NewEventRepository(db),
		Attendees: NewAttendeeRepository(db),
		Tasks:     NewTaskRepository(db),
	}
}

// translateError maps GORM errors onto the repository sentinels. The GORM
// connection must be opened with TranslateError enabled for duplicates to be
// recognised.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func paginate(db *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		return db.Offset(opts.Offset).Limit(opts.Limit)
	}
	return db
}

// updateResult reports ErrNotFound when an update matched no row. Every
// update writes updated_at, so a matched row is always reported as affected.
func updateResult(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
