package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yukikurage/event-dashboard-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates every table and the secondary indexes.
func Migrate(db *gorm.DB, logger zerolog.Logger) error {
	logger.Info().Msg("running database migrations")

	if err := db.SetupJoinTable(&models.Event{}, "Attendees", &models.EventAttendee{}); err != nil {
		return fmt.Errorf("failed to set up event attendee join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Attendee{},
		&models.Event{},
		&models.EventAttendee{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, logger); err != nil {
		return err
	}

	logger.Info().Msg("database migrations completed")
	return nil
}

// AddIndexes adds the lookup indexes that are not expressed in struct tags.
func AddIndexes(db *gorm.DB, logger zerolog.Logger) error {
	indexes := []struct {
		model   interface{}
		name    string
		columns string
	}{
		{&models.EventAttendee{}, "idx_event_attendees_attendee_id", "attendee_id"},
		{&models.Task{}, "idx_tasks_status", "status"},
		{&models.Event{}, "idx_events_date", "date"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			logger.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
			db.Statement.Quote(idx.name), db.Statement.Quote(stmt.Schema.Table), db.Statement.Quote(idx.columns))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info().Str("index", idx.name).Str("table", stmt.Schema.Table).Msg("created index")
	}

	return nil
}
