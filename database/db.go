package database

import (
	"fmt"
	"os"

	"trail-pass/logger"
	"trail-pass/models/badge"
	"trail-pass/models/log"
	"trail-pass/models/order"
	"trail-pass/models/pass"
	"trail-pass/models/stage"
	"trail-pass/models/track"
	"trail-pass/models/user"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := AutoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// AutoMigrate runs auto migration for all models in dependency order
func AutoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&user.User{},
		&stage.Stage{},
		&stage.StageTranslation{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&order.Order{},
		&badge.Badge{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Passes and everything keyed by them
	stage3Models := []interface{}{
		&pass.Pass{},
		&track.TrailTrack{},
		&track.TrailTrackHistory{},
		&badge.AwardedBadge{},
	}

	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Pass indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_passes_order_user ON passes(order_id, user_id)").Error; err != nil {
		return fmt.Errorf("failed to create pass order_user index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_passes_reserved_for ON passes(reserved_for)").Error; err != nil {
		return fmt.Errorf("failed to create pass reserved_for index: %w", err)
	}

	// Trail track indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_trail_tracks_user_active ON trail_tracks(user_id, is_active_track)").Error; err != nil {
		return fmt.Errorf("failed to create trail track user_active index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_trail_track_histories_user_pass ON trail_track_histories(user_id, pass_id)").Error; err != nil {
		return fmt.Errorf("failed to create trail track history user_pass index: %w", err)
	}

	// Stage translation indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_stage_translations_stage_locale ON stage_translations(stage_id, locale)").Error; err != nil {
		return fmt.Errorf("failed to create stage translation index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_passes_order",
			sql: `ALTER TABLE passes ADD CONSTRAINT fk_passes_order
				  FOREIGN KEY (order_id) REFERENCES orders(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_trail_tracks_pass",
			sql: `ALTER TABLE trail_tracks ADD CONSTRAINT fk_trail_tracks_pass
				  FOREIGN KEY (pass_id) REFERENCES passes(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_awarded_badges_badge",
			sql: `ALTER TABLE awarded_badges ADD CONSTRAINT fk_awarded_badges_badge
				  FOREIGN KEY (badge_id) REFERENCES badges(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
