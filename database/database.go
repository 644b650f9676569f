package database

import (
	"fmt"
	"log"

	"trafkin/backend/config"
	"trafkin/backend/models"
	"trafkin/backend/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// Create default admin user if not exists
	if err := createDefaultAdmin(db); err != nil {
		log.Printf("Warning: Failed to create default admin: %v", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// Migrate is separate from Initialize so tests can run it against an
// in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.HotSpot{},
		&models.Video{},
		&models.ScheduledVideo{},
		&models.VideoStartTime{},
		&models.Announcement{},
		&models.Incident{},
		&models.IncidentReaction{},
		&models.Advertisement{},
	)
}

func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)

	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := utils.HashPassword("demo123")
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.User{
		Email:    "admin@trafkin.cd",
		Name:     "Admin User",
		Password: hashedPassword,
		Role:     "admin",
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Println("Default admin user created: admin@trafkin.cd / demo123")
	return nil
}
