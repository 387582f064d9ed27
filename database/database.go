package database

import (
	"fmt"
	"log"
	"os"

	"talktivity/models"
	courseModels "talktivity/models/course"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb establishes a connection to PostgreSQL
func ConnectDb() {
	// Build the PostgreSQL connection string
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	// Run database migrations
	RunMigrations(db)

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.LoginTracking{},
		&models.Subscription{},
		&models.OnboardingProfile{},
		&models.UserLifecycle{},
		&models.Conversation{},
		&courseModels.Course{},
		&courseModels.DailyProgress{},
		&courseModels.SpeakingSession{},
		&courseModels.WeeklyExam{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// At most one open session per user. AutoMigrate cannot express a partial
	// unique index, so it is created directly (postgres and sqlite both
	// support the WHERE clause).
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_speaking_sessions_open
		 ON speaking_sessions (user_id)
		 WHERE end_time IS NULL AND deleted_at IS NULL`,
	).Error; err != nil {
		log.Fatalf("Failed to create open-session index: %v", err)
	}

	log.Println("Migrations completed successfully.")
}
