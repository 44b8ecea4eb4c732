package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"arsip-dlh-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	var err error

	// Get database credentials from environment variables
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbDatabase := os.Getenv("DB_DATABASE")
	dbUsername := os.Getenv("DB_USERNAME")
	dbPassword := os.Getenv("DB_PASSWORD")

	// Create DSN (Data Source Name)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUsername,
		dbPassword,
		dbHost,
		dbPort,
		dbDatabase,
	)

	// Configure GORM
	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	// In production, suppress SQL logs unless explicitly re-enabled via DEBUG_SQL=true.
	// Switch the level back to logger.Info to print SQL statements again.
	logLevel := logger.Info
	if environment == "production" && debugSQL != "true" {
		logLevel = logger.Warn
	}

	config := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}

	// Connect to database
	DB, err = gorm.Open(mysql.Open(dsn), config)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Schema is normally managed outside the binary; DB_AUTO_MIGRATE=true is
	// for fresh installs and local development.
	if strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")) == "true" {
		if err := AutoMigrate(DB); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("Database migrated successfully")
	}

	log.Println("Database connected successfully")
}

// AutoMigrate creates or updates all application tables. FK targets come
// before their dependents.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Bidang{},
		&models.User{},
		&models.Location{},
		&models.Category{},
		&models.Document{},
		&models.DocumentFile{},
		&models.DocumentCategory{},
		&models.DownloadsLog{},
		&models.ActivityLog{},
	)
}
