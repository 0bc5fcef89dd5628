package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/study-planner/config"
	"github.com/sahilchouksey/study-planner/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMStore struct {
	db *gorm.DB
}

var _ Storage = (*GORMStore)(nil)

// StartGORM opens the database selected by DB_DRIVER (postgres or sqlite)
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	switch getEnv.DB_DRIVER {
	case "sqlite":
		return StartSQLite(getEnv.SQLITE_PATH, gormLogger)
	case "postgres", "":
		return startPostgres(getEnv, gormLogger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", getEnv.DB_DRIVER)
	}
}

func startPostgres(getEnv *config.EnviornmentVariable, gormLogger logger.Interface) (*GORMStore, error) {
	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		getEnv.DB_HOST,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_NAME,
		getEnv.DB_PORT,
		getEnv.DB_SSL_MODE,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:      gormLogger,
		NowFunc:     utcNow,
		PrepareStmt: true,
	})
	if err != nil {
		log.Errorf("Unable to connect to PostgreSQL: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("Successfully connected to PostgreSQL Database with GORM.")

	return &GORMStore{db: db}, nil
}

// StartSQLite opens a SQLite database at path. ":memory:" gives a private
// in-memory database, which is what the package tests use.
func StartSQLite(path string, gormLogger logger.Interface) (*GORMStore, error) {
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:  gormLogger,
		NowFunc: utcNow,
	})
	if err != nil {
		log.Errorf("Unable to open SQLite database %s: %v", path, err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers; a single connection also keeps ":memory:" alive
	sqlDB.SetMaxOpenConns(1)

	log.Infof("Successfully opened SQLite database %s with GORM.", path)

	return &GORMStore{db: db}, nil
}

// Stored timestamps are always UTC so range comparisons behave the same on
// every driver.
func utcNow() time.Time {
	return time.Now().UTC()
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Info("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// User-related models
		&model.User{},
		&model.Session{},

		// Planner models
		&model.Subject{},
		&model.Task{},
		&model.Test{},
		&model.Revision{},
		&model.Doubt{},

		// Notifications & background jobs
		&model.UserNotification{},
		&model.CronJobLog{},
	)

	if err != nil {
		log.Errorf("AutoMigrate failed: %v", err)
		return err
	}

	log.Info("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Info("Closing GORM database connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
