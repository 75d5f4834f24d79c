// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		}
	} else {
		gormConfig = &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.Profile{},
		&models.PublicJersey{},
		&models.Submission{},
		&models.UserJersey{},
		&models.JerseyLike{},
		&models.WishlistItem{},
		&models.Collection{},
		&models.CollectionItem{},
		&models.ShowcaseEntry{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Profile indexes
		"CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_status ON profiles(status)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_public_jerseys_team_season ON public_jerseys(team_name, season)",
		"CREATE INDEX IF NOT EXISTS idx_public_jerseys_category_type ON public_jerseys(category, kit_type)",
		"CREATE INDEX IF NOT EXISTS idx_public_jerseys_created_at ON public_jerseys(created_at DESC)",

		// Submission indexes
		"CREATE INDEX IF NOT EXISTS idx_submissions_submitter ON submissions(submitter_id)",
		"CREATE INDEX IF NOT EXISTS idx_submissions_status_created ON submissions(status, created_at)",

		// Ownership / collection indexes
		"CREATE INDEX IF NOT EXISTS idx_user_jerseys_user_created ON user_jerseys(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_jersey_likes_user_created ON jersey_likes(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_wishlist_items_user_created ON wishlist_items(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_collection_items_collection ON collection_items(collection_id, created_at)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_notifications_status ON admin_notifications(status, priority)",

		// Full-text search over the catalog
		"CREATE INDEX IF NOT EXISTS idx_public_jerseys_search ON public_jerseys USING GIN(to_tsvector('english', team_name || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.Profile{}).Where("is_admin = ?", true).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.Profile{
			Username:       "admin",
			Email:          "admin@kitvault.app",
			DisplayName:    "KitVault Admin",
			IsAdmin:        true,
			Status:         models.ApprovalStatusApproved,
			SubmissionTier: models.TierTrusted,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
