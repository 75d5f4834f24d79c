// internal/services/testhelper_test.go
package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kitvault/kitvault-backend/internal/cache"
	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Submission: config.SubmissionConfig{
			StandardQuota: 15,
			TrustedQuota:  500,
			PreviewLimit:  10,
		},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func testCache() *cache.Client {
	return cache.Disabled()
}

func createProfile(t *testing.T, db *gorm.DB, username string, opts ...func(*models.Profile)) *models.Profile {
	t.Helper()

	profile := &models.Profile{
		Username:       username,
		Email:          username + "@example.com",
		Status:         models.ApprovalStatusApproved,
		SubmissionTier: models.TierStandard,
		ProfilePublic:  true,
	}
	require.NoError(t, profile.SetPassword("TestPass123!"))
	for _, opt := range opts {
		opt(profile)
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func asAdmin(p *models.Profile)   { p.IsAdmin = true }
func asTrusted(p *models.Profile) { p.SubmissionTier = models.TierTrusted }
func asPending(p *models.Profile) { p.Status = models.ApprovalStatusPending }
func asPrivate(p *models.Profile) { p.ProfilePublic = false }

func createJersey(t *testing.T, db *gorm.DB, teamName, season string) *models.PublicJersey {
	t.Helper()

	jersey := &models.PublicJersey{
		TeamName:      teamName,
		Season:        season,
		Category:      models.KitCategoryClub,
		KitType:       models.KitTypeHome,
		Gender:        models.GenderMens,
		FrontImageURL: fmt.Sprintf("https://cdn.test/%s-front.jpg", teamName),
	}
	require.NoError(t, db.Create(jersey).Error)
	return jersey
}

// fakeUploader counts calls and can fail on a specific one.
type fakeUploader struct {
	calls      int
	failOnCall int // 1-based; 0 never fails
	keys       []string
}

func (f *fakeUploader) UploadBytes(data []byte, key, contentType string) (string, error) {
	f.calls++
	if f.failOnCall > 0 && f.calls == f.failOnCall {
		return "", errors.New("simulated upload failure")
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

func validDraft(teamName string) SubmissionDraft {
	return SubmissionDraft{
		TeamName: teamName,
		Season:   "2023/24",
		Category: models.KitCategoryClub,
		KitType:  models.KitTypeHome,
		Gender:   models.GenderMens,
		Brand:    "TestBrand",
	}
}

func frontImage() SubmissionImages {
	return SubmissionImages{
		Front: &ImageAttachment{
			Name:        "front.jpg",
			ContentType: "image/jpeg",
			Data:        []byte{0xFF, 0xD8, 0xFF, 0xE0},
		},
	}
}
