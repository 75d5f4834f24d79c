// internal/services/profile_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

type ProfileService struct {
	db             *gorm.DB
	storageService *StorageService
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=2000"`
	Username    *string `json:"username" validate:"omitempty,username"`
}

type VisibilityRequest struct {
	ProfilePublic *bool `json:"profile_public"`
	AllKitsPublic *bool `json:"all_kits_public"`
}

func NewProfileService(db *gorm.DB, storageService *StorageService) *ProfileService {
	return &ProfileService{
		db:             db,
		storageService: storageService,
	}
}

func (s *ProfileService) GetProfileByID(userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &profile, nil
}

// GetPublicProfile serves the anonymous profile page. Non-public and
// unapproved profiles are indistinguishable from missing ones.
func (s *ProfileService) GetPublicProfile(username string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Preload("Showcase", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Showcase.UserJersey.Jersey").
		First(&profile, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !profile.ProfilePublic || profile.Status != models.ApprovalStatusApproved {
		return nil, ErrNotFound
	}

	return &profile, nil
}

// UpdateProfile applies partial edits. Renames are rate limited: once the
// username changes, another change is refused until the cooldown elapses.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.GetProfileByID(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Username != nil && *req.Username != profile.Username {
		if !profile.CanChangeUsername(time.Now()) {
			return nil, ErrUsernameCooldown
		}

		var taken int64
		s.db.Model(&models.Profile{}).Where("username = ? AND id <> ?", *req.Username, userID).Count(&taken)
		if taken > 0 {
			return nil, errors.New("username already taken")
		}

		now := time.Now()
		profile.Username = *req.Username
		profile.UsernameChangedAt = &now
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetVisibility toggles the profile-level and all-kits flags. The
// wishlist has no flag to toggle; it never leaves private.
func (s *ProfileService) SetVisibility(userID uuid.UUID, req *VisibilityRequest) (*models.Profile, error) {
	profile, err := s.GetProfileByID(userID)
	if err != nil {
		return nil, err
	}

	if req.ProfilePublic != nil {
		profile.ProfilePublic = *req.ProfilePublic
	}
	if req.AllKitsPublic != nil {
		profile.AllKitsPublic = *req.AllKitsPublic
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update visibility: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) UploadAvatar(userID uuid.UUID, file *multipart.FileHeader) (*models.Profile, error) {
	profile, err := s.GetProfileByID(userID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, &UpstreamStorageError{Op: "open avatar upload", Err: err}
	}
	defer src.Close()

	if err := s.storageService.ValidateImage(src); err != nil {
		return nil, &ValidationError{Field: "avatar", Reason: "not a recognized image format"}
	}

	opts := s.storageService.GetDefaultUploadOptions("avatars")
	result, err := s.storageService.UploadFile(src, file, opts)
	if err != nil {
		return nil, &UpstreamStorageError{Op: "upload avatar", Err: err}
	}

	oldURL := profile.AvatarURL
	profile.AvatarURL = result.URL
	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	// Best effort: drop the replaced blob so the bucket does not collect
	// orphaned avatars.
	if key := s.storageService.KeyFromURL(oldURL); key != "" {
		if err := s.storageService.DeleteFile(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to delete replaced avatar")
		}
	}
	return profile, nil
}

// DeleteAccount requires the current password. The profile row is
// soft-deleted; collection data stays behind for a potential restore.
func (s *ProfileService) DeleteAccount(userID uuid.UUID, password string) error {
	profile, err := s.GetProfileByID(userID)
	if err != nil {
		return err
	}

	if err := profile.CheckPassword(password); err != nil {
		return errors.New("password is incorrect")
	}

	if err := s.db.Delete(profile).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
