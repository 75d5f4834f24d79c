// internal/services/jersey_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/cache"
	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

const jerseyDetailTTL = 5 * time.Minute

type JerseyService struct {
	db    *gorm.DB
	cache *cache.Client
}

type JerseyFilter struct {
	utils.PaginationParams
	Category string `json:"category"`
	KitType  string `json:"kit_type"`
	Gender   string `json:"gender"`
	TeamName string `json:"team_name"`
	Season   string `json:"season"`
}

// JerseyDetail augments a catalog row with aggregate counts.
type JerseyDetail struct {
	models.PublicJersey
	LikeCount  int64 `json:"like_count"`
	OwnerCount int64 `json:"owner_count"`
}

type UpdateJerseyRequest struct {
	TeamName     *string  `json:"team_name" validate:"omitempty,min=1,max=100"`
	Season       *string  `json:"season" validate:"omitempty,season"`
	Category     *string  `json:"category"`
	KitType      *string  `json:"kit_type"`
	Gender       *string  `json:"gender"`
	Manufacturer *string  `json:"manufacturer" validate:"omitempty,max=100"`
	PlayerName   *string  `json:"player_name" validate:"omitempty,max=100"`
	PlayerNumber *int     `json:"player_number" validate:"omitempty,min=0,max=99"`
	Colors       []string `json:"colors"`
	Sponsors     []string `json:"sponsors"`
	Description  *string  `json:"description"`
}

func NewJerseyService(db *gorm.DB, cacheClient *cache.Client) *JerseyService {
	return &JerseyService{
		db:    db,
		cache: cacheClient,
	}
}

// Browse returns a catalog page. Free-text search matches team, player
// and manufacturer; the structured filters narrow by exact value.
func (s *JerseyService) Browse(filter JerseyFilter) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.PublicJersey{})

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("team_name ILIKE ? OR player_name ILIKE ? OR manufacturer ILIKE ?", like, like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.KitType != "" {
		query = query.Where("kit_type = ?", filter.KitType)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.TeamName != "" {
		query = query.Where("team_name = ?", filter.TeamName)
	}
	if filter.Season != "" {
		query = query.Where("season = ?", filter.Season)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count jerseys", Err: err}
	}

	allowedSortFields := []string{"created_at", "team_name", "season"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var jerseys []models.PublicJersey
	if err := query.Find(&jerseys).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "list jerseys", Err: err}
	}

	result := utils.CreatePaginationResult(jerseys, total, filter.PaginationParams)
	return &result, nil
}

// GetByID serves the detail page cache-aside.
func (s *JerseyService) GetByID(ctx context.Context, jerseyID uuid.UUID) (*JerseyDetail, error) {
	detail := &JerseyDetail{}
	key := fmt.Sprintf("jersey:%s", jerseyID)

	err := s.cache.CacheAside(ctx, key, detail, jerseyDetailTTL, func() error {
		var jersey models.PublicJersey
		if err := s.db.First(&jersey, "id = ?", jerseyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return &UpstreamStorageError{Op: "load jersey", Err: err}
		}

		detail.PublicJersey = jersey
		s.db.Model(&models.JerseyLike{}).Where("jersey_id = ?", jerseyID).Count(&detail.LikeCount)
		s.db.Model(&models.UserJersey{}).Where("jersey_id = ?", jerseyID).Count(&detail.OwnerCount)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Update is the admin catalog-correction path. Enum edits are validated
// against the closed sets before anything is written.
func (s *JerseyService) Update(adminID, jerseyID uuid.UUID, req *UpdateJerseyRequest) (*models.PublicJersey, error) {
	var admin models.Profile
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil || !admin.IsAdmin {
		return nil, ErrNotAuthorized
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var jersey models.PublicJersey
	if err := s.db.First(&jersey, "id = ?", jerseyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load jersey", Err: err}
	}

	if req.TeamName != nil {
		jersey.TeamName = *req.TeamName
	}
	if req.Season != nil {
		jersey.Season = *req.Season
	}
	if req.Category != nil {
		category := models.KitCategory(*req.Category)
		if !models.ValidKitCategory(category) {
			return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", *req.Category)}
		}
		jersey.Category = category
	}
	if req.KitType != nil {
		kitType := models.KitType(*req.KitType)
		if !models.ValidKitType(kitType) {
			return nil, &ValidationError{Field: "kit_type", Reason: fmt.Sprintf("unknown kit type %q", *req.KitType)}
		}
		jersey.KitType = kitType
	}
	if req.Gender != nil {
		gender := models.CompetitionGender(*req.Gender)
		if !models.ValidCompetitionGender(gender) {
			return nil, &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown gender %q", *req.Gender)}
		}
		jersey.Gender = gender
	}
	if req.Manufacturer != nil {
		jersey.Manufacturer = *req.Manufacturer
	}
	if req.PlayerName != nil {
		jersey.PlayerName = *req.PlayerName
	}
	if req.PlayerNumber != nil {
		jersey.PlayerNumber = req.PlayerNumber
	}
	if req.Colors != nil {
		jersey.Colors = models.StringList(req.Colors)
	}
	if req.Sponsors != nil {
		jersey.Sponsors = models.StringList(req.Sponsors)
	}
	if req.Description != nil {
		jersey.Description = *req.Description
	}

	if err := s.db.Save(&jersey).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "update jersey", Err: err}
	}

	s.invalidateDetail(jerseyID)
	return &jersey, nil
}

func (s *JerseyService) invalidateDetail(jerseyID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.Delete(ctx, fmt.Sprintf("jersey:%s", jerseyID))
}
