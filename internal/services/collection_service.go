// internal/services/collection_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/cache"
	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/models"
)

const previewCacheTTL = 60 * time.Second

type CollectionService struct {
	db           *gorm.DB
	cache        *cache.Client
	previewLimit int
}

func NewCollectionService(db *gorm.DB, cacheClient *cache.Client, cfg *config.Config) *CollectionService {
	limit := 10
	if cfg != nil && cfg.Submission.PreviewLimit > 0 {
		limit = cfg.Submission.PreviewLimit
	}
	return &CollectionService{
		db:           db,
		cache:        cacheClient,
		previewLimit: limit,
	}
}

// CollectionRef names one collection of a user: a kind tag plus, for
// custom collections, the row id.
type CollectionRef struct {
	Kind     models.CollectionKind
	CustomID uuid.UUID
}

// MemberView is one resolved member, shaped identically across all
// resolution strategies so callers never branch on kind.
type MemberView struct {
	JerseyID     uuid.UUID  `json:"jersey_id"`
	OwnershipID  *uuid.UUID `json:"ownership_id,omitempty"`
	TeamName     string     `json:"team_name"`
	Season       string     `json:"season"`
	KitType      string     `json:"kit_type"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	AddedAt      time.Time  `json:"added_at"`
}

// CollectionView is the uniform resolution result.
type CollectionView struct {
	Kind         models.CollectionKind `json:"kind"`
	CollectionID *uuid.UUID            `json:"collection_id,omitempty"`
	Name         string                `json:"name"`
	IsPublic     bool                  `json:"is_public"`
	MemberCount  int64                 `json:"member_count"`
	Members      []MemberView          `json:"members"`
	Thumbnails   []string              `json:"thumbnails"`
}

// IsCollectionPublic is the visibility gate. Wishlist is always private,
// unconditionally overriding any stored flag. The virtual all-kits
// collection reads the owner's profile flag; liked and custom collections
// read their stored row.
func IsCollectionPublic(kind models.CollectionKind, owner *models.Profile, row *models.Collection) bool {
	switch kind {
	case models.KindWishlist:
		return false
	case models.KindAllKits:
		return owner != nil && owner.AllKitsPublic
	case models.KindLiked, models.KindCustom:
		return row != nil && row.IsPublic
	}
	return false
}

// Resolve computes the member set, count and preview thumbnails for one of
// the owner's collections. One strategy per kind; all strategies return
// the same shape. Members are capped at the preview limit, MemberCount is
// not.
func (s *CollectionService) Resolve(ownerID uuid.UUID, ref CollectionRef) (*CollectionView, error) {
	switch ref.Kind {
	case models.KindAllKits:
		return s.resolveAllKits(ownerID)
	case models.KindLiked:
		return s.resolveLiked(ownerID)
	case models.KindWishlist:
		return s.resolveWishlist(ownerID)
	case models.KindCustom:
		return s.resolveCustom(ownerID, ref.CustomID)
	}
	return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown collection kind %q", ref.Kind)}
}

// ResolvePublic is the public-profile read path. The profile gate runs
// first: a profile that is not public and approved yields ErrNotFound for
// every collection, never a partial view, so private profiles leak
// nothing. Then the per-collection gate runs, with the same not-found
// shape for private collections. Results are served cache-aside.
func (s *CollectionService) ResolvePublic(ctx context.Context, username string, ref CollectionRef) (*CollectionView, error) {
	var owner models.Profile
	if err := s.db.First(&owner, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load profile", Err: err}
	}

	if !owner.ProfilePublic || owner.Status != models.ApprovalStatusApproved {
		return nil, ErrNotFound
	}

	row, err := s.collectionRow(owner.ID, ref)
	if err != nil {
		return nil, err
	}
	if !IsCollectionPublic(ref.Kind, &owner, row) {
		return nil, ErrNotFound
	}

	view := &CollectionView{}
	err = s.cache.CacheAside(ctx, s.cacheKey(owner.ID, ref), view, previewCacheTTL, func() error {
		resolved, err := s.Resolve(owner.ID, ref)
		if err != nil {
			return err
		}
		*view = *resolved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// collectionRow fetches the stored row backing liked/custom visibility.
// AllKits and Wishlist have no row.
func (s *CollectionService) collectionRow(ownerID uuid.UUID, ref CollectionRef) (*models.Collection, error) {
	switch ref.Kind {
	case models.KindLiked:
		var row models.Collection
		err := s.db.First(&row, "owner_id = ? AND kind = ?", ownerID, models.KindLiked).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, &UpstreamStorageError{Op: "load liked collection", Err: err}
		}
		return &row, nil
	case models.KindCustom:
		var row models.Collection
		err := s.db.First(&row, "id = ? AND owner_id = ? AND kind = ?", ref.CustomID, ownerID, models.KindCustom).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, &UpstreamStorageError{Op: "load collection", Err: err}
		}
		return &row, nil
	}
	return nil, nil
}

// resolveAllKits synthesizes the virtual collection from the ownership
// set directly.
func (s *CollectionService) resolveAllKits(ownerID uuid.UUID) (*CollectionView, error) {
	var owner models.Profile
	if err := s.db.First(&owner, "id = ?", ownerID).Error; err != nil {
		return nil, ErrNotFound
	}

	var total int64
	if err := s.db.Model(&models.UserJersey{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count ownership records", Err: err}
	}

	var owned []models.UserJersey
	if err := s.db.Preload("Jersey").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(s.previewLimit).
		Find(&owned).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "fetch ownership records", Err: err}
	}

	view := &CollectionView{
		Kind:        models.KindAllKits,
		Name:        "All Kits",
		IsPublic:    owner.AllKitsPublic,
		MemberCount: total,
	}
	for _, uj := range owned {
		view.appendMember(MemberView{
			JerseyID:     uj.JerseyID,
			OwnershipID:  ptrUUID(uj.ID),
			TeamName:     uj.Jersey.TeamName,
			Season:       uj.Jersey.Season,
			KitType:      string(uj.Jersey.KitType),
			ThumbnailURL: uj.Jersey.FrontImageURL,
			AddedAt:      uj.CreatedAt,
		})
	}
	return view, nil
}

func (s *CollectionService) resolveLiked(ownerID uuid.UUID) (*CollectionView, error) {
	var total int64
	if err := s.db.Model(&models.JerseyLike{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count likes", Err: err}
	}

	var likes []models.JerseyLike
	if err := s.db.Preload("Jersey").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(s.previewLimit).
		Find(&likes).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "fetch likes", Err: err}
	}

	row, err := s.collectionRow(ownerID, CollectionRef{Kind: models.KindLiked})
	if err != nil {
		return nil, err
	}

	view := &CollectionView{
		Kind:        models.KindLiked,
		Name:        "Liked Kits",
		IsPublic:    row != nil && row.IsPublic,
		MemberCount: total,
	}
	if row != nil {
		view.CollectionID = ptrUUID(row.ID)
	}
	for _, like := range likes {
		view.appendMember(MemberView{
			JerseyID:     like.JerseyID,
			TeamName:     like.Jersey.TeamName,
			Season:       like.Jersey.Season,
			KitType:      string(like.Jersey.KitType),
			ThumbnailURL: like.Jersey.FrontImageURL,
			AddedAt:      like.CreatedAt,
		})
	}
	return view, nil
}

func (s *CollectionService) resolveWishlist(ownerID uuid.UUID) (*CollectionView, error) {
	var total int64
	if err := s.db.Model(&models.WishlistItem{}).Where("user_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count wishlist", Err: err}
	}

	var items []models.WishlistItem
	if err := s.db.Preload("Jersey").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Limit(s.previewLimit).
		Find(&items).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "fetch wishlist", Err: err}
	}

	view := &CollectionView{
		Kind:        models.KindWishlist,
		Name:        "Wishlist",
		IsPublic:    false,
		MemberCount: total,
	}
	for _, item := range items {
		view.appendMember(MemberView{
			JerseyID:     item.JerseyID,
			TeamName:     item.Jersey.TeamName,
			Season:       item.Jersey.Season,
			KitType:      string(item.Jersey.KitType),
			ThumbnailURL: item.Jersey.FrontImageURL,
			AddedAt:      item.CreatedAt,
		})
	}
	return view, nil
}

func (s *CollectionService) resolveCustom(ownerID, collectionID uuid.UUID) (*CollectionView, error) {
	row, err := s.collectionRow(ownerID, CollectionRef{Kind: models.KindCustom, CustomID: collectionID})
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Count(&total).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count collection items", Err: err}
	}

	var items []models.CollectionItem
	if err := s.db.Preload("UserJersey.Jersey").
		Where("collection_id = ?", collectionID).
		Order("created_at DESC").
		Limit(s.previewLimit).
		Find(&items).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "fetch collection items", Err: err}
	}

	view := &CollectionView{
		Kind:         models.KindCustom,
		CollectionID: ptrUUID(row.ID),
		Name:         row.Name,
		IsPublic:     row.IsPublic,
		MemberCount:  total,
	}
	for _, item := range items {
		view.appendMember(MemberView{
			JerseyID:     item.UserJersey.JerseyID,
			OwnershipID:  ptrUUID(item.UserJerseyID),
			TeamName:     item.UserJersey.Jersey.TeamName,
			Season:       item.UserJersey.Jersey.Season,
			KitType:      string(item.UserJersey.Jersey.KitType),
			ThumbnailURL: item.UserJersey.Jersey.FrontImageURL,
			AddedAt:      item.CreatedAt,
		})
	}
	return view, nil
}

func (v *CollectionView) appendMember(m MemberView) {
	v.Members = append(v.Members, m)
	if m.ThumbnailURL != "" {
		v.Thumbnails = append(v.Thumbnails, m.ThumbnailURL)
	}
}

// --- Ownership ---

type OwnershipDetails struct {
	Size              string         `json:"size"`
	Fit               models.FitType `json:"fit"`
	PurchaseCondition string         `json:"purchase_condition"`
	AcquisitionSource string         `json:"acquisition_source"`
	Notes             string         `json:"notes"`
}

// AddOwnership records that the user owns a catalog entry. Rows created
// through simplified flows leave detailsCompleted false until the owner
// fills the personal fields in.
func (s *CollectionService) AddOwnership(userID, jerseyID uuid.UUID, details *OwnershipDetails) (*models.UserJersey, error) {
	var jersey models.PublicJersey
	if err := s.db.First(&jersey, "id = ?", jerseyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load jersey", Err: err}
	}

	record := &models.UserJersey{
		UserID:   userID,
		JerseyID: jerseyID,
		Fit:      models.DefaultFit,
	}
	if details != nil {
		record.Size = details.Size
		if details.Fit != "" && models.ValidFitType(details.Fit) {
			record.Fit = details.Fit
		}
		record.PurchaseCondition = details.PurchaseCondition
		record.AcquisitionSource = details.AcquisitionSource
		record.Notes = details.Notes
		record.DetailsCompleted = details.Size != "" && details.PurchaseCondition != ""
	}

	if err := s.db.Create(record).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "insert ownership record", Err: err}
	}

	s.invalidatePreviews(userID)
	return record, nil
}

func (s *CollectionService) UpdateOwnership(userID, ownershipID uuid.UUID, details OwnershipDetails) (*models.UserJersey, error) {
	record, err := s.ownedRecord(userID, ownershipID)
	if err != nil {
		return nil, err
	}

	record.Size = details.Size
	if details.Fit != "" && models.ValidFitType(details.Fit) {
		record.Fit = details.Fit
	}
	record.PurchaseCondition = details.PurchaseCondition
	record.AcquisitionSource = details.AcquisitionSource
	record.Notes = details.Notes
	record.DetailsCompleted = true

	if err := s.db.Save(record).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "update ownership record", Err: err}
	}
	return record, nil
}

func (s *CollectionService) ownedRecord(userID, ownershipID uuid.UUID) (*models.UserJersey, error) {
	var record models.UserJersey
	if err := s.db.First(&record, "id = ?", ownershipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load ownership record", Err: err}
	}
	if record.UserID != userID {
		return nil, ErrNotAuthorized
	}
	return &record, nil
}

// RemoveOwnership deletes an ownership record, with an explicit fan-out:
// every custom-collection junction row and showcase slot keyed off this
// record goes with it. That an owned kit vanishes from all custom
// collections is the contract, not a side effect. Likes and wishlist
// entries are untouched: wanting or liking a kit is independent of owning
// it.
func (s *CollectionService) RemoveOwnership(userID, ownershipID uuid.UUID) error {
	if _, err := s.ownedRecord(userID, ownershipID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_jersey_id = ?", ownershipID).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_jersey_id = ?", ownershipID).Delete(&models.ShowcaseEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", ownershipID, userID).Delete(&models.UserJersey{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConsistencyError{Op: "remove", Resource: "ownership record"}
		}
		return nil
	})
	if err != nil {
		var cerr *ConsistencyError
		if errors.As(err, &cerr) {
			return err
		}
		return &UpstreamStorageError{Op: "remove ownership record", Err: err}
	}

	s.invalidatePreviews(userID)
	return nil
}

// --- Likes & wishlist ---

func (s *CollectionService) LikeJersey(userID, jerseyID uuid.UUID) error {
	var jersey models.PublicJersey
	if err := s.db.First(&jersey, "id = ?", jerseyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &UpstreamStorageError{Op: "load jersey", Err: err}
	}

	// The unique (user, jersey) index is the duplicate guard; a
	// check-then-insert here would race with itself.
	like := &models.JerseyLike{UserID: userID, JerseyID: jerseyID}
	if err := s.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMember
		}
		return &UpstreamStorageError{Op: "insert like", Err: err}
	}

	s.invalidatePreviews(userID)
	return nil
}

// UnlikeJersey removes the like record only. Ownership records for the
// same jersey are never touched here.
func (s *CollectionService) UnlikeJersey(userID, jerseyID uuid.UUID) error {
	res := s.db.Where("user_id = ? AND jersey_id = ?", userID, jerseyID).Delete(&models.JerseyLike{})
	if res.Error != nil {
		return &UpstreamStorageError{Op: "delete like", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidatePreviews(userID)
	return nil
}

func (s *CollectionService) AddToWishlist(userID, jerseyID uuid.UUID) error {
	var jersey models.PublicJersey
	if err := s.db.First(&jersey, "id = ?", jerseyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &UpstreamStorageError{Op: "load jersey", Err: err}
	}

	item := &models.WishlistItem{UserID: userID, JerseyID: jerseyID}
	if err := s.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMember
		}
		return &UpstreamStorageError{Op: "insert wishlist item", Err: err}
	}
	return nil
}

func (s *CollectionService) RemoveFromWishlist(userID, jerseyID uuid.UUID) error {
	res := s.db.Where("user_id = ? AND jersey_id = ?", userID, jerseyID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return &UpstreamStorageError{Op: "delete wishlist item", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Custom collections ---

func (s *CollectionService) CreateCollection(ownerID uuid.UUID, name, description string, isPublic bool) (*models.Collection, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, &ValidationError{Field: "name", Reason: "must be at most 100 characters"}
	}

	collection := &models.Collection{
		OwnerID:     ownerID,
		Kind:        models.KindCustom,
		Name:        name,
		Description: description,
		IsPublic:    isPublic,
	}
	if err := s.db.Create(collection).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "insert collection", Err: err}
	}
	return collection, nil
}

func (s *CollectionService) UpdateCollection(ownerID, collectionID uuid.UUID, name, description *string, isPublic *bool) (*models.Collection, error) {
	collection, err := s.ownedCollection(ownerID, collectionID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, &ValidationError{Field: "name", Reason: "required"}
		}
		if utf8.RuneCountInString(*name) > 100 {
			return nil, &ValidationError{Field: "name", Reason: "must be at most 100 characters"}
		}
		collection.Name = *name
	}
	if description != nil {
		collection.Description = *description
	}
	if isPublic != nil {
		collection.IsPublic = *isPublic
	}

	if err := s.db.Save(collection).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "update collection", Err: err}
	}
	return collection, nil
}

func (s *CollectionService) ownedCollection(ownerID, collectionID uuid.UUID) (*models.Collection, error) {
	var collection models.Collection
	if err := s.db.First(&collection, "id = ?", collectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load collection", Err: err}
	}
	if collection.OwnerID != ownerID {
		return nil, ErrNotAuthorized
	}
	if collection.Kind != models.KindCustom {
		return nil, ErrNotAuthorized
	}
	return &collection, nil
}

// AddToCustomCollection inserts a junction row for (collection, ownership).
// The pair must not already exist and both sides must belong to the caller.
func (s *CollectionService) AddToCustomCollection(userID, collectionID, ownershipID uuid.UUID) error {
	if _, err := s.ownedCollection(userID, collectionID); err != nil {
		return err
	}
	if _, err := s.ownedRecord(userID, ownershipID); err != nil {
		return err
	}

	item := &models.CollectionItem{CollectionID: collectionID, UserJerseyID: ownershipID}
	if err := s.db.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMember
		}
		return &UpstreamStorageError{Op: "insert collection item", Err: err}
	}
	return nil
}

// RemoveFromCustomCollection deletes only the junction row. The ownership
// record, and with it all-kits membership, is untouched.
func (s *CollectionService) RemoveFromCustomCollection(userID, collectionID, ownershipID uuid.UUID) error {
	if _, err := s.ownedCollection(userID, collectionID); err != nil {
		return err
	}

	res := s.db.Where("collection_id = ? AND user_jersey_id = ?", collectionID, ownershipID).
		Delete(&models.CollectionItem{})
	if res.Error != nil {
		return &UpstreamStorageError{Op: "delete collection item", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCollection removes the junction rows, then the collection row.
// Ownership records are unaffected. System collection rows are not
// deletable.
func (s *CollectionService) DeleteCollection(ownerID, collectionID uuid.UUID) error {
	if _, err := s.ownedCollection(ownerID, collectionID); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", collectionID).Delete(&models.CollectionItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND owner_id = ?", collectionID, ownerID).Delete(&models.Collection{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConsistencyError{Op: "delete", Resource: "collection"}
		}
		return nil
	})
	if err != nil {
		var cerr *ConsistencyError
		if errors.As(err, &cerr) {
			return err
		}
		return &UpstreamStorageError{Op: "delete collection", Err: err}
	}
	return nil
}

// CollectionSummary is a list entry with the member count resolved.
type CollectionSummary struct {
	models.Collection
	MemberCount int64 `json:"member_count"`
}

func (s *CollectionService) ListCollections(ownerID uuid.UUID) ([]CollectionSummary, error) {
	var collections []models.Collection
	if err := s.db.Where("owner_id = ? AND kind = ?", ownerID, models.KindCustom).
		Order("created_at ASC").
		Find(&collections).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "list collections", Err: err}
	}

	summaries := make([]CollectionSummary, 0, len(collections))
	for _, c := range collections {
		var count int64
		s.db.Model(&models.CollectionItem{}).Where("collection_id = ?", c.ID).Count(&count)
		summaries = append(summaries, CollectionSummary{Collection: c, MemberCount: count})
	}
	return summaries, nil
}

// SetLikedVisibility flips the public flag on the liked system collection,
// creating its row on first use. Wishlist has no equivalent: it is private
// by construction.
func (s *CollectionService) SetLikedVisibility(ownerID uuid.UUID, isPublic bool) error {
	var row models.Collection
	err := s.db.First(&row, "owner_id = ? AND kind = ?", ownerID, models.KindLiked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Collection{
			OwnerID:  ownerID,
			Kind:     models.KindLiked,
			Name:     "Liked Kits",
			IsPublic: isPublic,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return &UpstreamStorageError{Op: "create liked collection", Err: err}
		}
		return nil
	}
	if err != nil {
		return &UpstreamStorageError{Op: "load liked collection", Err: err}
	}

	row.IsPublic = isPublic
	if err := s.db.Save(&row).Error; err != nil {
		return &UpstreamStorageError{Op: "update liked collection", Err: err}
	}
	return nil
}

// --- Showcase ---

// SetShowcase replaces the profile's showcase with the given ordered
// ownership ids. Every id must be one of the caller's own ownership
// records and at most three are allowed.
func (s *CollectionService) SetShowcase(userID uuid.UUID, ownershipIDs []uuid.UUID) error {
	if len(ownershipIDs) > models.MaxShowcaseEntries {
		return &ValidationError{Field: "showcase", Reason: fmt.Sprintf("at most %d entries allowed", models.MaxShowcaseEntries)}
	}

	for _, id := range ownershipIDs {
		if _, err := s.ownedRecord(userID, id); err != nil {
			return err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", userID).Delete(&models.ShowcaseEntry{}).Error; err != nil {
			return err
		}
		for i, id := range ownershipIDs {
			entry := &models.ShowcaseEntry{
				ProfileID:    userID,
				Position:     i + 1,
				UserJerseyID: id,
			}
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &UpstreamStorageError{Op: "set showcase", Err: err}
	}
	return nil
}

func (s *CollectionService) GetShowcase(profileID uuid.UUID) ([]models.ShowcaseEntry, error) {
	var entries []models.ShowcaseEntry
	if err := s.db.Preload("UserJersey.Jersey").
		Where("profile_id = ?", profileID).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "fetch showcase", Err: err}
	}
	return entries, nil
}

// --- cache helpers ---

func (s *CollectionService) cacheKey(ownerID uuid.UUID, ref CollectionRef) string {
	if ref.Kind == models.KindCustom {
		return fmt.Sprintf("collection:%s:custom:%s", ownerID, ref.CustomID)
	}
	return fmt.Sprintf("collection:%s:%s", ownerID, ref.Kind)
}

// invalidatePreviews drops the system-collection preview keys after an
// ownership or like mutation. Custom previews ride out their short TTL.
func (s *CollectionService) invalidatePreviews(ownerID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.cache.Delete(ctx,
		s.cacheKey(ownerID, CollectionRef{Kind: models.KindAllKits}),
		s.cacheKey(ownerID, CollectionRef{Kind: models.KindLiked}),
	)
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
