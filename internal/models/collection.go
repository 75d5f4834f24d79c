// internal/models/collection.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserJersey links a user to a catalog entry they own, with personal
// metadata. The full ownership set for a user is the virtual "all kits"
// collection; no separate collection row exists for it.
type UserJersey struct {
	BaseModel
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	JerseyID uuid.UUID `json:"jersey_id" gorm:"type:uuid;not null;index"`

	Size              string  `json:"size" gorm:"size:10"`
	Fit               FitType `json:"fit" gorm:"type:varchar(20);default:'regular'"`
	PurchaseCondition string  `json:"purchase_condition" gorm:"size:30"`
	AcquisitionSource string  `json:"acquisition_source" gorm:"size:100"`
	Notes             string  `json:"notes" gorm:"type:text"`

	// False for rows created through the simplified/bulk flows until the
	// owner fills in the personal details.
	DetailsCompleted bool `json:"details_completed" gorm:"default:false"`

	// Relationships
	User   Profile      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Jersey PublicJersey `json:"jersey,omitempty" gorm:"foreignKey:JerseyID"`
}

// The like/wishlist/junction/showcase records below are hard-deleted, not
// soft-deleted: a lingering soft-deleted row would collide with the unique
// pair indexes when the same pair is re-added.

// JerseyLike backs the Liked system collection. Independent of ownership.
type JerseyLike struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_jersey"`
	JerseyID  uuid.UUID `json:"jersey_id" gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_jersey"`
	CreatedAt time.Time `json:"created_at"`

	Jersey PublicJersey `json:"jersey,omitempty" gorm:"foreignKey:JerseyID"`
}

func (l *JerseyLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// WishlistItem backs the Wishlist system collection. Always private.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_jersey"`
	JerseyID  uuid.UUID `json:"jersey_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_user_jersey"`
	CreatedAt time.Time `json:"created_at"`

	Jersey PublicJersey `json:"jersey,omitempty" gorm:"foreignKey:JerseyID"`
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// Collection is a stored collection row. Custom collections are
// user-created named groupings over ownership records; the liked system
// collection also keeps a row here, but only for its visibility flag;
// its membership lives in jersey_likes.
type Collection struct {
	BaseModel
	OwnerID     uuid.UUID      `json:"owner_id" gorm:"type:uuid;not null;index"`
	Kind        CollectionKind `json:"kind" gorm:"type:varchar(20);not null;default:'custom';index"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	IsPublic    bool           `json:"is_public" gorm:"default:false"`

	// Relationships
	Owner Profile          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Items []CollectionItem `json:"items,omitempty" gorm:"foreignKey:CollectionID"`
}

// CollectionItem is the junction between a custom collection and an
// ownership record. Keying off UserJerseyID (not JerseyID) means personal
// metadata travels with membership, and deleting an ownership record
// removes it from every custom collection.
type CollectionItem struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CollectionID uuid.UUID `json:"collection_id" gorm:"type:uuid;not null;uniqueIndex:idx_collection_items_pair"`
	UserJerseyID uuid.UUID `json:"user_jersey_id" gorm:"type:uuid;not null;uniqueIndex:idx_collection_items_pair"`
	CreatedAt    time.Time `json:"added_at"`

	UserJersey UserJersey `json:"user_jersey,omitempty" gorm:"foreignKey:UserJerseyID"`
}

func (i *CollectionItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ShowcaseEntry is one of up to three ordered ownership references pinned
// to a profile.
type ShowcaseEntry struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProfileID    uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_showcase_profile_pos"`
	Position     int       `json:"position" gorm:"not null;uniqueIndex:idx_showcase_profile_pos"`
	UserJerseyID uuid.UUID `json:"user_jersey_id" gorm:"type:uuid;not null"`
	CreatedAt    time.Time `json:"created_at"`

	UserJersey UserJersey `json:"user_jersey,omitempty" gorm:"foreignKey:UserJerseyID"`
}

func (e *ShowcaseEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// CollectionKind is the tagged variant selecting a membership resolution
// strategy. AllKits is virtual (no stored row), Liked and Wishlist are
// system collections backed by their own record types, Custom is backed by
// the collection_items junction.
type CollectionKind string

const (
	KindAllKits  CollectionKind = "all_kits"
	KindLiked    CollectionKind = "liked"
	KindWishlist CollectionKind = "wishlist"
	KindCustom   CollectionKind = "custom"
)

func ParseCollectionKind(s string) (CollectionKind, bool) {
	switch CollectionKind(strings.ToLower(s)) {
	case KindAllKits:
		return KindAllKits, true
	case KindLiked:
		return KindLiked, true
	case KindWishlist:
		return KindWishlist, true
	case KindCustom:
		return KindCustom, true
	}
	return "", false
}
