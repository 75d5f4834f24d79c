// internal/models/jersey.go
package models

import (
	"github.com/google/uuid"
)

// PublicJersey is an approved catalog entry, visible to everyone. Rows are
// created by the moderation engine on approval (or directly for trusted
// submitters); identity is immutable once created.
type PublicJersey struct {
	BaseModel
	TeamName      string            `json:"team_name" gorm:"size:100;not null;index"`
	Season        string            `json:"season" gorm:"size:20;not null;index"`
	Category      KitCategory       `json:"category" gorm:"type:varchar(20);not null;index"`
	KitType       KitType           `json:"kit_type" gorm:"type:varchar(20);not null;index"`
	Gender        CompetitionGender `json:"gender" gorm:"type:varchar(10);default:'mens'"`
	Manufacturer  string            `json:"manufacturer" gorm:"size:100;index"`
	PlayerName    string            `json:"player_name" gorm:"size:100"`
	PlayerNumber  *int              `json:"player_number"`
	Colors        StringList        `json:"colors" gorm:"type:jsonb"`
	Sponsors      StringList        `json:"sponsors" gorm:"type:jsonb"`
	Description   string            `json:"description" gorm:"type:text"`
	FrontImageURL string            `json:"front_image_url" gorm:"size:500"`
	BackImageURL  string            `json:"back_image_url" gorm:"size:500"`
	CreatedByID   uuid.UUID         `json:"created_by_id" gorm:"type:uuid;not null;index"`

	// Relationships
	CreatedBy Profile      `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	Owners    []UserJersey `json:"owners,omitempty" gorm:"foreignKey:JerseyID"`
}
