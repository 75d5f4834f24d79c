// internal/models/submission.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is a proposed catalog entry awaiting moderation. Rejection
// deletes the row outright; approval flips the status, records the reviewer
// and back-fills JerseyID with the materialized catalog row.
type Submission struct {
	BaseModel
	SubmitterID uuid.UUID      `json:"submitter_id" gorm:"type:uuid;not null;index"`
	Status      ApprovalStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Required field set: must be non-empty before any transition out of pending.
	TeamName string      `json:"team_name" gorm:"size:100;not null"`
	Season   string      `json:"season" gorm:"size:20;not null"`
	Category KitCategory `json:"category" gorm:"type:varchar(20);not null"`
	KitType  KitType     `json:"kit_type" gorm:"type:varchar(20);not null"`

	Gender        CompetitionGender `json:"gender" gorm:"type:varchar(10);default:'mens'"`
	Brand         string            `json:"brand" gorm:"size:100"`
	PlayerName    string            `json:"player_name" gorm:"size:100"`
	PlayerNumber  *int              `json:"player_number"`
	Fit           FitType           `json:"fit" gorm:"type:varchar(20);default:'regular'"`
	Colors        StringList        `json:"colors" gorm:"type:jsonb"`
	Sponsors      StringList        `json:"sponsors" gorm:"type:jsonb"`
	Description   string            `json:"description" gorm:"type:text"`
	FrontImageURL string            `json:"front_image_url" gorm:"size:500"`
	BackImageURL  string            `json:"back_image_url" gorm:"size:500"`

	AdminNotes   string     `json:"admin_notes,omitempty" gorm:"type:text"`
	ReviewedByID *uuid.UUID `json:"reviewed_by_id" gorm:"type:uuid"`
	ReviewedAt   *time.Time `json:"reviewed_at"`

	// Set once the catalog row exists. An approved submission with a nil
	// JerseyID is the inconsistency the reconcile pass repairs.
	JerseyID *uuid.UUID `json:"jersey_id" gorm:"type:uuid;index"`

	// Relationships
	Submitter  Profile       `json:"submitter,omitempty" gorm:"foreignKey:SubmitterID"`
	ReviewedBy *Profile      `json:"reviewed_by,omitempty" gorm:"foreignKey:ReviewedByID"`
	Jersey     *PublicJersey `json:"jersey,omitempty" gorm:"foreignKey:JerseyID"`
}

// HasRequiredFields reports whether the non-negotiable field set is present.
func (s *Submission) HasRequiredFields() bool {
	return s.TeamName != "" && s.Season != "" && s.Category != "" && s.KitType != ""
}
