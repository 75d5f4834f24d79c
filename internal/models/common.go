// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IDs are assigned client-side so the same models run against PostgreSQL
// in production and SQLite in tests.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(s)
	}

	return json.Unmarshal(bytes, j)
}

// StringList stores an ordered list of strings in a jsonb column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		bytes = []byte(s)
	}

	return json.Unmarshal(bytes, l)
}

// Enums
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

type KitType string

const (
	KitTypeHome       KitType = "home"
	KitTypeAway       KitType = "away"
	KitTypeThird      KitType = "third"
	KitTypeGoalkeeper KitType = "goalkeeper"
	KitTypeSpecial    KitType = "special"
)

func ValidKitType(t KitType) bool {
	switch t {
	case KitTypeHome, KitTypeAway, KitTypeThird, KitTypeGoalkeeper, KitTypeSpecial:
		return true
	}
	return false
}

type KitCategory string

const (
	KitCategoryClub          KitCategory = "club"
	KitCategoryNationalTeam  KitCategory = "national_team"
	KitCategoryTraining      KitCategory = "training"
	KitCategoryCommemorative KitCategory = "commemorative"
)

func ValidKitCategory(c KitCategory) bool {
	switch c {
	case KitCategoryClub, KitCategoryNationalTeam, KitCategoryTraining, KitCategoryCommemorative:
		return true
	}
	return false
}

type CompetitionGender string

const (
	GenderMens   CompetitionGender = "mens"
	GenderWomens CompetitionGender = "womens"
	GenderUnisex CompetitionGender = "unisex"
)

func ValidCompetitionGender(g CompetitionGender) bool {
	switch g {
	case GenderMens, GenderWomens, GenderUnisex:
		return true
	}
	return false
}

type FitType string

const (
	FitRegular     FitType = "regular"
	FitSlim        FitType = "slim"
	FitPlayerIssue FitType = "player_issue"
	FitOversized   FitType = "oversized"
)

// DefaultFit is the soft-correction target for unrecognized fit values.
const DefaultFit = FitRegular

func ValidFitType(f FitType) bool {
	switch f {
	case FitRegular, FitSlim, FitPlayerIssue, FitOversized:
		return true
	}
	return false
}

type SubmissionTier string

const (
	TierStandard SubmissionTier = "standard"
	TierTrusted  SubmissionTier = "trusted"
)
