// internal/models/profile.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UsernameCooldown is the minimum time between username changes.
const UsernameCooldown = 30 * 24 * time.Hour

// MaxShowcaseEntries caps the ordered showcase slots on a profile.
const MaxShowcaseEntries = 3

type Profile struct {
	BaseModel
	Username          string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email             string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash      string         `json:"-" gorm:"size:255;not null"`
	DisplayName       string         `json:"display_name" gorm:"size:100"`
	Bio               string         `json:"bio" gorm:"type:text"`
	AvatarURL         string         `json:"avatar_url" gorm:"size:500"`
	IsAdmin           bool           `json:"is_admin" gorm:"default:false"`
	Status            ApprovalStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	SubmissionTier    SubmissionTier `json:"submission_tier" gorm:"type:varchar(20);default:'standard'"`
	ProfilePublic     bool           `json:"profile_public" gorm:"default:true"`
	AllKitsPublic     bool           `json:"all_kits_public" gorm:"default:false"`
	UsernameChangedAt *time.Time     `json:"username_changed_at"`
	LastLoginAt       *time.Time     `json:"last_login_at"`

	// Relationships
	Kits        []UserJersey    `json:"kits,omitempty" gorm:"foreignKey:UserID"`
	Collections []Collection    `json:"collections,omitempty" gorm:"foreignKey:OwnerID"`
	Submissions []Submission    `json:"submissions,omitempty" gorm:"foreignKey:SubmitterID"`
	Showcase    []ShowcaseEntry `json:"showcase,omitempty" gorm:"foreignKey:ProfileID"`
}

func (p *Profile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.PasswordHash = string(hashedPassword)
	return nil
}

func (p *Profile) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password))
}

// CanChangeUsername reports whether the 30-day rename cooldown has elapsed.
func (p *Profile) CanChangeUsername(now time.Time) bool {
	if p.UsernameChangedAt == nil {
		return true
	}
	return now.Sub(*p.UsernameChangedAt) >= UsernameCooldown
}
