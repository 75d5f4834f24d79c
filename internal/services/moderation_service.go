// internal/services/moderation_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/models"
	"github.com/kitvault/kitvault-backend/internal/utils"
)

// ErrAlreadyReviewed marks a transition attempted on a submission that has
// already left the pending state. Approved and rejected are both terminal.
var ErrAlreadyReviewed = errors.New("submission has already been reviewed")

type ModerationService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewModerationService(db *gorm.DB, notifications *NotificationService) *ModerationService {
	return &ModerationService{
		db:            db,
		notifications: notifications,
	}
}

// SubmissionEdits are optional admin corrections applied at approval time.
// Nil fields are left untouched.
type SubmissionEdits struct {
	TeamName     *string                   `json:"team_name,omitempty"`
	Season       *string                   `json:"season,omitempty"`
	Category     *models.KitCategory       `json:"category,omitempty"`
	KitType      *models.KitType           `json:"kit_type,omitempty"`
	Gender       *models.CompetitionGender `json:"gender,omitempty"`
	Brand        *string                   `json:"brand,omitempty"`
	PlayerName   *string                   `json:"player_name,omitempty"`
	PlayerNumber *int                      `json:"player_number,omitempty"`
	Colors       []string                  `json:"colors,omitempty"`
	Sponsors     []string                  `json:"sponsors,omitempty"`
	Description  *string                   `json:"description,omitempty"`
}

type ModerationFilter struct {
	utils.PaginationParams
	SubmitterID *uuid.UUID `json:"submitter_id,omitempty"`
	Season      string     `json:"season,omitempty"`
}

// requireAdmin loads the caller and rejects non-admins before any state
// is touched.
func (s *ModerationService) requireAdmin(reviewerID uuid.UUID) (*models.Profile, error) {
	var reviewer models.Profile
	if err := s.db.First(&reviewer, "id = ?", reviewerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, &UpstreamStorageError{Op: "load reviewer", Err: err}
	}
	if !reviewer.IsAdmin {
		return nil, ErrNotAuthorized
	}
	return &reviewer, nil
}

// Approve transitions a pending submission to approved and materializes
// exactly one catalog row. The status flip is a compare-and-set on the
// pending precondition, so two racing approvals cannot both win; the loser
// re-reads and, if the winner already created the catalog row, returns its
// id instead of erroring. Re-invoking Approve on an approved submission is
// therefore idempotent: it never creates a second catalog row.
func (s *ModerationService) Approve(submissionID, reviewerID uuid.UUID, edits *SubmissionEdits) (uuid.UUID, error) {
	if _, err := s.requireAdmin(reviewerID); err != nil {
		return uuid.Nil, err
	}

	var submission models.Submission
	if err := s.db.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrNotFound
		}
		return uuid.Nil, &UpstreamStorageError{Op: "load submission", Err: err}
	}

	switch submission.Status {
	case models.ApprovalStatusApproved:
		if submission.JerseyID != nil {
			return *submission.JerseyID, nil
		}
		// Approved but the catalog insert failed earlier: retry the
		// projection without flipping status again.
		return s.materialize(&submission)
	case models.ApprovalStatusRejected:
		return uuid.Nil, ErrAlreadyReviewed
	}

	applyEdits(&submission, edits)
	if !submission.HasRequiredFields() {
		return uuid.Nil, &ValidationError{Field: "submission", Reason: "required fields must be present before approval"}
	}

	now := time.Now()
	res := s.db.Model(&models.Submission{}).
		Where("id = ? AND status = ?", submissionID, models.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ApprovalStatusApproved,
			"reviewed_by_id": reviewerID,
			"reviewed_at":    now,
			"team_name":      submission.TeamName,
			"season":         submission.Season,
			"category":       submission.Category,
			"kit_type":       submission.KitType,
			"gender":         submission.Gender,
			"brand":          submission.Brand,
			"player_name":    submission.PlayerName,
			"player_number":  submission.PlayerNumber,
			"colors":         submission.Colors,
			"sponsors":       submission.Sponsors,
			"description":    submission.Description,
		})
	if res.Error != nil {
		return uuid.Nil, &UpstreamStorageError{Op: "approve submission", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		// Lost the race: someone else resolved it first. Re-read to find out how.
		var current models.Submission
		if err := s.db.First(&current, "id = ?", submissionID).Error; err != nil {
			return uuid.Nil, ErrAlreadyReviewed
		}
		if current.Status == models.ApprovalStatusApproved && current.JerseyID != nil {
			return *current.JerseyID, nil
		}
		return uuid.Nil, &ConsistencyError{Op: "approve", Resource: "submission"}
	}

	submission.Status = models.ApprovalStatusApproved
	submission.ReviewedByID = &reviewerID
	submission.ReviewedAt = &now

	jerseyID, err := s.materialize(&submission)
	if err != nil {
		// The submission is now approved with no catalog row. Surfaced as
		// retryable; ReconcileApproved also sweeps these up.
		logrus.WithFields(logrus.Fields{
			"submission_id": submissionID,
			"reviewer_id":   reviewerID,
		}).WithError(err).Error("catalog insert failed after approval")
		return uuid.Nil, err
	}

	go s.notifications.NotifySubmissionApproved(&submission, jerseyID)
	go s.audit(reviewerID, "APPROVE_SUBMISSION", "submission", submissionID, models.JSONB{"jersey_id": jerseyID.String()})

	return jerseyID, nil
}

// materialize projects the submission into a catalog row and back-fills
// jersey_id. Guarded against duplicates by re-checking jersey_id first.
func (s *ModerationService) materialize(submission *models.Submission) (uuid.UUID, error) {
	if submission.JerseyID != nil {
		return *submission.JerseyID, nil
	}

	jersey := ProjectSubmission(submission)
	if err := s.db.Create(jersey).Error; err != nil {
		return uuid.Nil, &UpstreamStorageError{Op: "create catalog entry", Err: err}
	}

	if err := s.db.Model(&models.Submission{}).
		Where("id = ?", submission.ID).
		Update("jersey_id", jersey.ID).Error; err != nil {
		return uuid.Nil, &UpstreamStorageError{Op: "link catalog entry", Err: err}
	}

	submission.JerseyID = &jersey.ID
	return jersey.ID, nil
}

// ProjectSubmission maps submission fields onto a catalog entry. Explicit
// on purpose: the submission's brand becomes the catalog's manufacturer,
// image URLs carry over unchanged.
func ProjectSubmission(submission *models.Submission) *models.PublicJersey {
	return &models.PublicJersey{
		TeamName:      submission.TeamName,
		Season:        submission.Season,
		Category:      submission.Category,
		KitType:       submission.KitType,
		Gender:        submission.Gender,
		Manufacturer:  submission.Brand,
		PlayerName:    submission.PlayerName,
		PlayerNumber:  submission.PlayerNumber,
		Colors:        submission.Colors,
		Sponsors:      submission.Sponsors,
		Description:   submission.Description,
		FrontImageURL: submission.FrontImageURL,
		BackImageURL:  submission.BackImageURL,
		CreatedByID:   submission.SubmitterID,
	}
}

// Reject deletes the submission outright. Rejection is destructive, not
// archival: the row is gone afterwards. The delete carries the pending
// precondition; zero affected rows on a submission we just read is a
// blocked write or a race, never silently ignored.
func (s *ModerationService) Reject(submissionID, reviewerID uuid.UUID, notes string) error {
	if _, err := s.requireAdmin(reviewerID); err != nil {
		return err
	}

	var submission models.Submission
	if err := s.db.First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return &UpstreamStorageError{Op: "load submission", Err: err}
	}

	if submission.Status != models.ApprovalStatusPending {
		return ErrAlreadyReviewed
	}

	res := s.db.Unscoped().
		Where("id = ? AND status = ?", submissionID, models.ApprovalStatusPending).
		Delete(&models.Submission{})
	if res.Error != nil {
		return &UpstreamStorageError{Op: "delete submission", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &ConsistencyError{Op: "reject", Resource: "submission"}
	}

	go s.notifications.NotifySubmissionRejected(&submission, notes)
	go s.audit(reviewerID, "REJECT_SUBMISSION", "submission", submissionID, models.JSONB{"notes": notes})

	return nil
}

// GetPendingSubmissions lists the moderation queue, oldest first.
func (s *ModerationService) GetPendingSubmissions(filter ModerationFilter) ([]models.Submission, int64, error) {
	query := s.db.Model(&models.Submission{}).
		Preload("Submitter").
		Where("status = ?", models.ApprovalStatusPending)

	if filter.SubmitterID != nil {
		query = query.Where("submitter_id = ?", *filter.SubmitterID)
	}
	if filter.Season != "" {
		query = query.Where("season = ?", filter.Season)
	}
	if filter.Search != "" {
		query = query.Where("team_name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, &UpstreamStorageError{Op: "count pending submissions", Err: err}
	}

	allowedSortFields := []string{"created_at", "team_name", "season"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var submissions []models.Submission
	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, &UpstreamStorageError{Op: "fetch pending submissions", Err: err}
	}

	return submissions, total, nil
}

// ReconcileApproved repairs submissions stuck approved without a catalog
// row (catalog insert failed after the status flip). Returns the number of
// catalog rows created.
func (s *ModerationService) ReconcileApproved() (int, error) {
	var orphans []models.Submission
	if err := s.db.Where("status = ? AND jersey_id IS NULL", models.ApprovalStatusApproved).
		Find(&orphans).Error; err != nil {
		return 0, &UpstreamStorageError{Op: "scan approved submissions", Err: err}
	}

	repaired := 0
	for i := range orphans {
		if _, err := s.materialize(&orphans[i]); err != nil {
			logrus.WithField("submission_id", orphans[i].ID).
				WithError(err).Error("reconcile failed for submission")
			continue
		}
		repaired++
	}

	return repaired, nil
}

// SetProfileStatus moves a profile through the platform-access gate.
// The pending precondition mirrors the submission state machine.
func (s *ModerationService) SetProfileStatus(profileID, reviewerID uuid.UUID, status models.ApprovalStatus) error {
	if _, err := s.requireAdmin(reviewerID); err != nil {
		return err
	}
	if status != models.ApprovalStatusApproved && status != models.ApprovalStatusRejected {
		return &ValidationError{Field: "status", Reason: "must be approved or rejected"}
	}

	res := s.db.Model(&models.Profile{}).
		Where("id = ? AND status = ?", profileID, models.ApprovalStatusPending).
		Update("status", status)
	if res.Error != nil {
		return &UpstreamStorageError{Op: "update profile status", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		var profile models.Profile
		if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
			return ErrNotFound
		}
		if profile.Status == status {
			return nil
		}
		return &ConsistencyError{Op: "set status", Resource: "profile"}
	}

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err == nil {
		go s.notifications.NotifyProfileStatusChange(&profile, models.ApprovalStatusPending)
	}
	go s.audit(reviewerID, "SET_PROFILE_STATUS", "profile", profileID, models.JSONB{"status": string(status)})

	return nil
}

// DashboardStats are headline counts for the admin overview.
type DashboardStats struct {
	TotalProfiles      int64 `json:"total_profiles"`
	PendingProfiles    int64 `json:"pending_profiles"`
	CatalogSize        int64 `json:"catalog_size"`
	PendingSubmissions int64 `json:"pending_submissions"`
	OwnershipRecords   int64 `json:"ownership_records"`
	CustomCollections  int64 `json:"custom_collections"`
}

func (s *ModerationService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	s.db.Model(&models.Profile{}).Count(&stats.TotalProfiles)
	s.db.Model(&models.Profile{}).Where("status = ?", models.ApprovalStatusPending).Count(&stats.PendingProfiles)
	s.db.Model(&models.PublicJersey{}).Count(&stats.CatalogSize)
	s.db.Model(&models.Submission{}).Where("status = ?", models.ApprovalStatusPending).Count(&stats.PendingSubmissions)
	s.db.Model(&models.UserJersey{}).Count(&stats.OwnershipRecords)
	s.db.Model(&models.Collection{}).Count(&stats.CustomCollections)

	return stats, nil
}

func (s *ModerationService) audit(adminID uuid.UUID, action, resourceType string, resourceID uuid.UUID, values models.JSONB) {
	entry := &models.AuditLog{
		UserID:       &adminID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   &resourceID,
		NewValues:    values,
	}
	if err := s.db.Create(entry).Error; err != nil {
		logrus.WithError(err).Error("Failed to create audit log")
	}
}

func applyEdits(submission *models.Submission, edits *SubmissionEdits) {
	if edits == nil {
		return
	}
	if edits.TeamName != nil {
		submission.TeamName = *edits.TeamName
	}
	if edits.Season != nil {
		submission.Season = *edits.Season
	}
	if edits.Category != nil {
		submission.Category = *edits.Category
	}
	if edits.KitType != nil {
		submission.KitType = *edits.KitType
	}
	if edits.Gender != nil {
		submission.Gender = *edits.Gender
	}
	if edits.Brand != nil {
		submission.Brand = *edits.Brand
	}
	if edits.PlayerName != nil {
		submission.PlayerName = *edits.PlayerName
	}
	if edits.PlayerNumber != nil {
		submission.PlayerNumber = edits.PlayerNumber
	}
	if edits.Colors != nil {
		submission.Colors = models.StringList(edits.Colors)
	}
	if edits.Sponsors != nil {
		submission.Sponsors = models.StringList(edits.Sponsors)
	}
	if edits.Description != nil {
		submission.Description = *edits.Description
	}
}
