// internal/services/submission_service.go
package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/config"
	"github.com/kitvault/kitvault-backend/internal/models"
)

type SubmissionService struct {
	db            *gorm.DB
	config        *config.Config
	uploader      Uploader
	notifications *NotificationService
}

func NewSubmissionService(db *gorm.DB, cfg *config.Config, uploader Uploader, notifications *NotificationService) *SubmissionService {
	return &SubmissionService{
		db:            db,
		config:        cfg,
		uploader:      uploader,
		notifications: notifications,
	}
}

// SubmissionDraft carries the user-provided kit fields before validation.
type SubmissionDraft struct {
	TeamName     string                   `json:"team_name"`
	Season       string                   `json:"season"`
	Category     models.KitCategory       `json:"category"`
	KitType      models.KitType           `json:"kit_type"`
	Gender       models.CompetitionGender `json:"gender"`
	Brand        string                   `json:"brand"`
	PlayerName   string                   `json:"player_name"`
	PlayerNumber *int                     `json:"player_number"`
	Fit          models.FitType           `json:"fit"`
	Colors       []string                 `json:"colors"`
	Sponsors     []string                 `json:"sponsors"`
	Description  string                   `json:"description"`
}

// ImageAttachment is an in-memory image pending upload to the blob store.
type ImageAttachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmissionImages holds the optional front/back shots for one draft.
type SubmissionImages struct {
	Front *ImageAttachment
	Back  *ImageAttachment
}

func (i SubmissionImages) empty() bool {
	return i.Front == nil && i.Back == nil
}

// BatchRow is one row of a bulk submission, already normalized by the
// spreadsheet parser upstream.
type BatchRow struct {
	Draft  SubmissionDraft  `json:"draft"`
	Images SubmissionImages `json:"-"`
}

// RowIssue reports validation errors and warnings for a single batch row.
// Errors block the row; warnings do not.
type RowIssue struct {
	Row      int                `json:"row"`
	Errors   []*ValidationError `json:"errors,omitempty"`
	Warnings []string           `json:"warnings,omitempty"`
}

// BatchResult reports partial progress. Submitted is always meaningful,
// even when Issues is non-empty: already-inserted rows stay committed.
type BatchResult struct {
	Submitted int        `json:"submitted"`
	Issues    []RowIssue `json:"issues,omitempty"`
}

// QuotaCheck is the advisory pre-flight result for a batch.
type QuotaCheck struct {
	Allowed  bool  `json:"allowed"`
	Existing int64 `json:"existing"`
	Incoming int   `json:"incoming"`
	Limit    int   `json:"limit"`
}

// CheckQuota counts the submitter's existing submissions (any status) and
// compares against the tier ceiling. Evaluated once up front, not re-checked
// per row: a concurrent submission from the same user can overshoot the
// limit by a small margin. Accepted soft race; a per-user counter row with
// an atomic increment would be the stricter replacement.
func (s *SubmissionService) CheckQuota(submitterID uuid.UUID, incoming int) (*QuotaCheck, error) {
	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", submitterID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, &UpstreamStorageError{Op: "load submitter", Err: err}
	}

	var existing int64
	if err := s.db.Model(&models.Submission{}).
		Where("submitter_id = ?", submitterID).
		Count(&existing).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "count submissions", Err: err}
	}

	limit := s.config.QuotaFor(string(profile.SubmissionTier))
	return &QuotaCheck{
		Allowed:  existing+int64(incoming) <= int64(limit),
		Existing: existing,
		Incoming: incoming,
		Limit:    limit,
	}, nil
}

// SubmitSingle validates a draft, uploads its images and stages a pending
// submission. Images are uploaded before the row is written so no row ever
// references an upload still in flight, and an upload failure leaves no
// orphaned row behind. Trusted submitters skip the moderation queue: their
// submission is stored approved and the catalog row is created immediately.
func (s *SubmissionService) SubmitSingle(draft SubmissionDraft, submitterID uuid.UUID, images SubmissionImages) (*models.Submission, error) {
	if images.empty() {
		return nil, &ValidationError{Field: "images", Reason: "missing_images"}
	}

	quota, err := s.CheckQuota(submitterID, 1)
	if err != nil {
		return nil, err
	}
	if !quota.Allowed {
		return nil, fmt.Errorf("%w: %d of %d used", ErrQuotaExceeded, quota.Existing, quota.Limit)
	}

	errs, warnings, normalized := s.validateRow(draft)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	for _, w := range warnings {
		logrus.WithField("submitter_id", submitterID).Warn(w)
	}

	frontURL, backURL, err := s.uploadImages(images)
	if err != nil {
		return nil, err
	}

	submission := s.buildSubmission(normalized, submitterID, frontURL, backURL)

	var profile models.Profile
	if err := s.db.First(&profile, "id = ?", submitterID).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "load submitter", Err: err}
	}

	if profile.SubmissionTier == models.TierTrusted {
		return s.submitTrusted(submission)
	}

	if err := s.db.Create(submission).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "insert submission", Err: err}
	}

	go s.notifications.NotifySubmissionReceived(submission)

	return submission, nil
}

// submitTrusted stores the submission pre-approved and materializes the
// catalog row in one transaction.
func (s *SubmissionService) submitTrusted(submission *models.Submission) (*models.Submission, error) {
	now := time.Now()
	submission.Status = models.ApprovalStatusApproved
	submission.ReviewedByID = &submission.SubmitterID
	submission.ReviewedAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		jersey := ProjectSubmission(submission)
		if err := tx.Create(jersey).Error; err != nil {
			return err
		}
		submission.JerseyID = &jersey.ID
		return tx.Model(submission).Update("jersey_id", jersey.ID).Error
	})
	if err != nil {
		return nil, &UpstreamStorageError{Op: "trusted submit", Err: err}
	}

	return submission, nil
}

// SubmitBatch processes rows sequentially. Each row independently validates,
// uploads and inserts; a failure on one row never rolls back earlier rows.
// The context is only consulted between rows, so cancellation stops further
// processing but leaves committed rows committed.
func (s *SubmissionService) SubmitBatch(ctx context.Context, rows []BatchRow, submitterID uuid.UUID) (*BatchResult, error) {
	quota, err := s.CheckQuota(submitterID, len(rows))
	if err != nil {
		return nil, err
	}
	if !quota.Allowed {
		return nil, fmt.Errorf("%w: %d existing + %d incoming exceeds limit %d",
			ErrQuotaExceeded, quota.Existing, quota.Incoming, quota.Limit)
	}

	result := &BatchResult{}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			// Caller aborted: already-inserted rows stay committed.
			return result, err
		}

		errs, warnings, normalized := s.validateRow(row.Draft)
		issue := RowIssue{Row: i, Errors: errs, Warnings: warnings}

		if len(errs) > 0 {
			result.Issues = append(result.Issues, issue)
			continue
		}

		frontURL, backURL, err := s.uploadImages(row.Images)
		if err != nil {
			issue.Errors = append(issue.Errors, &ValidationError{Field: "images", Reason: err.Error()})
			result.Issues = append(result.Issues, issue)
			continue
		}

		submission := s.buildSubmission(normalized, submitterID, frontURL, backURL)
		if err := s.db.Create(submission).Error; err != nil {
			issue.Errors = append(issue.Errors, &ValidationError{Field: "row", Reason: err.Error()})
			result.Issues = append(result.Issues, issue)
			continue
		}

		result.Submitted++
		if len(warnings) > 0 {
			result.Issues = append(result.Issues, issue)
		}
	}

	if result.Submitted > 0 {
		go s.notifications.NotifyBatchReceived(submitterID, result.Submitted)
	}

	return result, nil
}

// validateRow applies the row-level rules: the required field set must be
// present and non-blank, closed enum fields are hard errors, and fit
// soft-corrects to the default with a warning instead of blocking.
func (s *SubmissionService) validateRow(draft SubmissionDraft) ([]*ValidationError, []string, SubmissionDraft) {
	var errs []*ValidationError
	var warnings []string

	draft.TeamName = strings.TrimSpace(draft.TeamName)
	draft.Season = strings.TrimSpace(draft.Season)

	if draft.TeamName == "" {
		errs = append(errs, &ValidationError{Field: "team_name", Reason: "required"})
	}
	if draft.Season == "" {
		errs = append(errs, &ValidationError{Field: "season", Reason: "required"})
	}

	if draft.Category == "" {
		errs = append(errs, &ValidationError{Field: "category", Reason: "required"})
	} else if !models.ValidKitCategory(draft.Category) {
		errs = append(errs, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", draft.Category)})
	}

	if draft.KitType == "" {
		errs = append(errs, &ValidationError{Field: "kit_type", Reason: "required"})
	} else if !models.ValidKitType(draft.KitType) {
		errs = append(errs, &ValidationError{Field: "kit_type", Reason: fmt.Sprintf("unknown kit type %q", draft.KitType)})
	}

	if draft.Gender == "" {
		draft.Gender = models.GenderMens
	} else if !models.ValidCompetitionGender(draft.Gender) {
		errs = append(errs, &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown gender %q", draft.Gender)})
	}

	if draft.Fit == "" {
		draft.Fit = models.DefaultFit
	} else if !models.ValidFitType(draft.Fit) {
		warnings = append(warnings, fmt.Sprintf("unrecognized fit %q corrected to %q", draft.Fit, models.DefaultFit))
		draft.Fit = models.DefaultFit
	}

	return errs, warnings, draft
}

func (s *SubmissionService) buildSubmission(draft SubmissionDraft, submitterID uuid.UUID, frontURL, backURL string) *models.Submission {
	return &models.Submission{
		SubmitterID:   submitterID,
		Status:        models.ApprovalStatusPending,
		TeamName:      draft.TeamName,
		Season:        draft.Season,
		Category:      draft.Category,
		KitType:       draft.KitType,
		Gender:        draft.Gender,
		Brand:         draft.Brand,
		PlayerName:    draft.PlayerName,
		PlayerNumber:  draft.PlayerNumber,
		Fit:           draft.Fit,
		Colors:        models.StringList(draft.Colors),
		Sponsors:      models.StringList(draft.Sponsors),
		Description:   draft.Description,
		FrontImageURL: frontURL,
		BackImageURL:  backURL,
	}
}

// uploadImages pushes the attached shots to the blob store, failing fast:
// insertion is only reached once every attached image has a final URL.
func (s *SubmissionService) uploadImages(images SubmissionImages) (frontURL, backURL string, err error) {
	if images.Front != nil {
		frontURL, err = s.uploadOne(images.Front, "front")
		if err != nil {
			return "", "", err
		}
	}
	if images.Back != nil {
		backURL, err = s.uploadOne(images.Back, "back")
		if err != nil {
			return "", "", err
		}
	}
	return frontURL, backURL, nil
}

func (s *SubmissionService) uploadOne(att *ImageAttachment, side string) (string, error) {
	if !isValidImageType(att.Data) {
		return "", &ValidationError{Field: side + "_image", Reason: "not a recognized image format"}
	}

	ext := filepath.Ext(att.Name)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("submissions/%s_%s%s", uuid.New().String()[:8], side, ext)

	url, err := s.uploader.UploadBytes(att.Data, key, att.ContentType)
	if err != nil {
		return "", &UpstreamStorageError{Op: "image upload", Err: err}
	}
	return url, nil
}

// GetUserSubmissions lists a user's own submissions, newest first.
func (s *SubmissionService) GetUserSubmissions(submitterID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := s.db.Where("submitter_id = ?", submitterID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, &UpstreamStorageError{Op: "list submissions", Err: err}
	}
	return submissions, nil
}
