// internal/services/submission_service_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitvault/kitvault-backend/internal/models"
)

func newSubmissionService(t *testing.T) (*SubmissionService, *fakeUploader) {
	t.Helper()
	db := setupTestDB(t)
	uploader := &fakeUploader{}
	return NewSubmissionService(db, testConfig(), uploader, nil), uploader
}

func TestSubmitSingleCreatesPendingSubmission(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	submission, err := svc.SubmitSingle(validDraft("Arsenal"), submitter.ID, frontImage())
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalStatusPending, submission.Status)
	assert.Equal(t, "Arsenal", submission.TeamName)
	assert.Nil(t, submission.JerseyID)
	assert.NotEmpty(t, submission.FrontImageURL)
	assert.Equal(t, 1, uploader.calls)

	// No catalog row yet
	var count int64
	svc.db.Model(&models.PublicJersey{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitSingleRequiresImage(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	_, err := svc.SubmitSingle(validDraft("Arsenal"), submitter.ID, SubmissionImages{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "images", verr.Field)
	assert.Zero(t, uploader.calls)
}

func TestSubmitSingleRejectsNonImagePayload(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	// Content type claims JPEG but the bytes are a script
	images := SubmissionImages{
		Front: &ImageAttachment{
			Name:        "front.jpg",
			ContentType: "image/jpeg",
			Data:        []byte("#!/bin/sh\nrm -rf /\n"),
		},
	}

	_, err := svc.SubmitSingle(validDraft("Arsenal"), submitter.ID, images)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "front_image", verr.Field)

	// Nothing reached the blob store and no row was written
	assert.Zero(t, uploader.calls)
	var count int64
	svc.db.Model(&models.Submission{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitSingleRejectsUnknownCategory(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	draft := validDraft("Arsenal")
	draft.Category = "pyjamas"

	_, err := svc.SubmitSingle(draft, submitter.ID, frontImage())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
	// Validation failed before any upload started
	assert.Zero(t, uploader.calls)
}

func TestSubmitSingleDefaultsGenderAndFit(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	draft := validDraft("Arsenal")
	draft.Gender = ""
	draft.Fit = "baggy"

	submission, err := svc.SubmitSingle(draft, submitter.ID, frontImage())
	require.NoError(t, err)

	assert.Equal(t, models.GenderMens, submission.Gender)
	assert.Equal(t, models.DefaultFit, submission.Fit)
}

func TestSubmitSingleUploadFailureLeavesNoRow(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	uploader.failOnCall = 1
	submitter := createProfile(t, svc.db, "collector1")

	_, err := svc.SubmitSingle(validDraft("Arsenal"), submitter.ID, frontImage())

	var serr *UpstreamStorageError
	require.ErrorAs(t, err, &serr)

	var count int64
	svc.db.Model(&models.Submission{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubmitSingleTrustedSkipsModeration(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "veteran", asTrusted)

	submission, err := svc.SubmitSingle(validDraft("Milan"), submitter.ID, frontImage())
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalStatusApproved, submission.Status)
	require.NotNil(t, submission.JerseyID)

	var jersey models.PublicJersey
	require.NoError(t, svc.db.First(&jersey, "id = ?", submission.JerseyID).Error)
	assert.Equal(t, "Milan", jersey.TeamName)
}

func TestQuotaBlocksWholeBatch(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	// 14 existing against a limit of 15
	for i := 0; i < 14; i++ {
		sub := &models.Submission{
			SubmitterID: submitter.ID,
			Status:      models.ApprovalStatusPending,
			TeamName:    "Filler",
			Season:      "2023/24",
			Category:    models.KitCategoryClub,
			KitType:     models.KitTypeHome,
			Gender:      models.GenderMens,
		}
		require.NoError(t, svc.db.Create(sub).Error)
	}

	rows := make([]BatchRow, 5)
	for i := range rows {
		rows[i] = BatchRow{Draft: validDraft("Team")}
	}

	_, err := svc.SubmitBatch(context.Background(), rows, submitter.ID)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// All-or-nothing at the quota gate: not even one row inserted
	var count int64
	svc.db.Model(&models.Submission{}).Where("submitter_id = ?", submitter.ID).Count(&count)
	assert.EqualValues(t, 14, count)
}

func TestBatchPartialSuccessOnValidationErrors(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	bad := validDraft("")
	rows := []BatchRow{
		{Draft: validDraft("Ajax")},
		{Draft: bad},
		{Draft: validDraft("Porto")},
	}

	result, err := svc.SubmitBatch(context.Background(), rows, submitter.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Submitted)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 1, result.Issues[0].Row)
	assert.Equal(t, "team_name", result.Issues[0].Errors[0].Field)

	var count int64
	svc.db.Model(&models.Submission{}).Where("submitter_id = ?", submitter.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestBatchUploadFailureIsRowScoped(t *testing.T) {
	svc, uploader := newSubmissionService(t)
	uploader.failOnCall = 2
	submitter := createProfile(t, svc.db, "collector1")

	rows := []BatchRow{
		{Draft: validDraft("Ajax"), Images: frontImage()},
		{Draft: validDraft("Porto"), Images: frontImage()}, // upload fails here
		{Draft: validDraft("Benfica"), Images: frontImage()},
		{Draft: validDraft("Sporting"), Images: frontImage()},
	}

	result, err := svc.SubmitBatch(context.Background(), rows, submitter.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Submitted)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 1, result.Issues[0].Row)

	var count int64
	svc.db.Model(&models.Submission{}).Where("submitter_id = ?", submitter.ID).Count(&count)
	assert.EqualValues(t, 3, count)
}

func TestBatchStopsOnCancelledContext(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []BatchRow{{Draft: validDraft("Ajax")}}
	result, err := svc.SubmitBatch(ctx, rows, submitter.ID)

	require.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, result.Submitted)
}

func TestCheckQuotaCountsAllStatuses(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "collector1")

	for _, status := range []models.ApprovalStatus{
		models.ApprovalStatusPending,
		models.ApprovalStatusApproved,
	} {
		sub := &models.Submission{
			SubmitterID: submitter.ID,
			Status:      status,
			TeamName:    "Filler",
			Season:      "2023/24",
			Category:    models.KitCategoryClub,
			KitType:     models.KitTypeHome,
			Gender:      models.GenderMens,
		}
		require.NoError(t, svc.db.Create(sub).Error)
	}

	check, err := svc.CheckQuota(submitter.ID, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 2, check.Existing)
	assert.True(t, check.Allowed)
}

func TestCheckQuotaTrustedTierLimit(t *testing.T) {
	svc, _ := newSubmissionService(t)
	submitter := createProfile(t, svc.db, "veteran", asTrusted)

	check, err := svc.CheckQuota(submitter.ID, 100)
	require.NoError(t, err)

	assert.Equal(t, 500, check.Limit)
	assert.True(t, check.Allowed)
}
