// internal/services/moderation_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kitvault/kitvault-backend/internal/models"
)

func newModerationService(t *testing.T) *ModerationService {
	t.Helper()
	return NewModerationService(setupTestDB(t), nil)
}

func createPendingSubmission(t *testing.T, db *gorm.DB, submitterID uuid.UUID, teamName string) *models.Submission {
	t.Helper()

	sub := &models.Submission{
		SubmitterID:   submitterID,
		Status:        models.ApprovalStatusPending,
		TeamName:      teamName,
		Season:        "2023/24",
		Category:      models.KitCategoryClub,
		KitType:       models.KitTypeHome,
		Gender:        models.GenderMens,
		Brand:         "TestBrand",
		FrontImageURL: "https://cdn.test/front.jpg",
	}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func TestApproveCreatesCatalogRow(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	jerseyID, err := svc.Approve(sub.ID, admin.ID, nil)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, jerseyID)

	var jersey models.PublicJersey
	require.NoError(t, svc.db.First(&jersey, "id = ?", jerseyID).Error)
	assert.Equal(t, "Arsenal", jersey.TeamName)
	assert.Equal(t, "TestBrand", jersey.Manufacturer)
	assert.Equal(t, "https://cdn.test/front.jpg", jersey.FrontImageURL)
	assert.Equal(t, submitter.ID, jersey.CreatedByID)

	var updated models.Submission
	require.NoError(t, svc.db.First(&updated, "id = ?", sub.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, updated.Status)
	require.NotNil(t, updated.JerseyID)
	assert.Equal(t, jerseyID, *updated.JerseyID)
	require.NotNil(t, updated.ReviewedByID)
	assert.Equal(t, admin.ID, *updated.ReviewedByID)
}

func TestApproveIsIdempotent(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	first, err := svc.Approve(sub.ID, admin.ID, nil)
	require.NoError(t, err)

	second, err := svc.Approve(sub.ID, admin.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Exactly one catalog row despite the double approval
	var count int64
	svc.db.Model(&models.PublicJersey{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestApproveAppliesEditsBeforePublication(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsnal")

	fixed := "Arsenal"
	jerseyID, err := svc.Approve(sub.ID, admin.ID, &SubmissionEdits{TeamName: &fixed})
	require.NoError(t, err)

	var jersey models.PublicJersey
	require.NoError(t, svc.db.First(&jersey, "id = ?", jerseyID).Error)
	assert.Equal(t, "Arsenal", jersey.TeamName)

	var updated models.Submission
	require.NoError(t, svc.db.First(&updated, "id = ?", sub.ID).Error)
	assert.Equal(t, "Arsenal", updated.TeamName)
}

func TestApproveRejectsEditsThatBlankRequiredFields(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	empty := ""
	_, err := svc.Approve(sub.ID, admin.ID, &SubmissionEdits{TeamName: &empty})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Still pending, nothing published
	var current models.Submission
	require.NoError(t, svc.db.First(&current, "id = ?", sub.ID).Error)
	assert.Equal(t, models.ApprovalStatusPending, current.Status)
}

func TestApproveRequiresAdmin(t *testing.T) {
	svc := newModerationService(t)
	user := createProfile(t, svc.db, "regular")
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	_, err := svc.Approve(sub.ID, user.ID, nil)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestApproveMissingSubmission(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)

	_, err := svc.Approve(uuid.New(), admin.ID, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRejectDeletesSubmission(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	require.NoError(t, svc.Reject(sub.ID, admin.ID, "blurry photos"))

	// Gone for good, soft delete included
	var count int64
	svc.db.Unscoped().Model(&models.Submission{}).Where("id = ?", sub.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRejectApprovedSubmissionFails(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")

	_, err := svc.Approve(sub.ID, admin.ID, nil)
	require.NoError(t, err)

	err = svc.Reject(sub.ID, admin.ID, "")
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	// Catalog row untouched
	var count int64
	svc.db.Model(&models.PublicJersey{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReconcileApprovedRepairsOrphans(t *testing.T) {
	svc := newModerationService(t)
	submitter := createProfile(t, svc.db, "collector1")

	// Approved submission whose catalog insert never happened
	orphan := createPendingSubmission(t, svc.db, submitter.ID, "Chelsea")
	require.NoError(t, svc.db.Model(orphan).Update("status", models.ApprovalStatusApproved).Error)

	repaired, err := svc.ReconcileApproved()
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	var updated models.Submission
	require.NoError(t, svc.db.First(&updated, "id = ?", orphan.ID).Error)
	require.NotNil(t, updated.JerseyID)

	var jersey models.PublicJersey
	require.NoError(t, svc.db.First(&jersey, "id = ?", updated.JerseyID).Error)
	assert.Equal(t, "Chelsea", jersey.TeamName)

	// Second sweep finds nothing
	repaired, err = svc.ReconcileApproved()
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestGetPendingSubmissionsFilters(t *testing.T) {
	svc := newModerationService(t)
	a := createProfile(t, svc.db, "collectorA")
	b := createProfile(t, svc.db, "collectorB")

	createPendingSubmission(t, svc.db, a.ID, "Arsenal")
	createPendingSubmission(t, svc.db, b.ID, "Barcelona")
	approved := createPendingSubmission(t, svc.db, a.ID, "Celtic")
	require.NoError(t, svc.db.Model(approved).Update("status", models.ApprovalStatusApproved).Error)

	filter := ModerationFilter{SubmitterID: &a.ID}
	filter.Page = 1
	filter.Limit = 20
	filter.Order = "desc"

	subs, total, err := svc.GetPendingSubmissions(filter)
	require.NoError(t, err)

	assert.EqualValues(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, "Arsenal", subs[0].TeamName)
}

func TestSetProfileStatusApproves(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	newcomer := createProfile(t, svc.db, "newcomer", asPending)

	require.NoError(t, svc.SetProfileStatus(newcomer.ID, admin.ID, models.ApprovalStatusApproved))

	var updated models.Profile
	require.NoError(t, svc.db.First(&updated, "id = ?", newcomer.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, updated.Status)

	// Re-applying the same target status is a no-op, not an error
	require.NoError(t, svc.SetProfileStatus(newcomer.ID, admin.ID, models.ApprovalStatusApproved))
}

func TestSetProfileStatusWithNotifier(t *testing.T) {
	db := setupTestDB(t)
	svc := NewModerationService(db, NewNotificationService(db, testConfig()))
	admin := createProfile(t, db, "admin", asAdmin)
	newcomer := createProfile(t, db, "newcomer", asPending)

	require.NoError(t, svc.SetProfileStatus(newcomer.ID, admin.ID, models.ApprovalStatusApproved))

	var updated models.Profile
	require.NoError(t, db.First(&updated, "id = ?", newcomer.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, updated.Status)
}

func TestNotifyProfileStatusChangeRendersTemplate(t *testing.T) {
	svc := NewNotificationService(setupTestDB(t), testConfig())
	profile := createProfile(t, svc.db, "collector1")
	profile.Status = models.ApprovalStatusApproved

	require.NoError(t, svc.NotifyProfileStatusChange(profile, models.ApprovalStatusPending))
}

func TestDashboardStats(t *testing.T) {
	svc := newModerationService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	submitter := createProfile(t, svc.db, "collector1")
	sub := createPendingSubmission(t, svc.db, submitter.ID, "Arsenal")
	createPendingSubmission(t, svc.db, submitter.ID, "Barcelona")

	_, err := svc.Approve(sub.ID, admin.ID, nil)
	require.NoError(t, err)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalProfiles)
	assert.EqualValues(t, 1, stats.CatalogSize)
	assert.EqualValues(t, 1, stats.PendingSubmissions)
}
