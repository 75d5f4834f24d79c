// internal/services/jersey_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitvault/kitvault-backend/internal/models"
)

func newJerseyService(t *testing.T) *JerseyService {
	t.Helper()
	return NewJerseyService(setupTestDB(t), testCache())
}

func browseFilter() JerseyFilter {
	var f JerseyFilter
	f.Page = 1
	f.Limit = 20
	f.Order = "desc"
	return f
}

func TestBrowseStructuredFilters(t *testing.T) {
	svc := newJerseyService(t)
	createJersey(t, svc.db, "Arsenal", "2023/24")
	createJersey(t, svc.db, "Arsenal", "2022/23")
	away := createJersey(t, svc.db, "Barcelona", "2023/24")
	require.NoError(t, svc.db.Model(away).Update("kit_type", models.KitTypeAway).Error)

	filter := browseFilter()
	filter.TeamName = "Arsenal"
	result, err := svc.Browse(filter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	filter = browseFilter()
	filter.Season = "2023/24"
	result, err = svc.Browse(filter)
	require.NoError(t, err)
	assert.EqualValues(t, 2, result.Total)

	filter = browseFilter()
	filter.KitType = string(models.KitTypeAway)
	result, err = svc.Browse(filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
	rows := result.Data.([]models.PublicJersey)
	require.Len(t, rows, 1)
	assert.Equal(t, "Barcelona", rows[0].TeamName)
}

func TestBrowsePagination(t *testing.T) {
	svc := newJerseyService(t)
	for _, team := range []string{"A", "B", "C", "D", "E"} {
		createJersey(t, svc.db, team, "2023/24")
	}

	filter := browseFilter()
	filter.Limit = 2
	result, err := svc.Browse(filter)
	require.NoError(t, err)
	assert.EqualValues(t, 5, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Data.([]models.PublicJersey), 2)

	filter.Page = 3
	result, err = svc.Browse(filter)
	require.NoError(t, err)
	assert.Len(t, result.Data.([]models.PublicJersey), 1)
}

func TestGetByIDIncludesCounts(t *testing.T) {
	svc := newJerseyService(t)
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	u1 := createProfile(t, svc.db, "collector1")
	u2 := createProfile(t, svc.db, "collector2")

	require.NoError(t, svc.db.Create(&models.JerseyLike{UserID: u1.ID, JerseyID: jersey.ID}).Error)
	require.NoError(t, svc.db.Create(&models.JerseyLike{UserID: u2.ID, JerseyID: jersey.ID}).Error)
	require.NoError(t, svc.db.Create(&models.UserJersey{UserID: u1.ID, JerseyID: jersey.ID, Fit: models.DefaultFit}).Error)

	detail, err := svc.GetByID(context.Background(), jersey.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", detail.TeamName)
	assert.EqualValues(t, 2, detail.LikeCount)
	assert.EqualValues(t, 1, detail.OwnerCount)
}

func TestGetByIDMissing(t *testing.T) {
	svc := newJerseyService(t)

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRequiresAdmin(t *testing.T) {
	svc := newJerseyService(t)
	user := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	name := "Arsenal FC"
	_, err := svc.Update(user.ID, jersey.ID, &UpdateJerseyRequest{TeamName: &name})
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestUpdateValidatesEnums(t *testing.T) {
	svc := newJerseyService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	bad := "pyjamas"
	_, err := svc.Update(admin.ID, jersey.ID, &UpdateJerseyRequest{Category: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)

	good := string(models.KitCategoryNationalTeam)
	gender := string(models.GenderWomens)
	updated, err := svc.Update(admin.ID, jersey.ID, &UpdateJerseyRequest{Category: &good, Gender: &gender})
	require.NoError(t, err)
	assert.Equal(t, models.KitCategoryNationalTeam, updated.Category)
	assert.Equal(t, models.GenderWomens, updated.Gender)
}

func TestUpdatePartialLeavesRestAlone(t *testing.T) {
	svc := newJerseyService(t)
	admin := createProfile(t, svc.db, "admin", asAdmin)
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	maker := "Adidas"
	updated, err := svc.Update(admin.ID, jersey.ID, &UpdateJerseyRequest{Manufacturer: &maker})
	require.NoError(t, err)
	assert.Equal(t, "Adidas", updated.Manufacturer)
	assert.Equal(t, "Arsenal", updated.TeamName)
	assert.Equal(t, "2023/24", updated.Season)
}
