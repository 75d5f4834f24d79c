// internal/services/collection_service_test.go
package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitvault/kitvault-backend/internal/models"
)

func newCollectionService(t *testing.T) *CollectionService {
	t.Helper()
	return NewCollectionService(setupTestDB(t), testCache(), testConfig())
}

func TestLikesAndOwnershipAreIndependent(t *testing.T) {
	svc := newCollectionService(t)
	user := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	record, err := svc.AddOwnership(user.ID, jersey.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.LikeJersey(user.ID, jersey.ID))

	// Dropping the like keeps the ownership record
	require.NoError(t, svc.UnlikeJersey(user.ID, jersey.ID))
	var owned int64
	svc.db.Model(&models.UserJersey{}).Where("id = ?", record.ID).Count(&owned)
	assert.EqualValues(t, 1, owned)

	// And re-liking then removing ownership keeps the like
	require.NoError(t, svc.LikeJersey(user.ID, jersey.ID))
	require.NoError(t, svc.RemoveOwnership(user.ID, record.ID))
	var likes int64
	svc.db.Model(&models.JerseyLike{}).Where("user_id = ?", user.ID).Count(&likes)
	assert.EqualValues(t, 1, likes)
}

func TestUnlikeLeavesAllKitsCount(t *testing.T) {
	svc := newCollectionService(t)
	user := createProfile(t, svc.db, "collector1")
	j1 := createJersey(t, svc.db, "Arsenal", "2023/24")
	j2 := createJersey(t, svc.db, "Barcelona", "2022/23")

	_, err := svc.AddOwnership(user.ID, j1.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOwnership(user.ID, j2.ID, nil)
	require.NoError(t, err)
	require.NoError(t, svc.LikeJersey(user.ID, j1.ID))

	allKits, err := svc.Resolve(user.ID, CollectionRef{Kind: models.KindAllKits})
	require.NoError(t, err)
	liked, err := svc.Resolve(user.ID, CollectionRef{Kind: models.KindLiked})
	require.NoError(t, err)
	assert.EqualValues(t, 2, allKits.MemberCount)
	assert.EqualValues(t, 1, liked.MemberCount)

	require.NoError(t, svc.UnlikeJersey(user.ID, j1.ID))

	allKits, err = svc.Resolve(user.ID, CollectionRef{Kind: models.KindAllKits})
	require.NoError(t, err)
	liked, err = svc.Resolve(user.ID, CollectionRef{Kind: models.KindLiked})
	require.NoError(t, err)
	assert.EqualValues(t, 2, allKits.MemberCount)
	assert.EqualValues(t, 0, liked.MemberCount)
}

func TestDuplicateLikeAndWishlist(t *testing.T) {
	svc := newCollectionService(t)
	user := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	require.NoError(t, svc.LikeJersey(user.ID, jersey.ID))
	require.ErrorIs(t, svc.LikeJersey(user.ID, jersey.ID), ErrDuplicateMember)

	require.NoError(t, svc.AddToWishlist(user.ID, jersey.ID))
	require.ErrorIs(t, svc.AddToWishlist(user.ID, jersey.ID), ErrDuplicateMember)
}

func TestLikeUnknownJersey(t *testing.T) {
	svc := newCollectionService(t)
	user := createProfile(t, svc.db, "collector1")

	require.ErrorIs(t, svc.LikeJersey(user.ID, uuid.New()), ErrNotFound)
	require.ErrorIs(t, svc.AddToWishlist(user.ID, uuid.New()), ErrNotFound)
}

func TestUnlikeWithoutLike(t *testing.T) {
	svc := newCollectionService(t)
	user := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	require.ErrorIs(t, svc.UnlikeJersey(user.ID, jersey.ID), ErrNotFound)
	require.ErrorIs(t, svc.RemoveFromWishlist(user.ID, jersey.ID), ErrNotFound)
}

func TestVisibilityGate(t *testing.T) {
	public := &models.Profile{AllKitsPublic: true}
	private := &models.Profile{AllKitsPublic: false}
	publicRow := &models.Collection{IsPublic: true}
	privateRow := &models.Collection{IsPublic: false}

	// Wishlist is private no matter what the inputs claim
	assert.False(t, IsCollectionPublic(models.KindWishlist, public, publicRow))
	assert.False(t, IsCollectionPublic(models.KindWishlist, nil, nil))

	// All-kits reads the profile flag, never a stored row
	assert.True(t, IsCollectionPublic(models.KindAllKits, public, privateRow))
	assert.False(t, IsCollectionPublic(models.KindAllKits, private, publicRow))
	assert.False(t, IsCollectionPublic(models.KindAllKits, nil, publicRow))

	// Liked and custom read the stored row; a missing row means private
	assert.True(t, IsCollectionPublic(models.KindLiked, private, publicRow))
	assert.False(t, IsCollectionPublic(models.KindLiked, public, privateRow))
	assert.False(t, IsCollectionPublic(models.KindLiked, public, nil))
	assert.True(t, IsCollectionPublic(models.KindCustom, private, publicRow))
	assert.False(t, IsCollectionPublic(models.KindCustom, public, nil))
}

func TestResolvePublicPrivateProfileHidesEverything(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "hermit", asPrivate)

	// Even a public collection behind a private profile resolves to not-found
	svc.db.Model(owner).Update("all_kits_public", true)

	for _, kind := range []models.CollectionKind{models.KindAllKits, models.KindLiked, models.KindWishlist} {
		_, err := svc.ResolvePublic(context.Background(), "hermit", CollectionRef{Kind: kind})
		require.ErrorIs(t, err, ErrNotFound, "kind %s", kind)
	}
}

func TestResolvePublicPendingProfileHidden(t *testing.T) {
	svc := newCollectionService(t)
	createProfile(t, svc.db, "newcomer", asPending)

	_, err := svc.ResolvePublic(context.Background(), "newcomer", CollectionRef{Kind: models.KindAllKits})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePublicWishlistAlwaysHidden(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	require.NoError(t, svc.AddToWishlist(owner.ID, jersey.ID))

	_, err := svc.ResolvePublic(context.Background(), "collector1", CollectionRef{Kind: models.KindWishlist})
	require.ErrorIs(t, err, ErrNotFound)

	// The owner still sees it through the private path
	view, err := svc.Resolve(owner.ID, CollectionRef{Kind: models.KindWishlist})
	require.NoError(t, err)
	assert.EqualValues(t, 1, view.MemberCount)
	assert.False(t, view.IsPublic)
}

func TestResolvePublicAllKitsFollowsProfileFlag(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	j1 := createJersey(t, svc.db, "Arsenal", "2023/24")
	j2 := createJersey(t, svc.db, "Barcelona", "2022/23")
	_, err := svc.AddOwnership(owner.ID, j1.ID, nil)
	require.NoError(t, err)
	_, err = svc.AddOwnership(owner.ID, j2.ID, nil)
	require.NoError(t, err)

	ref := CollectionRef{Kind: models.KindAllKits}

	_, err = svc.ResolvePublic(context.Background(), "collector1", ref)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.db.Model(owner).Update("all_kits_public", true).Error)

	view, err := svc.ResolvePublic(context.Background(), "collector1", ref)
	require.NoError(t, err)
	assert.Equal(t, models.KindAllKits, view.Kind)
	assert.EqualValues(t, 2, view.MemberCount)
	assert.Len(t, view.Members, 2)
	for _, m := range view.Members {
		assert.NotNil(t, m.OwnershipID)
	}
}

func TestResolvePublicCustomCollection(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)

	coll, err := svc.CreateCollection(owner.ID, "Gunners", "", true)
	require.NoError(t, err)
	require.NoError(t, svc.AddToCustomCollection(owner.ID, coll.ID, record.ID))

	ref := CollectionRef{Kind: models.KindCustom, CustomID: coll.ID}
	view, err := svc.ResolvePublic(context.Background(), "collector1", ref)
	require.NoError(t, err)
	assert.Equal(t, "Gunners", view.Name)
	assert.EqualValues(t, 1, view.MemberCount)
	require.Len(t, view.Members, 1)
	assert.Equal(t, jersey.ID, view.Members[0].JerseyID)

	// Flipping it private hides it with the same not-found shape
	private := false
	_, err = svc.UpdateCollection(owner.ID, coll.ID, nil, nil, &private)
	require.NoError(t, err)
	_, err = svc.ResolvePublic(context.Background(), "collector1", ref)
	require.ErrorIs(t, err, ErrNotFound)

	// Unknown custom id is not-found, not a validation error
	_, err = svc.ResolvePublic(context.Background(), "collector1", CollectionRef{Kind: models.KindCustom, CustomID: uuid.New()})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveLikedVisibilityFromRow(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	require.NoError(t, svc.LikeJersey(owner.ID, jersey.ID))

	ref := CollectionRef{Kind: models.KindLiked}

	// No stored row yet: private by default
	_, err := svc.ResolvePublic(context.Background(), "collector1", ref)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.SetLikedVisibility(owner.ID, true))

	view, err := svc.ResolvePublic(context.Background(), "collector1", ref)
	require.NoError(t, err)
	assert.True(t, view.IsPublic)
	assert.EqualValues(t, 1, view.MemberCount)

	require.NoError(t, svc.SetLikedVisibility(owner.ID, false))
	_, err = svc.ResolvePublic(context.Background(), "collector1", ref)
	require.ErrorIs(t, err, ErrNotFound)

	// Only one liked row exists after the toggles
	var rows int64
	svc.db.Model(&models.Collection{}).Where("owner_id = ? AND kind = ?", owner.ID, models.KindLiked).Count(&rows)
	assert.EqualValues(t, 1, rows)
}

func TestRemoveOwnershipCascade(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)

	coll, err := svc.CreateCollection(owner.ID, "Gunners", "", false)
	require.NoError(t, err)
	require.NoError(t, svc.AddToCustomCollection(owner.ID, coll.ID, record.ID))
	require.NoError(t, svc.SetShowcase(owner.ID, []uuid.UUID{record.ID}))
	require.NoError(t, svc.LikeJersey(owner.ID, jersey.ID))
	require.NoError(t, svc.AddToWishlist(owner.ID, jersey.ID))

	require.NoError(t, svc.RemoveOwnership(owner.ID, record.ID))

	var items, showcase, likes, wishes int64
	svc.db.Model(&models.CollectionItem{}).Where("user_jersey_id = ?", record.ID).Count(&items)
	svc.db.Model(&models.ShowcaseEntry{}).Where("user_jersey_id = ?", record.ID).Count(&showcase)
	svc.db.Model(&models.JerseyLike{}).Where("user_id = ?", owner.ID).Count(&likes)
	svc.db.Model(&models.WishlistItem{}).Where("user_id = ?", owner.ID).Count(&wishes)

	assert.Zero(t, items)
	assert.Zero(t, showcase)
	assert.EqualValues(t, 1, likes)
	assert.EqualValues(t, 1, wishes)

	// The custom collection survives, just emptier
	var collRows int64
	svc.db.Model(&models.Collection{}).Where("id = ?", coll.ID).Count(&collRows)
	assert.EqualValues(t, 1, collRows)
}

func TestDeleteCollectionKeepsOwnership(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)

	coll, err := svc.CreateCollection(owner.ID, "Gunners", "", false)
	require.NoError(t, err)
	require.NoError(t, svc.AddToCustomCollection(owner.ID, coll.ID, record.ID))

	require.NoError(t, svc.DeleteCollection(owner.ID, coll.ID))

	var collRows, items, owned int64
	svc.db.Model(&models.Collection{}).Where("id = ?", coll.ID).Count(&collRows)
	svc.db.Model(&models.CollectionItem{}).Where("collection_id = ?", coll.ID).Count(&items)
	svc.db.Model(&models.UserJersey{}).Where("id = ?", record.ID).Count(&owned)

	assert.Zero(t, collRows)
	assert.Zero(t, items)
	assert.EqualValues(t, 1, owned)
}

func TestCustomCollectionMembership(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	other := createProfile(t, svc.db, "collector2")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	mine, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)
	theirs, err := svc.AddOwnership(other.ID, jersey.ID, nil)
	require.NoError(t, err)

	coll, err := svc.CreateCollection(owner.ID, "Gunners", "", false)
	require.NoError(t, err)

	require.NoError(t, svc.AddToCustomCollection(owner.ID, coll.ID, mine.ID))
	require.ErrorIs(t, svc.AddToCustomCollection(owner.ID, coll.ID, mine.ID), ErrDuplicateMember)

	// Someone else's ownership record cannot be pulled in
	err = svc.AddToCustomCollection(owner.ID, coll.ID, theirs.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, svc.RemoveFromCustomCollection(owner.ID, coll.ID, mine.ID))
	require.ErrorIs(t, svc.RemoveFromCustomCollection(owner.ID, coll.ID, mine.ID), ErrNotFound)
}

func TestCreateCollectionValidatesName(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")

	_, err := svc.CreateCollection(owner.ID, "", "", false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	// The length cap counts characters, not bytes
	_, err = svc.CreateCollection(owner.ID, strings.Repeat("ü", 100), "", false)
	require.NoError(t, err)

	_, err = svc.CreateCollection(owner.ID, strings.Repeat("ü", 101), "", false)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestListCollections(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")
	record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)

	coll, err := svc.CreateCollection(owner.ID, "Gunners", "", false)
	require.NoError(t, err)
	require.NoError(t, svc.AddToCustomCollection(owner.ID, coll.ID, record.ID))
	_, err = svc.CreateCollection(owner.ID, "Empty shelf", "", true)
	require.NoError(t, err)

	summaries, err := svc.ListCollections(owner.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byName := map[string]int64{}
	for _, s := range summaries {
		byName[s.Name] = s.MemberCount
	}
	assert.EqualValues(t, 1, byName["Gunners"])
	assert.EqualValues(t, 0, byName["Empty shelf"])
}

func TestOwnershipDetailsCompletion(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	record, err := svc.AddOwnership(owner.ID, jersey.ID, &OwnershipDetails{Size: "L"})
	require.NoError(t, err)
	assert.False(t, record.DetailsCompleted)
	assert.Equal(t, models.DefaultFit, record.Fit)

	updated, err := svc.UpdateOwnership(owner.ID, record.ID, OwnershipDetails{
		Size:              "L",
		Fit:               models.FitSlim,
		PurchaseCondition: "new",
	})
	require.NoError(t, err)
	assert.True(t, updated.DetailsCompleted)
	assert.Equal(t, models.FitSlim, updated.Fit)
}

func TestOwnershipAuthorization(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	intruder := createProfile(t, svc.db, "collector2")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
	require.NoError(t, err)

	_, err = svc.UpdateOwnership(intruder.ID, record.ID, OwnershipDetails{Size: "M"})
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.ErrorIs(t, svc.RemoveOwnership(intruder.ID, record.ID), ErrNotAuthorized)
}

func TestShowcaseLimitAndReplacement(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")

	var records []uuid.UUID
	teams := []string{"Arsenal", "Barcelona", "Celtic", "Dortmund"}
	for _, team := range teams {
		jersey := createJersey(t, svc.db, team, "2023/24")
		record, err := svc.AddOwnership(owner.ID, jersey.ID, nil)
		require.NoError(t, err)
		records = append(records, record.ID)
	}

	err := svc.SetShowcase(owner.ID, records)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.SetShowcase(owner.ID, records[:3]))

	entries, err := svc.GetShowcase(owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Position)
		assert.Equal(t, records[i], entry.UserJerseyID)
	}

	// Replacing is wholesale, not additive
	require.NoError(t, svc.SetShowcase(owner.ID, records[3:4]))
	entries, err = svc.GetShowcase(owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, records[3], entries[0].UserJerseyID)
}

func TestShowcaseRejectsForeignOwnership(t *testing.T) {
	svc := newCollectionService(t)
	owner := createProfile(t, svc.db, "collector1")
	other := createProfile(t, svc.db, "collector2")
	jersey := createJersey(t, svc.db, "Arsenal", "2023/24")

	theirs, err := svc.AddOwnership(other.ID, jersey.ID, nil)
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetShowcase(owner.ID, []uuid.UUID{theirs.ID}), ErrNotAuthorized)
}
