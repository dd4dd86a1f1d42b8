package handler

import (
	"fmt"
	"net/http"
	"testing"

	"marketplace-api/internal/locale"
	"marketplace-api/internal/model"
	"marketplace-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSpaceHandler(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")

	c, rec := newRequest(t, http.MethodPost, "/spaces", map[string]interface{}{
		"name":      "Central Market",
		"city":      "Cluj-Napoca",
		"country":   "Romania",
		"latitude":  "46.770439",
		"longitude": "23.591423",
	}, owner)

	require.NoError(t, CreateSpace(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var space model.Space
	require.NoError(t, db.First(&space).Error)
	assert.Equal(t, owner.ID, space.OwnerID)
	assert.True(t, space.IsActive)
}

func TestCreateSpaceRejectsBadCoordinates(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")

	c, rec := newRequest(t, http.MethodPost, "/spaces", map[string]interface{}{
		"name":     "Central Market",
		"latitude": "95.5",
	}, owner)

	require.NoError(t, CreateSpace(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAssignUserUpsertsMembership(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	worker := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)

	// First assignment creates the pivot row
	c, rec := newRequest(t, http.MethodPost, "/spaces/1/assign-user", map[string]interface{}{
		"user_id": worker.ID,
		"role":    model.SpaceRoleWorker,
	}, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, AssignUser(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, locale.T("en", "spaces.user_assigned"), decodeBody(t, rec)["message"])

	// Re-assigning updates the role in place, never a second row
	c, rec = newRequest(t, http.MethodPost, "/spaces/1/assign-user", map[string]interface{}{
		"user_id": worker.ID,
		"role":    model.SpaceRoleAdmin,
	}, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, AssignUser(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, locale.T("en", "spaces.user_role_updated"), decodeBody(t, rec)["message"])

	var members []model.SpaceMember
	require.NoError(t, db.Where("space_id = ?", space.ID).Find(&members).Error)
	require.Len(t, members, 1)
	assert.Equal(t, model.SpaceRoleAdmin, members[0].Role)
}

func TestAssignUserForbiddenForStranger(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	stranger := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)

	c, rec := newRequest(t, http.MethodPost, "/spaces/1/assign-user", map[string]interface{}{
		"user_id": stranger.ID,
		"role":    model.SpaceRoleAdmin,
	}, stranger)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))

	require.NoError(t, AssignUser(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRemoveUserNonMemberSucceeds(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	outsider := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)

	c, rec := newRequest(t, http.MethodDelete, "/spaces/1/users/2", nil, owner)
	c.SetParamNames("id", "userId")
	c.SetParamValues(fmt.Sprint(space.ID), fmt.Sprint(outsider.ID))

	require.NoError(t, RemoveUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestManagedSpacesDistinctUnion(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	other := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")

	owned := testutil.SeedSpace(t, db, owner, "Owned Market", true)
	staffed := testutil.SeedSpace(t, db, other, "Staffed Market", true)
	testutil.SeedSpace(t, db, other, "Unrelated Market", true)

	require.NoError(t, db.Create(&model.SpaceMember{
		SpaceID: staffed.ID,
		UserID:  owner.ID,
		Role:    model.SpaceRoleWorker,
	}).Error)
	// Membership in an owned space must not duplicate the row
	require.NoError(t, db.Create(&model.SpaceMember{
		SpaceID: owned.ID,
		UserID:  owner.ID,
		Role:    model.SpaceRoleAdmin,
	}).Error)

	c, rec := newRequest(t, http.MethodGet, "/spaces/managed", nil, owner)
	require.NoError(t, ManagedSpaces(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 2)
}

func TestGetSpaceInactiveVisibility(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	stranger := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Closed Market", false)

	// Hidden from strangers and anonymous readers
	c, rec := newRequest(t, http.MethodGet, "/spaces/1", nil, stranger)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, GetSpace(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newRequest(t, http.MethodGet, "/spaces/1", nil, nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, GetSpace(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Still visible to the owner
	c, rec = newRequest(t, http.MethodGet, "/spaces/1", nil, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, GetSpace(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateSpaceRequiresAdmin(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	worker := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)
	require.NoError(t, db.Create(&model.SpaceMember{
		SpaceID: space.ID,
		UserID:  worker.ID,
		Role:    model.SpaceRoleWorker,
	}).Error)

	c, rec := newRequest(t, http.MethodPut, "/spaces/1", map[string]interface{}{
		"name": "Renamed",
	}, worker)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, UpdateSpace(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newRequest(t, http.MethodPut, "/spaces/1", map[string]interface{}{
		"name": "Renamed",
	}, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, UpdateSpace(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var reloaded model.Space
	require.NoError(t, db.First(&reloaded, space.ID).Error)
	assert.Equal(t, "Renamed", reloaded.Name)
}

func TestDeleteSpaceOwnerOnly(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	admin := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)
	require.NoError(t, db.Create(&model.SpaceMember{
		SpaceID: space.ID,
		UserID:  admin.ID,
		Role:    model.SpaceRoleAdmin,
	}).Error)

	// Admin standing is not enough to delete
	c, rec := newRequest(t, http.MethodDelete, "/spaces/1", nil, admin)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, DeleteSpace(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c, rec = newRequest(t, http.MethodDelete, "/spaces/1", nil, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, DeleteSpace(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var spaces, members int64
	require.NoError(t, db.Model(&model.Space{}).Count(&spaces).Error)
	require.NoError(t, db.Model(&model.SpaceMember{}).Count(&members).Error)
	assert.EqualValues(t, 0, spaces)
	assert.EqualValues(t, 0, members)
}

func TestListSpaceUsers(t *testing.T) {
	db := setupHandlerTest(t)
	owner := testutil.SeedUser(t, db, "Ana", "ana@example.com", "+40711111111", "secret123")
	worker := testutil.SeedUser(t, db, "Bogdan", "bogdan@example.com", "+40722222222", "secret123")
	space := testutil.SeedSpace(t, db, owner, "Central Market", true)
	require.NoError(t, db.Create(&model.SpaceMember{
		SpaceID: space.ID,
		UserID:  worker.ID,
		Role:    model.SpaceRoleWorker,
	}).Error)

	c, rec := newRequest(t, http.MethodGet, "/spaces/1/users", nil, owner)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(space.ID))
	require.NoError(t, ListSpaceUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	member := data[0].(map[string]interface{})
	assert.Equal(t, "Bogdan", member["name"])
	assert.Equal(t, model.SpaceRoleWorker, member["role"])
}
