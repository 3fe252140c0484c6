package repository

import (
	"context"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo UserRepository, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Dev " + email, Email: email, Password: "hash", Avatar: "//avatar/" + email}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestProfileRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	owner := seedUser(t, users, "owner@x.com")

	missing, err := repo.GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	p := &models.Profile{
		UserID: owner.ID,
		Handle: "gopher",
		Status: "Developer",
		Skills: models.JSONList[string]{"go", "sql"},
		Social: models.Social{Twitter: "https://twitter.com/gopher"},
	}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByHandle(ctx, "gopher")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, []string{"go", "sql"}, []string(got.Skills))
	assert.Equal(t, "https://twitter.com/gopher", got.Social.Twitter)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Name, got.User.Name)
	assert.Empty(t, got.User.Password)
	assert.NotNil(t, got.Experience)

	got.Bio = "hello"
	got.AddExperience(models.Experience{ID: "e1", Title: "Eng", Company: "Acme"})
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Bio)
	require.Len(t, again.Experience, 1)
	assert.Equal(t, "Acme", again.Experience[0].Company)

	// The owner row must not be rewritten through the association.
	reloaded, err := users.GetByID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", reloaded.Password)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.DeleteByUserID(ctx, owner.ID))
	gone, err := repo.GetByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProfileRepository_HandleIsUnique(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	a := seedUser(t, users, "a@x.com")
	b := seedUser(t, users, "b@x.com")

	require.NoError(t, repo.Create(ctx, &models.Profile{UserID: a.ID, Handle: "taken", Status: "Dev", Skills: models.JSONList[string]{"go"}}))
	err := repo.Create(ctx, &models.Profile{UserID: b.ID, Handle: "taken", Status: "Dev", Skills: models.JSONList[string]{"go"}})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))
}
