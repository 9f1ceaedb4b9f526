package service

import (
	"testing"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/translation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPasswordAndIssuesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	user, token, err := svc.CreateUser(&models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, models.CheckPasswordHash("password123", user.Password))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	req := &models.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "password123"}
	_, _, err := svc.CreateUser(req)
	require.NoError(t, err)

	_, _, err = svc.CreateUser(req)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)

	_, _, err := svc.CreateUser(&models.CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(&models.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ana@example.com", user.Email)

	_, _, err = svc.Login(&models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetPreferencesCreatesDefaults(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", "ana@example.com")
	svc := NewUserService(db, nil)

	pref, err := svc.GetPreferences(user.ID)
	require.NoError(t, err)

	assert.Equal(t, translation.LangPortuguese, pref.PreferredLanguage)
	assert.True(t, pref.AutoTranslate)

	// Second read returns the same row rather than creating another
	again, err := svc.GetPreferences(user.ID)
	require.NoError(t, err)
	assert.Equal(t, pref.ID, again.ID)
}

func TestUpdatePreferencesPartial(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "ana", "ana@example.com")
	svc := NewUserService(db, nil)

	off := false
	pref, err := svc.UpdatePreferences(user.ID, &models.UpdatePreferenceRequest{
		PreferredLanguage: "en",
		AutoTranslate:     &off,
	})
	require.NoError(t, err)
	assert.Equal(t, translation.LangEnglish, pref.PreferredLanguage)
	assert.False(t, pref.AutoTranslate)

	// Omitted fields stay untouched
	pref, err = svc.UpdatePreferences(user.ID, &models.UpdatePreferenceRequest{})
	require.NoError(t, err)
	assert.Equal(t, translation.LangEnglish, pref.PreferredLanguage)
	assert.False(t, pref.AutoTranslate)
}
