package service

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUpAndSignIn(t *testing.T) {
	s := newServices(t)

	user := s.signUp(t, "  Ada@Example.com ")
	assert.Equal(t, "ada@example.com", user.Email)

	profile, err := s.profileRepo.ByUserID(user.ID)
	require.NoError(t, err)
	assert.False(t, profile.HasPartner())

	_, err = s.auth.SignUp("ada@example.com", "another-long-pass")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	got, err := s.auth.SignIn("ADA@example.com", "correct-horse-battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.auth.SignIn("ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "Invalid login credentials", err.Error())

	_, err = s.auth.SignIn("nobody@example.com", "correct-horse-battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpValidation(t *testing.T) {
	s := newServices(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "correct-horse-battery"},
		{"short password", "a@example.com", "short"},
		{"common password", "a@example.com", "mypassword123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.auth.SignUp(tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	s := newServices(t)
	user := s.signUp(t, "a@example.com")

	token, err := s.auth.GenerateJWT(user)
	require.NoError(t, err)

	userID, err := s.auth.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	_, err = s.auth.UserIDFromToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(nil, nil, "another-secret-another-secret-xx", 0, false)
	_, err = other.UserIDFromToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTCookie(t *testing.T) {
	s := newServices(t)

	rec := httptest.NewRecorder()
	s.auth.SetJWTCookie(rec, "tok", s.auth.Expiry())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	s.auth.ClearJWTCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
