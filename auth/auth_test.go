package auth

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSessions(t *testing.T) Sessions {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "auth.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	s, err := NewSessions(db, "test-secret")
	require.NoError(t, err)
	return s
}

func TestSignUpAndSignIn(t *testing.T) {
	s := newSessions(t)
	ctx := context.Background()

	user, err := s.SignUp(ctx, "Emma@Example.com", "Emma", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "emma@example.com", user.Email)
	assert.Equal(t, RoleCustomer, user.Role)
	assert.NotEmpty(t, user.ID)

	token, signedIn, err := s.SignIn(ctx, "emma@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	session, err := s.GetSession(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, RoleCustomer, session.Role)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	s := newSessions(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "emma@example.com", "Emma", "correct horse battery")
	require.NoError(t, err)

	_, _, err = s.SignIn(ctx, "emma@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = s.SignIn(ctx, "nobody@example.com", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpRequiresUsablePassword(t *testing.T) {
	s := newSessions(t)
	_, err := s.SignUp(context.Background(), "emma@example.com", "Emma", "short")
	assert.Error(t, err)
}

func TestGetSessionRejectsGarbageToken(t *testing.T) {
	s := newSessions(t)
	_, err := s.GetSession("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
