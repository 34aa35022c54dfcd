package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

func newAuth(t *testing.T) (*AuthService, *repository.CategoryRepository) {
	t.Helper()
	db := newTestDB(t)
	categories := repository.NewCategoryRepository(db)
	tokens := NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(db, repository.NewUserRepository(db), categories, tokens), categories
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	auth, categories := newAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, "Ana", " Ana@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", registered.User.Email)
	assert.NotEqual(t, "secret1", registered.User.PasswordHash)
	assert.NotEmpty(t, registered.Token)

	userID, err := auth.Authenticate(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, userID)

	seeded, err := categories.ListByUser(ctx, userID, model.AreaFootball, true)
	require.NoError(t, err)
	assert.NotEmpty(t, seeded)

	logged, err := auth.Login(ctx, "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, userID, logged.User.ID)

	me, err := auth.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
}

func TestRegisterRejections(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "Ana", "ana@example.com", "short")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Register(ctx, "", "ana@example.com", "secret1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = auth.Register(ctx, "Ana", "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = auth.Register(ctx, "Ana", "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = auth.Register(ctx, "Other", "ana@example.com", "secret2")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	_, err := auth.Register(ctx, "Ana", "ana@example.com", "secret1")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "ana@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issued := time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(&model.User{ID: 7, Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)

	_, err = NewTokenIssuer("other-secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrUnauthorized, "expired")

	_, err = issuer.Parse("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLinkTelegram(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()
	ana, err := auth.Register(ctx, "Ana", "ana@example.com", "secret1")
	require.NoError(t, err)
	bob, err := auth.Register(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	chat := int64(424242)
	user, err := auth.LinkTelegram(ctx, ana.User.ID, &chat)
	require.NoError(t, err)
	require.NotNil(t, user.TelegramChatID)
	assert.Equal(t, chat, *user.TelegramChatID)

	_, err = auth.LinkTelegram(ctx, bob.User.ID, &chat)
	assert.ErrorIs(t, err, ErrConflict)

	user, err = auth.LinkTelegram(ctx, ana.User.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, user.TelegramChatID)
}
