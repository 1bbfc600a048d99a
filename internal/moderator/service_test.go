package moderator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository/memory"
	"github.com/SARVESHVARADKAR123/bottle/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	SetupKey:    "let-me-in",
	JWTSecret:   "secret",
	JWTIssuer:   "bottle",
	JWTAudience: "bottle-admin",
	TokenTTL:    24 * time.Hour,
}

func newService() *Service {
	store := memory.NewStore()
	return NewService(store, store, testConfig)
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates the first moderator only", func(t *testing.T) {
		s := newService()

		m, err := s.Setup(ctx, "let-me-in", "keeper", "lighthouse")
		require.NoError(t, err)
		assert.Equal(t, "keeper", m.Username)
		assert.NotEqual(t, "lighthouse", m.PasswordHash)

		_, err = s.Setup(ctx, "let-me-in", "second", "lighthouse")
		assert.ErrorIs(t, err, domain.ErrModeratorExists)
	})

	t.Run("Wrong setup key", func(t *testing.T) {
		_, err := newService().Setup(ctx, "guess", "keeper", "lighthouse")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Empty configured key never matches", func(t *testing.T) {
		store := memory.NewStore()
		cfg := testConfig
		cfg.SetupKey = ""
		_, err := NewService(store, store, cfg).Setup(ctx, "", "keeper", "lighthouse")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Weak credentials", func(t *testing.T) {
		s := newService()
		_, err := s.Setup(ctx, "let-me-in", "  ", "lighthouse")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = s.Setup(ctx, "let-me-in", "keeper", "short")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = s.Setup(ctx, "let-me-in", "keeper", strings.Repeat("tide", 20))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newService()
	m, err := s.Setup(ctx, "let-me-in", "keeper", "lighthouse")
	require.NoError(t, err)

	token, err := s.Login(ctx, "keeper", "lighthouse")
	require.NoError(t, err)

	claims, err := security.ParseAccess(token, testConfig.JWTSecret, testConfig.JWTIssuer, testConfig.JWTAudience)
	require.NoError(t, err)
	assert.Equal(t, m.ID, claims.Subject)
	assert.Equal(t, "keeper", claims.Name)

	_, err = s.Login(ctx, "keeper", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.Login(ctx, "nobody", "lighthouse")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
