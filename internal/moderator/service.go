package moderator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
	"github.com/SARVESHVARADKAR123/bottle/internal/observability"
	"github.com/SARVESHVARADKAR123/bottle/internal/repository"
	"github.com/SARVESHVARADKAR123/bottle/internal/security"
	"github.com/SARVESHVARADKAR123/bottle/internal/tx"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLen = 8
	maxUsernameLen = 50
)

type Config struct {
	SetupKey    string
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	TokenTTL    time.Duration
}

// Service owns moderator accounts and issues their access tokens.
type Service struct {
	repo repository.ModeratorRepository
	tx   tx.Transactor
	cfg  Config
	now  func() time.Time
}

func NewService(repo repository.ModeratorRepository, transactor tx.Transactor, cfg Config) *Service {
	return &Service{repo: repo, tx: transactor, cfg: cfg, now: time.Now}
}

// Setup creates the first moderator. It is refused once any moderator exists.
func (s *Service) Setup(ctx context.Context, setupKey, username, password string) (*domain.Moderator, error) {
	if s.cfg.SetupKey == "" || !security.EqualSecret(setupKey, s.cfg.SetupKey) {
		return nil, fmt.Errorf("%w: invalid setup key", domain.ErrUnauthorized)
	}

	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, fmt.Errorf("%w: username must be between 1 and %d characters", domain.ErrValidation, maxUsernameLen)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := security.HashPassword(password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, security.MaxPasswordBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := &domain.Moderator{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.repo.CountModeratorsForUpdate(ctx, tx)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrModeratorExists
		}
		return s.repo.CreateModerator(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}

	observability.GetLogger(ctx).Info("moderator_created",
		zap.String("moderator_id", m.ID),
		zap.String("username", m.Username),
	)
	return m, nil
}

// Login returns a signed access token for valid credentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	m, err := s.repo.GetModeratorByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrModeratorNotFound) {
			return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return "", err
	}

	if !security.PasswordMatches(m.PasswordHash, password) {
		return "", fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	token, err := security.GenerateAccess(
		s.cfg.JWTSecret, m.ID, m.Username, s.cfg.JWTIssuer, s.cfg.JWTAudience, s.cfg.TokenTTL, s.now(),
	)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	observability.GetLogger(ctx).Info("moderator_login_success", zap.String("moderator_id", m.ID))
	return token, nil
}
