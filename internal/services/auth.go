package services

import (
	"context"
	"log/slog"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/repositories"
)

// AuthService resolves credentials to signed tokens. The role baked
// into a token records which namespace the subject was found in.
type AuthService struct {
	users   repositories.AccountRepository
	artists repositories.AccountRepository
	signer  *jwt.Signer
	logger  *slog.Logger
}

func NewAuthService(
	users repositories.AccountRepository,
	artists repositories.AccountRepository,
	signer *jwt.Signer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		artists: artists,
		signer:  signer,
		logger:  logger,
	}
}

// Login verifies the password for the named account and issues a token.
// An unknown name reports the same error as a bad password.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, Role, error) {
	role := RoleUser
	account, err := s.users.Get(ctx, name)
	if sonoraErrors.Is(err, sonoraErrors.ErrNotFound) {
		role = RoleArtist
		account, err = s.artists.Get(ctx, name)
	}
	if sonoraErrors.Is(err, sonoraErrors.ErrNotFound) {
		return "", "", sonoraErrors.ErrPasswordMismatch
	} else if err != nil {
		return "", "", err
	}

	if err := jwt.VerifyPassword(password, account.PasswordHash); err != nil {
		return "", "", err
	}

	token, err := s.signer.CreateToken(name, string(role))
	if err != nil {
		return "", "", err
	}
	s.logger.DebugContext(ctx, "Issued token", slog.String("subject", name), slog.String("role", string(role)))
	return token, role, nil
}
