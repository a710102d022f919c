package services

import (
	"context"
	"errors"
	"testing"
	"time"

	sonoraErrors "sonora-backend/internal/errors"
	"sonora-backend/internal/jwt"
	"sonora-backend/internal/repositories"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeAccountRepo, *fakeAccountRepo, *jwt.Signer) {
	t.Helper()
	signer, err := jwt.NewHS256Signer([]byte("test-secret"), time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	users := newFakeAccountRepo()
	artists := newFakeAccountRepo()
	return NewAuthService(users, artists, signer, testLogger()), users, artists, signer
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := jwt.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return hash
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("user credentials issue a user token", func(t *testing.T) {
		svc, users, _, signer := newTestAuthService(t)
		users.accounts["alice"] = &repositories.AccountDAO{
			Name:         "alice",
			PasswordHash: mustHash(t, "hunter2"),
		}

		token, role, err := svc.Login(ctx, "alice", "hunter2")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if role != RoleUser {
			t.Errorf("role = %q, want %q", role, RoleUser)
		}
		claims, err := signer.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken: %v", err)
		}
		if claims.Subject != "alice" || claims.Role != string(RoleUser) {
			t.Errorf("claims = %q/%q, want alice/user", claims.Subject, claims.Role)
		}
	})

	t.Run("artist credentials issue an artist token", func(t *testing.T) {
		svc, _, artists, _ := newTestAuthService(t)
		artists.accounts["bowie"] = &repositories.AccountDAO{
			Name:         "bowie",
			PasswordHash: mustHash(t, "ziggy"),
		}

		_, role, err := svc.Login(ctx, "bowie", "ziggy")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if role != RoleArtist {
			t.Errorf("role = %q, want %q", role, RoleArtist)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _, _ := newTestAuthService(t)
		users.accounts["alice"] = &repositories.AccountDAO{
			Name:         "alice",
			PasswordHash: mustHash(t, "hunter2"),
		}

		_, _, err := svc.Login(ctx, "alice", "wrong")
		if !errors.Is(err, sonoraErrors.ErrPasswordMismatch) {
			t.Errorf("error = %v, want ErrPasswordMismatch", err)
		}
	})

	t.Run("unknown name reports the same error as a bad password", func(t *testing.T) {
		svc, _, _, _ := newTestAuthService(t)
		_, _, err := svc.Login(ctx, "ghost", "whatever")
		if !errors.Is(err, sonoraErrors.ErrPasswordMismatch) {
			t.Errorf("error = %v, want ErrPasswordMismatch", err)
		}
	})
}
