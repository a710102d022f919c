package jwt

import (
	"errors"
	"testing"
	"time"

	sonoraErrors "sonora-backend/internal/errors"
)

func TestHS256RoundTrip(t *testing.T) {
	signer, err := NewHS256Signer([]byte("test-secret"), time.Minute)
	if err != nil {
		t.Fatalf("NewHS256Signer: %v", err)
	}

	token, err := signer.CreateToken("alice", "user")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	claims, err := signer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.Role != "user" {
		t.Errorf("role = %q, want %q", claims.Role, "user")
	}
	if claims.TokenType != bearerTokenType {
		t.Errorf("token type = %q, want %q", claims.TokenType, bearerTokenType)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	signer, err := NewHS256Signer([]byte("test-secret"), time.Minute)
	if err != nil {
		t.Fatalf("NewHS256Signer: %v", err)
	}

	t.Run("empty token", func(t *testing.T) {
		if _, err := signer.ValidateToken(""); !errors.Is(err, sonoraErrors.ErrBadToken) {
			t.Errorf("error = %v, want ErrBadToken", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := signer.ValidateToken("not.a.token"); !errors.Is(err, sonoraErrors.ErrBadToken) {
			t.Errorf("error = %v, want ErrBadToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewHS256Signer([]byte("different-secret"), time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		token, err := other.CreateToken("alice", "user")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := signer.ValidateToken(token); !errors.Is(err, sonoraErrors.ErrBadToken) {
			t.Errorf("error = %v, want ErrBadToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := NewHS256Signer([]byte("test-secret"), -time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		token, err := expired.CreateToken("alice", "user")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := signer.ValidateToken(token); !errors.Is(err, sonoraErrors.ErrBadToken) {
			t.Errorf("error = %v, want ErrBadToken", err)
		}
	})
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := NewHS256Signer(nil, time.Minute); err == nil {
		t.Error("NewHS256Signer accepted an empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("hash equals plaintext")
	}

	if err := VerifyPassword("hunter2", hash); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword("wrong", hash); !errors.Is(err, sonoraErrors.ErrPasswordMismatch) {
		t.Errorf("VerifyPassword with wrong password error = %v, want ErrPasswordMismatch", err)
	}
}
