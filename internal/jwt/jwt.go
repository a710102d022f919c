// Package jwt provides functions for creating and verifying JSON Web Tokens (JWTs)
// and for hashing and verifying account passwords.

package jwt

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	sonoraErrors "sonora-backend/internal/errors"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	jose "gopkg.in/square/go-jose.v2"
)

const bearerTokenType = "bearer"

// Claims carried by every token issued by this service.
type Claims struct {
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Signer issues and validates tokens with either a shared HS256 secret
// or an RS256 private key paired with a JWKS file.
type Signer struct {
	method     jwt.SigningMethod
	secret     []byte
	privateKey *rsa.PrivateKey
	jwks       jose.JSONWebKeySet
	kid        string
	ttl        time.Duration
}

// NewHS256Signer constructs a signer using a shared secret.
func NewHS256Signer(secret []byte, ttl time.Duration) (*Signer, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("empty signing secret")
	}
	return &Signer{
		method: jwt.SigningMethodHS256,
		secret: secret,
		ttl:    ttl,
	}, nil
}

// NewRS256Signer constructs a signer from a PEM private key and a JWKS
// file used for validation. The first key in the JWKS is assumed to be
// the latest one.
func NewRS256Signer(privateKeyPath, jwksPath string, ttl time.Duration) (*Signer, error) {
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to read private key: %w", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse private key: %w", err)
	}

	var jwks jose.JSONWebKeySet
	data, err := os.ReadFile(jwksPath)
	if err != nil {
		return nil, fmt.Errorf("Failed to read JWKS file: %w", err)
	}
	if err := json.Unmarshal(data, &jwks); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal JWKS file: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return nil, fmt.Errorf("No keys found in JWKS")
	}

	return &Signer{
		method:     jwt.SigningMethodRS256,
		privateKey: privateKey,
		jwks:       jwks,
		kid:        jwks.Keys[0].KeyID,
		ttl:        ttl,
	}, nil
}

// CreateToken issues a signed, time-bounded token for a subject and role.
func (s *Signer) CreateToken(subject, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		TokenType: bearerTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	if s.method == jwt.SigningMethodRS256 {
		token.Header["kid"] = s.kid
		return token.SignedString(s.privateKey)
	}
	return token.SignedString(s.secret)
}

// ValidateToken parses and verifies a raw token. Any failure (bad
// signature, expiry, missing claims) surfaces as ErrBadToken.
func (s *Signer) ValidateToken(rawToken string) (*Claims, error) {
	if rawToken == "" {
		return nil, sonoraErrors.ErrBadToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, s.keyFunc,
		jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return nil, errors.Join(sonoraErrors.ErrBadToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.Role == "" || claims.TokenType != bearerTokenType {
		return nil, sonoraErrors.ErrBadToken
	}

	return claims, nil
}

func (s *Signer) keyFunc(token *jwt.Token) (interface{}, error) {
	if s.method == jwt.SigningMethodHS256 {
		return s.secret, nil
	}

	kidVal, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("Missing/invalid kid value")
	}

	keyMatches := s.jwks.Key(kidVal)
	if len(keyMatches) == 0 {
		return nil, fmt.Errorf("No key for kid %q", kidVal)
	}

	pub, ok := keyMatches[0].Key.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("Invalid key type for kid %q. Expected RSA.", kidVal)
	}
	return pub, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored hash.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return sonoraErrors.ErrPasswordMismatch
	}
	return nil
}
