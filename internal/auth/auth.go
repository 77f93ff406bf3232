// Package auth issues and validates the JWT access/refresh token pairs used
// by the HTTP API, and owns password hashing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("wrong token type")
	ErrRevoked      = errors.New("token revoked")
)

// Claims carried by both token types.
type Claims struct {
	UserID    string `json:"uid"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	// revoked holds logged-out tokens until their natural expiry; entries
	// self-evict so the set never outgrows the refresh window.
	revoked *gocache.Cache
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    gocache.New(refreshTTL, 10*time.Minute),
	}
}

// GenerateTokenPair returns a short-lived access token and a long-lived
// refresh token for the user.
func (s *Service) GenerateTokenPair(userID string) (access, refresh string, err error) {
	now := time.Now()
	access, err = s.sign(userID, TokenTypeAccess, now, s.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err = s.sign(userID, TokenTypeRefresh, now, s.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return access, refresh, nil
}

func (s *Service) sign(userID, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken checks signature, expiry, revocation and token type, and
// returns the authenticated user id.
func (s *Service) ValidateToken(tokenString, wantType string) (string, error) {
	if _, found := s.revoked.Get(tokenString); found {
		return "", ErrRevoked
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return "", ErrWrongType
	}
	return claims.UserID, nil
}

// Revoke blacklists a token until its natural expiry.
func (s *Service) Revoke(tokenString string) {
	ttl := s.refreshTTL
	claims := &Claims{}
	// Expired or garbage tokens still get a default-TTL entry; they cannot
	// validate anyway.
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	s.revoked.Set(tokenString, struct{}{}, ttl)
}

// HashPassword hashes a plaintext password with bcrypt at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash against a candidate password.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
