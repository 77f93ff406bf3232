package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService() *Service {
	return NewService(testSecret, 15*time.Minute, 24*time.Hour)
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newTestService()

	access, refresh, err := svc.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	userID, err := svc.ValidateToken(access, TokenTypeAccess)
	if err != nil {
		t.Fatalf("ValidateToken(access) error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("ValidateToken(access) userID = %q, want user-1", userID)
	}

	userID, err = svc.ValidateToken(refresh, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("ValidateToken(refresh) error = %v", err)
	}
	if userID != "user-1" {
		t.Errorf("ValidateToken(refresh) userID = %q, want user-1", userID)
	}
}

func TestValidateToken_WrongType(t *testing.T) {
	svc := newTestService()
	access, refresh, err := svc.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.ValidateToken(access, TokenTypeRefresh); !errors.Is(err, ErrWrongType) {
		t.Errorf("access as refresh = %v, want ErrWrongType", err)
	}
	if _, err := svc.ValidateToken(refresh, TokenTypeAccess); !errors.Is(err, ErrWrongType) {
		t.Errorf("refresh as access = %v, want ErrWrongType", err)
	}
}

func TestValidateToken_BadSignature(t *testing.T) {
	svc := newTestService()
	other := NewService(strings.Repeat("x", 32), 15*time.Minute, 24*time.Hour)

	access, _, err := other.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	if _, err := svc.ValidateToken(access, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign-signed token = %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateToken("not-a-token", TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token = %v, want ErrInvalidToken", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewService(testSecret, -time.Minute, time.Hour)

	access, _, err := svc.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	if _, err := svc.ValidateToken(access, TokenTypeAccess); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token = %v, want ErrInvalidToken", err)
	}
}

func TestRevoke(t *testing.T) {
	svc := newTestService()
	access, _, err := svc.GenerateTokenPair("user-1")
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	svc.Revoke(access)
	if _, err := svc.ValidateToken(access, TokenTypeAccess); !errors.Is(err, ErrRevoked) {
		t.Errorf("revoked token = %v, want ErrRevoked", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "s3cret-password"); err != nil {
		t.Errorf("CheckPassword() with correct password = %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
