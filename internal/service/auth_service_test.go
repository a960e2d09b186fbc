package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func authService(t *testing.T) *AuthService {
	t.Helper()
	s, err := NewAuthService(&config.Config{
		GateAllowedPhones: []string{"8454047703"},
		GatePasscode:      "8433",
		BcryptCost:        bcrypt.MinCost,
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
	}, nil)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return s
}

func TestLoginRejectsUnknownPhone(t *testing.T) {
	s := authService(t)

	// Denied before any session state is touched.
	if _, err := s.Login(context.Background(), "1112223334", "8433"); !errors.Is(err, ErrGateDenied) {
		t.Errorf("err = %v, want ErrGateDenied", err)
	}
}

func TestLoginRejectsWrongPasscode(t *testing.T) {
	s := authService(t)

	if _, err := s.Login(context.Background(), "8454047703", "0000"); !errors.Is(err, ErrGateDenied) {
		t.Errorf("err = %v, want ErrGateDenied", err)
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	s := authService(t)

	jti := uuid.New().String()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   "8454047703",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Phone: "8454047703",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := s.ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Phone != "8454047703" || claims.ID != jti {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	s := authService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Phone: "8454047703",
	})
	signed, _ := token.SignedString([]byte("other-secret"))

	if _, err := s.ValidateToken(signed); err == nil {
		t.Error("token signed with wrong key accepted")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := authService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Phone: "8454047703",
	})
	signed, _ := token.SignedString([]byte("test-secret"))

	if _, err := s.ValidateToken(signed); err == nil {
		t.Error("expired token accepted")
	}
}
