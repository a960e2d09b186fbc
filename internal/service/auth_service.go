package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrGateDenied     = errors.New("phone or passcode not recognized")
	ErrSessionExpired = errors.New("session no longer active")
)

// Claims extends JWT standard claims with the gate phone number.
type Claims struct {
	jwt.RegisteredClaims
	Phone string `json:"phone"`
}

// AuthService implements the access gate: a static allow-list of phone
// numbers plus one shared passcode, exchanged for a JWT session. No
// state-mutating route is reachable until the gate is passed.
type AuthService struct {
	cfg          *config.Config
	rdb          *redis.Client
	passcodeHash []byte
}

// NewAuthService creates the gate service. When no precomputed passcode hash
// is configured, the plaintext passcode is hashed once here so comparisons
// are uniformly bcrypt either way.
func NewAuthService(cfg *config.Config, rdb *redis.Client) (*AuthService, error) {
	hash := []byte(cfg.GatePasscodeHash)
	if len(hash) == 0 {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.GatePasscode), cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash gate passcode: %w", err)
		}
		hash = h
	}
	return &AuthService{cfg: cfg, rdb: rdb, passcodeHash: hash}, nil
}

// allowed reports whether phone is on the gate allow-list.
func (s *AuthService) allowed(phone string) bool {
	for _, p := range s.cfg.GateAllowedPhones {
		if p == phone {
			return true
		}
	}
	return false
}

// Login verifies the phone/passcode pair and issues a session token. A new
// login replaces any previous session for the same phone (last login wins),
// which invalidates the older token's JTI.
func (s *AuthService) Login(ctx context.Context, phone, passcode string) (string, error) {
	if !s.allowed(phone) {
		return "", ErrGateDenied
	}
	if bcrypt.CompareHashAndPassword(s.passcodeHash, []byte(passcode)) != nil {
		return "", ErrGateDenied
	}

	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   phone,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Phone: phone,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.GateSessionKey(phone)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// Logout drops the active session for a phone.
func (s *AuthService) Logout(ctx context.Context, phone string) error {
	return s.rdb.Del(ctx, config.CacheKey.GateSessionKey(phone)).Err()
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks the token's JTI against the stored session. A
// mismatch means a newer login replaced this session.
func (s *AuthService) ValidateSession(ctx context.Context, phone, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.GateSessionKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionExpired
	}
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionExpired
	}
	return nil
}
