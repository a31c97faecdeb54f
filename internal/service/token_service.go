package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/model"
)

// Claims extends JWT standard claims with the acting account's identity.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string     `json:"account_id"`
	Role      model.Role `json:"role"`
}

// TokenService issues and validates the bearer tokens that reference engine
// sessions. The token's JTI must match the account's session slot in the
// record store, so logout invalidates outstanding tokens immediately.
type TokenService struct {
	cfg      *config.Config
	identity *IdentityService
}

// NewTokenService creates a TokenService.
func NewTokenService(cfg *config.Config, identity *IdentityService) *TokenService {
	return &TokenService{cfg: cfg, identity: identity}
}

// Generate signs a JWT for the session, reusing the session's token ID as JTI.
func (s *TokenService) Generate(sess *model.Session) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.TokenID,
			Subject:   sess.Account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		AccountID: sess.Account.ID,
		Role:      sess.Account.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *TokenService) ValidateToken(tokenStr string) (*Claims, error) {
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

// ResolveSession loads the session the claims refer to and checks that the
// token is still the account's active one.
func (s *TokenService) ResolveSession(ctx context.Context, claims *Claims) (*model.Session, error) {
	sess, ok, err := s.identity.CurrentSession(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if !ok || sess.TokenID != claims.ID {
		return nil, ErrInvalidCredentials
	}
	return sess, nil
}
