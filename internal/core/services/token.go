package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mingle/internal/config"
	"mingle/pkg/apperr"
)

const tokenIssuer = "mingle"

// Claim is the authenticated identity extracted from a verified token.
type Claim struct {
	UserID   int64
	Username string
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type TokenService struct {
	cfg *config.AuthConfig
}

func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

func (s *TokenService) GenerateAccessToken(userID int64, username string) (string, error) {
	return s.sign(userID, username, s.cfg.AccessSecret, s.cfg.AccessTTL)
}

func (s *TokenService) GenerateRefreshToken(userID int64, username string) (string, error) {
	return s.sign(userID, username, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

func (s *TokenService) sign(userID int64, username, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeInternal, "sign token failed", err)
	}
	return signed, nil
}

func (s *TokenService) VerifyAccessToken(raw string) (*Claim, error) {
	return s.verify(raw, s.cfg.AccessSecret)
}

func (s *TokenService) VerifyRefreshToken(raw string) (*Claim, error) {
	return s.verify(raw, s.cfg.RefreshSecret)
}

func (s *TokenService) verify(raw, secret string) (*Claim, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid token")
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return &Claim{UserID: userID, Username: claims.Username}, nil
}
