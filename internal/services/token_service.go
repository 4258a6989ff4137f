package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService подписывает и проверяет JWT (HS256).
// Секрет приходит из конфига один раз на старте и дальше не меняется.
type TokenService interface {
	IssueAccessToken(userID int, role string) (string, error)
	IssueResetToken(userID int, role string) (string, error)
	Verify(tokenStr string) (*Claims, error)
}

type tokenService struct {
	secret    []byte
	accessTTL time.Duration
	resetTTL  time.Duration
}

func NewTokenService(secret []byte, accessTTL, resetTTL time.Duration) TokenService {
	return &tokenService{secret: secret, accessTTL: accessTTL, resetTTL: resetTTL}
}

func (s *tokenService) sign(userID int, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) IssueAccessToken(userID int, role string) (string, error) {
	return s.sign(userID, role, s.accessTTL)
}

func (s *tokenService) IssueResetToken(userID int, role string) (string, error) {
	return s.sign(userID, role, s.resetTTL)
}

// Verify — чистая проверка, без I/O. Просроченный токен отличаем
// от битого: у них разные сообщения для клиента.
func (s *tokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
