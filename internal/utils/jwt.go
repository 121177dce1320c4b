package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken возвращается при невалидном или просроченном токене
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTService отвечает за создание и валидацию JWT токенов сессии шлюза
type JWTService struct {
	secretKey string
}

// SessionClaims — разобранные данные токена сессии
type SessionClaims struct {
	UserID    string
	JTI       string
	ExpiresAt time.Time
}

// NewJWTService создаёт новый экземпляр JWTService
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{secretKey: secretKey}
}

// GenerateToken создаёт JWT токен сессии
func (s *JWTService) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(72 * time.Hour).Unix(), // 3 дня
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// ValidateToken проверяет JWT токен
func (s *JWTService) ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	})
}

// ExtractClaims проверяет токен и возвращает данные сессии
func (s *JWTService) ExtractClaims(tokenString string) (*SessionClaims, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := mapClaims["user_id"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}

	jti, _ := mapClaims["jti"].(string)

	var expiresAt time.Time
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	return &SessionClaims{UserID: userID, JTI: jti, ExpiresAt: expiresAt}, nil
}

// ExtractUserID проверяет токен и возвращает ID пользователя
func (s *JWTService) ExtractUserID(tokenString string) (string, error) {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
