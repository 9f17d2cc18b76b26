package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	commonerrors "github.com/PKL-SST-2025/BatikKita-Be/common/errors"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
)

const tokenLifetime = 7 * 24 * time.Hour

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
}

// NewTokenService creates a TokenService keyed by the given secret. The
// secret is validated at config load; there is no fallback default.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secretKey: []byte(secret)}
}

// Issue creates a signed token carrying the user id and role, expiring
// seven days from now.
func (s *TokenService) Issue(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  now.Add(tokenLifetime).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Verify parses and validates a token string, returning the embedded
// claims. Expired tokens and bad signatures surface as distinct errors.
func (s *TokenService) Verify(tokenStr string) (*models.Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	})

	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, commonerrors.ErrTokenExpired
		}
		return nil, commonerrors.ErrInvalidToken
	}
	if !token.Valid {
		return nil, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	if sub == "" {
		return nil, commonerrors.ErrInvalidToken
	}

	claims := &models.Claims{Sub: sub, Role: role}
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}
