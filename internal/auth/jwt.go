package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptyToken   = errors.New("token is empty")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the decoded view of an access token.
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
	Raw       jwt.MapClaims
}

// JWTManager issues and validates HS256 access tokens signed with a single
// process-wide secret.
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
	now           func() time.Time
}

func NewJWTManager(secretKey string, tokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:     secretKey,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

func (m *JWTManager) TokenDuration() time.Duration {
	return m.tokenDuration
}

// IssueAccessToken signs a copy of claims with an added exp claim. The
// caller's map is left untouched.
func (m *JWTManager) IssueAccessToken(claims map[string]any) (string, time.Time, error) {
	if m.secretKey == "" {
		return "", time.Time{}, errors.New("jwt secret is empty")
	}

	expiresAt := m.now().Add(m.tokenDuration)

	toEncode := make(jwt.MapClaims, len(claims)+1)
	for k, v := range claims {
		toEncode[k] = v
	}
	toEncode["exp"] = expiresAt.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, toEncode)
	signed, err := token.SignedString([]byte(m.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, time.Unix(expiresAt.Unix(), 0), nil
}

func (m *JWTManager) GenerateToken(userID, email string) (string, time.Time, error) {
	return m.IssueAccessToken(map[string]any{
		"sub":   userID,
		"email": email,
	})
}

func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims := &Claims{Raw: mapClaims}
	claims.UserID, _ = mapClaims.GetSubject()
	claims.Email, _ = mapClaims["email"].(string)
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
