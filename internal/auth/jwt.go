// Package auth provides JWT generation/validation and password hashing for
// viewer authentication.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/serietrack/serietrack/internal/domain"
)

// Claims represents the JWT claims issued for a person. The subject carries
// the person id; PersonID duplicates it in numeric form for handlers.
type Claims struct {
	jwt.RegisteredClaims
	PersonID int64  `json:"person_id"`
	Name     string `json:"name"`
}

// Manager mints and validates HS256 access tokens and hashes passwords.
type Manager struct {
	secret     []byte
	expiry     time.Duration
	bcryptCost int
}

// NewManager builds a Manager from the configured secret, token lifetime,
// and bcrypt cost.
func NewManager(secret string, expiry time.Duration, bcryptCost int) *Manager {
	return &Manager{secret: []byte(secret), expiry: expiry, bcryptCost: bcryptCost}
}

// GenerateToken creates a signed access token for the given person.
func (m *Manager) GenerateToken(person domain.Person) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(person.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			Issuer:    "serietrack",
		},
		PersonID: person.ID,
		Name:     person.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates an access token, returning its claims.
func (m *Manager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// HashPassword returns the bcrypt digest of a plaintext password.
func (m *Manager) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext password matches the stored
// bcrypt digest.
func (m *Manager) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
