package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inamate/vecdraw/internal/typeid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNameRequired = errors.New("display name is required")
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 24 * time.Hour

const maxDisplayNameLen = 64

// Service issues and checks anonymous session tokens. A session is a user ID
// and a display name signed with the server secret; there are no accounts.
type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       DefaultTokenTTL,
		now:       time.Now,
	}
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// CreateSession mints a new user ID and a token for it.
func (s *Service) CreateSession(displayName string) (*Session, error) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(name) > maxDisplayNameLen {
		name = name[:maxDisplayNameLen]
	}

	user := User{ID: typeid.NewUserID(), DisplayName: name}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}

// IssueToken signs a token for the user.
func (s *Service) IssueToken(user User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken returns the user a token was issued for. Every failure wraps
// ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string) (*User, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if err := typeid.Validate(c.Subject, typeid.PrefixUser); err != nil {
		return nil, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}

	return &User{ID: c.Subject, DisplayName: c.Name}, nil
}
