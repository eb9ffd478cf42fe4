package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	userDatamodel "github.com/mfirmanda/helpdesk-management/internal/core/datamodel/user"
)

// User is the authenticated principal attached to the request context.
type User = userDatamodel.User

// UserRepository is the account lookup the session layer depends on.
type UserRepository interface {
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
}

// Claims represents the signed session token payload
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionManager signs and validates the stateless session tokens carried
// in the auth cookie. There is no server-side session store; the token is
// the session.
type SessionManager struct {
	secret   []byte
	duration time.Duration
}

func NewSessionManager(secret string, duration time.Duration) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		duration: duration,
	}
}

func (m *SessionManager) Duration() time.Duration {
	return m.duration
}

// Generate creates a signed session token for the user.
func (m *SessionManager) Generate(userID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a session token.
func (m *SessionManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrInvalidSession
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidSession
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionExpired     = errors.New("session expired")
)

type ctxKey string

// ContextUserKey carries the authenticated principal through the request.
const ContextUserKey ctxKey = "auth_user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
