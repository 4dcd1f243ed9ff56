// internal/auth/auth.go
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller, carried explicitly in the request
// context. There is no ambient global user.
type Identity struct {
	UserID int
	Email  string
	Name   string
}

type contextKey struct{}

var identityKey contextKey

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

const tokenTTL = 24 * time.Hour

// IssueToken signs an HS256 token for the demo login flow.
func IssueToken(secret string, id Identity) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   id.UserID,
		"email": id.Email,
		"name":  id.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	})
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token and recovers the identity.
func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, jwt.ErrTokenInvalidClaims
	}

	id := Identity{}
	if sub, ok := claims["sub"].(float64); ok {
		id.UserID = int(sub)
	}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	return id, nil
}
