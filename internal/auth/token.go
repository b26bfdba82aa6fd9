// Package auth issues and verifies role-bearing tokens and checks login credentials.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bryan-buckman/linkpage/internal/model"
)

// MinSecretLength is the shortest HMAC secret NewTokens accepts.
const MinSecretLength = 16

// Claims is what a verified token asserts about its holder.
type Claims struct {
	Principal string
	Role      model.Role
	IssuedAt  time.Time
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 signed tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token service. A zero ttl issues tokens that never expire.
func NewTokens(secret []byte, ttl time.Duration) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d bytes", MinSecretLength)
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token binding principal, role and the issue time.
func (t *Tokens) Issue(principal string, role model.Role) (string, error) {
	now := t.now()
	claims := tokenClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  principal,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes a token. It never fails: a missing, malformed, forged or
// expired token, or one naming an unknown role, yields the public role.
func (t *Tokens) Verify(token string) Claims {
	public := Claims{Role: model.RolePublic}
	token = strings.TrimSpace(token)
	if token == "" {
		return public
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return public
	}

	role := model.ParseRole(claims.Role)
	if role == model.RolePublic {
		return public
	}
	out := Claims{Principal: claims.Subject, Role: role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out
}

// Role is shorthand for Verify(token).Role.
func (t *Tokens) Role(token string) model.Role {
	return t.Verify(token).Role
}

// RequireAdmin reports whether the token carries the admin role.
// Guest tokens never authorize mutation.
func (t *Tokens) RequireAdmin(token string) bool {
	return t.Role(token) == model.RoleAdmin
}

// ErrInvalidCredentials is returned by Login when no configured pair matches.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Login checks credentials for the requested tier and issues a token for it.
func (t *Tokens) Login(creds *Credentials, tier model.Role, username, password string) (string, error) {
	if !creds.Check(tier, username, password) {
		return "", ErrInvalidCredentials
	}
	return t.Issue(username, tier)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) >= len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
