package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bryan-buckman/linkpage/internal/model"
)

// Pair is a configured username and password. Password may be plaintext or a
// bcrypt hash.
type Pair struct {
	Username string
	Password string
}

// ParsePair splits a "user:password" value. Only the first colon separates.
func ParsePair(s string) (Pair, error) {
	user, pass, ok := strings.Cut(s, ":")
	if !ok || user == "" {
		return Pair{}, fmt.Errorf("credential %q: want user:password", redact(s))
	}
	return Pair{Username: user, Password: pass}, nil
}

func redact(s string) string {
	if user, _, ok := strings.Cut(s, ":"); ok {
		return user + ":***"
	}
	return "***"
}

// Credentials holds the fixed admin and guest pairs. No lockout or rate limiting.
type Credentials struct {
	admins []Pair
	guests []Pair
}

// NewCredentials builds a checker from admin and guest pairs.
func NewCredentials(admins, guests []Pair) *Credentials {
	return &Credentials{admins: admins, guests: guests}
}

// Check reports whether username/password match a pair of the given tier.
// The first matching pair wins.
func (c *Credentials) Check(tier model.Role, username, password string) bool {
	var pairs []Pair
	switch tier {
	case model.RoleAdmin:
		pairs = c.admins
	case model.RoleGuest:
		pairs = c.guests
	default:
		return false
	}
	for _, p := range pairs {
		if p.Username == username && passwordMatches(p.Password, password) {
			return true
		}
	}
	return false
}

func passwordMatches(stored, given string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// HashPassword returns a bcrypt hash suitable for a credential entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
