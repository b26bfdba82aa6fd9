package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryan-buckman/linkpage/internal/model"
)

func TestParsePair(t *testing.T) {
	p, err := ParsePair("admin:pa:ss")
	require.NoError(t, err)
	assert.Equal(t, Pair{Username: "admin", Password: "pa:ss"}, p)

	for _, bad := range []string{"", "nocolon", ":pass"} {
		_, err := ParsePair(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePair_RedactsPassword(t *testing.T) {
	_, err := ParsePair(":topsecret")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestCredentials_Check(t *testing.T) {
	hash, err := HashPassword("hashed-pw")
	require.NoError(t, err)

	creds := NewCredentials(
		[]Pair{{"alice", "plain"}, {"bob", hash}},
		[]Pair{{"carol", "guestpw"}},
	)

	tests := []struct {
		name     string
		tier     model.Role
		user     string
		password string
		want     bool
	}{
		{"admin plaintext", model.RoleAdmin, "alice", "plain", true},
		{"admin bcrypt", model.RoleAdmin, "bob", "hashed-pw", true},
		{"admin bcrypt wrong", model.RoleAdmin, "bob", "nope", false},
		{"guest", model.RoleGuest, "carol", "guestpw", true},
		{"guest on admin tier", model.RoleAdmin, "carol", "guestpw", false},
		{"admin on guest tier", model.RoleGuest, "alice", "plain", false},
		{"unknown user", model.RoleAdmin, "dave", "plain", false},
		{"public tier", model.RolePublic, "alice", "plain", false},
		{"empty password", model.RoleAdmin, "alice", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, creds.Check(tt.tier, tt.user, tt.password))
		})
	}
}

func TestCredentials_Empty(t *testing.T) {
	creds := NewCredentials(nil, nil)
	assert.False(t, creds.Check(model.RoleAdmin, "", ""))
}
