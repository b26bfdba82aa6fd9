package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"guest", RoleGuest},
		{"public", RolePublic},
		{"", RolePublic},
		{"Admin", RolePublic},
		{"root", RolePublic},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRole(tt.in))
		})
	}
}

func TestRoleSeesPrivate(t *testing.T) {
	assert.False(t, RolePublic.SeesPrivate())
	assert.True(t, RoleGuest.SeesPrivate())
	assert.True(t, RoleAdmin.SeesPrivate())
}

func TestNewID(t *testing.T) {
	id := NewID("link")
	assert.True(t, strings.HasPrefix(id, "link_"))
	assert.Greater(t, len(id), len("link_"))
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("load categories", cause)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)

	err = Invalid("unsupported type %q", "text/plain")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "text/plain")
}
