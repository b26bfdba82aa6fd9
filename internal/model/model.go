// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Role is the access level of a caller.
type Role string

// Roles, from least to most privileged.
const (
	RolePublic Role = "public"
	RoleGuest  Role = "guest"
	RoleAdmin  Role = "admin"
)

// ParseRole maps a role string to a Role. Anything unrecognised is public.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleGuest:
		return RoleGuest
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePublic
	}
}

// SeesPrivate reports whether the role may read private categories and subcategories.
func (r Role) SeesPrivate() bool {
	return r == RoleGuest || r == RoleAdmin
}

// Link is a single entry on the page.
type Link struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Subcategory groups links inside a category. Its position in the parent's
// slice is its order.
type Subcategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
	Links     []Link `json:"links"`
}

// Category is a top-level section of the page.
type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon"`
	IsPrivate     bool          `json:"isPrivate"`
	Order         int           `json:"order"`
	Subcategories []Subcategory `json:"subcategories"`
	Links         []Link        `json:"links"`
}

// SiteConfig is the admin-editable page configuration. Background images are
// data URLs addressed only by their position.
type SiteConfig struct {
	Title            string   `json:"title"`
	Subtitle         string   `json:"chineseTitle"`
	BackgroundImages []string `json:"backgroundImages"`
}

// Document keys in the persistent store.
const (
	KeySiteConfig = "site_config"
	KeyCategories = "categories"
)

// NewID returns an id derived from the current time. Two calls in the same
// nanosecond collide; nothing prevents that.
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
