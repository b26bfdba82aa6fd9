// Package content owns the category/subcategory/link tree.
//
// The whole tree is one document in the persistent store. Every write
// replaces it wholesale; there is no locking or versioning, so two admins
// saving at the same time race and the last write wins.
package content

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/bryan-buckman/linkpage/internal/database"
	"github.com/bryan-buckman/linkpage/internal/model"
)

// Authorizer decides whether a token may mutate content.
type Authorizer interface {
	RequireAdmin(token string) bool
}

// Manager reads and writes the content tree.
type Manager struct {
	store  database.Store
	auth   Authorizer
	logger *slog.Logger
}

// NewManager creates a tree manager.
func NewManager(store database.Store, auth Authorizer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, auth: auth, logger: logger.With("component", "content")}
}

// Tree returns the categories visible to role, ordered by Order ascending.
// The first read ever persists the built-in default tree.
func (m *Manager) Tree(ctx context.Context, role model.Role) ([]model.Category, error) {
	cats, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })
	if role.SeesPrivate() {
		return cats, nil
	}
	return FilterPublic(cats), nil
}

// Replace stores cats as the new tree. Order is rewritten from slice
// position; any caller-supplied value is ignored. Ids are taken as given:
// duplicates overwrite blindly and nothing is merged with the previous tree.
func (m *Manager) Replace(ctx context.Context, token string, cats []model.Category) error {
	if !m.auth.RequireAdmin(token) {
		return model.ErrForbidden
	}
	cats = Normalize(cats)
	if err := m.store.Put(ctx, model.KeyCategories, cats); err != nil {
		return model.Upstream("save categories", err)
	}
	m.logger.Info("categories replaced", "count", len(cats))
	return nil
}

func (m *Manager) load(ctx context.Context) ([]model.Category, error) {
	var cats []model.Category
	err := database.GetJSON(ctx, m.store, model.KeyCategories, &cats)
	if errors.Is(err, database.ErrNotFound) {
		cats = DefaultCategories()
		if err := m.store.Put(ctx, model.KeyCategories, cats); err != nil {
			return nil, model.Upstream("save default categories", err)
		}
		m.logger.Info("initialized default categories")
		return cats, nil
	}
	if err != nil {
		return nil, model.Upstream("load categories", err)
	}
	return cats, nil
}

// Normalize returns a copy of cats with Order set to position+1 and nil
// child slices replaced by empty ones.
func Normalize(cats []model.Category) []model.Category {
	out := make([]model.Category, len(cats))
	for i, c := range cats {
		c.Order = i + 1
		if c.Links == nil {
			c.Links = []model.Link{}
		}
		subs := make([]model.Subcategory, len(c.Subcategories))
		for j, s := range c.Subcategories {
			if s.Links == nil {
				s.Links = []model.Link{}
			}
			subs[j] = s
		}
		c.Subcategories = subs
		out[i] = c
	}
	return out
}

// FilterPublic drops private categories, and private subcategories of
// public categories. The input is not modified.
func FilterPublic(cats []model.Category) []model.Category {
	out := make([]model.Category, 0, len(cats))
	for _, c := range cats {
		if c.IsPrivate {
			continue
		}
		subs := make([]model.Subcategory, 0, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if !s.IsPrivate {
				subs = append(subs, s)
			}
		}
		c.Subcategories = subs
		out = append(out, c)
	}
	return out
}
