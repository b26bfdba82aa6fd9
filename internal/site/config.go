// Package site owns the site configuration document: title, subtitle and
// the ordered list of background images.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bryan-buckman/linkpage/internal/database"
	"github.com/bryan-buckman/linkpage/internal/model"
)

// Authorizer decides whether a token may mutate the configuration.
type Authorizer interface {
	RequireAdmin(token string) bool
}

// Defaults seeds the configuration on first access.
type Defaults struct {
	Title    string
	Subtitle string
}

// DefaultTitles are used when no defaults are configured.
var DefaultTitles = Defaults{
	Title:    "我的导航",
	Subtitle: "连接万物，导航无限可能",
}

// View is the configuration as shown to callers. Image payloads are
// replaced by URLs.
type View struct {
	Title               string   `json:"title"`
	Subtitle            string   `json:"subtitle"`
	BackgroundImageURLs []string `json:"backgroundImageUrls"`
}

// Update carries a configuration change. Title and Subtitle are always
// written, even when empty.
type Update struct {
	Title           string
	Subtitle        string
	ResetBackground bool
}

// Manager reads and writes the site configuration.
type Manager struct {
	store    database.Store
	auth     Authorizer
	defaults Defaults
	logger   *slog.Logger
}

// NewManager creates a configuration manager.
func NewManager(store database.Store, auth Authorizer, defaults Defaults, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		auth:     auth,
		defaults: defaults,
		logger:   logger.With("component", "site"),
	}
}

// Config returns the current configuration, creating it on first access.
func (m *Manager) Config(ctx context.Context) (View, error) {
	cfg, err := m.load(ctx)
	if err != nil {
		return View{}, err
	}
	urls := make([]string, len(cfg.BackgroundImages))
	for i := range cfg.BackgroundImages {
		urls[i] = ImageURL(i)
	}
	return View{Title: cfg.Title, Subtitle: cfg.Subtitle, BackgroundImageURLs: urls}, nil
}

// Update overwrites title and subtitle and optionally clears all
// background images, in a single write.
func (m *Manager) Update(ctx context.Context, token string, u Update) error {
	if !m.auth.RequireAdmin(token) {
		return model.ErrForbidden
	}
	cfg, err := m.load(ctx)
	if err != nil {
		return err
	}
	cfg.Title = u.Title
	cfg.Subtitle = u.Subtitle
	if u.ResetBackground {
		cfg.BackgroundImages = []string{}
	}
	if err := m.save(ctx, cfg); err != nil {
		return err
	}
	m.logger.Info("site config updated", "reset_background", u.ResetBackground)
	return nil
}

func (m *Manager) load(ctx context.Context) (model.SiteConfig, error) {
	var cfg model.SiteConfig
	err := database.GetJSON(ctx, m.store, model.KeySiteConfig, &cfg)
	if errors.Is(err, database.ErrNotFound) {
		cfg = model.SiteConfig{
			Title:            m.defaults.Title,
			Subtitle:         m.defaults.Subtitle,
			BackgroundImages: []string{},
		}
		if err := m.save(ctx, cfg); err != nil {
			return model.SiteConfig{}, err
		}
		m.logger.Info("initialized default site config")
		return cfg, nil
	}
	if err != nil {
		return model.SiteConfig{}, model.Upstream("load site config", err)
	}
	if cfg.BackgroundImages == nil {
		cfg.BackgroundImages = []string{}
	}
	return cfg, nil
}

func (m *Manager) save(ctx context.Context, cfg model.SiteConfig) error {
	if err := m.store.Put(ctx, model.KeySiteConfig, cfg); err != nil {
		return model.Upstream("save site config", err)
	}
	return nil
}

// ImageURL is the public address of the background image at position.
func ImageURL(position int) string {
	return fmt.Sprintf("/background-image/%d", position)
}
