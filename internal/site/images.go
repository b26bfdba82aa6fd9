package site

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/bryan-buckman/linkpage/internal/model"
)

// DefaultMaxImageBytes caps a single upload when no limit is configured.
const DefaultMaxImageBytes = 10 << 20

// Images stores background images inside the site configuration.
//
// Images have no stable id. They are addressed by position, and deleting
// one shifts every later image down by one. Callers holding an old
// position must re-read the configuration.
type Images struct {
	cfg      *Manager
	maxBytes int
}

// NewImages creates an image store over the configuration manager.
// maxBytes <= 0 selects DefaultMaxImageBytes.
func NewImages(cfg *Manager, maxBytes int) *Images {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Images{cfg: cfg, maxBytes: maxBytes}
}

// MaxBytes is the largest payload Append accepts.
func (s *Images) MaxBytes() int {
	return s.maxBytes
}

// Append adds an image to the end of the list and returns its position.
func (s *Images) Append(ctx context.Context, token string, data []byte, mimeType string) (int, error) {
	if !s.cfg.auth.RequireAdmin(token) {
		return 0, model.ErrForbidden
	}
	mediaType, err := imageType(mimeType)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, model.Invalid("empty file")
	}
	if len(data) > s.maxBytes {
		return 0, model.Invalid("file is %d bytes, limit is %d", len(data), s.maxBytes)
	}

	cfg, err := s.cfg.load(ctx)
	if err != nil {
		return 0, err
	}
	cfg.BackgroundImages = append(cfg.BackgroundImages, encodeDataURL(mediaType, data))
	if err := s.cfg.save(ctx, cfg); err != nil {
		return 0, err
	}
	pos := len(cfg.BackgroundImages) - 1
	s.cfg.logger.Info("background image added", "position", pos, "type", mediaType, "bytes", len(data))
	return pos, nil
}

// Fetch returns the decoded image at position and its declared MIME type.
func (s *Images) Fetch(ctx context.Context, position int) ([]byte, string, error) {
	cfg, err := s.cfg.load(ctx)
	if err != nil {
		return nil, "", err
	}
	if position < 0 || position >= len(cfg.BackgroundImages) {
		return nil, "", model.ErrNotFound
	}
	data, mimeType, err := decodeDataURL(cfg.BackgroundImages[position])
	if err != nil {
		s.cfg.logger.Warn("unreadable background image", "position", position, "error", err)
		return nil, "", model.ErrNotFound
	}
	return data, mimeType, nil
}

// Delete removes the image at position. Later images move down one place.
func (s *Images) Delete(ctx context.Context, token string, position int) error {
	if !s.cfg.auth.RequireAdmin(token) {
		return model.ErrForbidden
	}
	cfg, err := s.cfg.load(ctx)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(cfg.BackgroundImages) {
		return model.ErrNotFound
	}
	cfg.BackgroundImages = append(cfg.BackgroundImages[:position], cfg.BackgroundImages[position+1:]...)
	if err := s.cfg.save(ctx, cfg); err != nil {
		return err
	}
	s.cfg.logger.Info("background image deleted", "position", position, "remaining", len(cfg.BackgroundImages))
	return nil
}

// imageType validates a Content-Type and returns its bare media type.
func imageType(contentType string) (string, error) {
	if contentType == "" {
		return "", model.Invalid("missing content type")
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", model.Invalid("bad content type %q", contentType)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", model.Invalid("only images are accepted, got %q", mediaType)
	}
	return mediaType, nil
}

func encodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// decodeDataURL splits "data:<mime>;base64,<body>".
func decodeDataURL(s string) ([]byte, string, error) {
	header, body, ok := strings.Cut(s, ",")
	if !ok {
		return nil, "", fmt.Errorf("missing comma")
	}
	header, ok = strings.CutPrefix(header, "data:")
	if !ok {
		return nil, "", fmt.Errorf("missing data: prefix")
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok || mimeType == "" {
		return nil, "", fmt.Errorf("not a base64 data url")
	}
	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, "", fmt.Errorf("decode body: %w", err)
	}
	return data, mimeType, nil
}
