package background

import (
	"context"

	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/slider"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Image is one element of a background set.
type Image struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Service creates background sets from catalog lists.
type Service struct {
	catalog  slider.Catalog
	settings settings.Provider
	logger   *zap.Logger
}

func NewService(catalog slider.Catalog, provider settings.Provider, logger *zap.Logger) *Service {
	return &Service{
		catalog:  catalog,
		settings: provider,
		logger:   logger,
	}
}

// Images returns the backdrops of the requested list, in upstream order.
// An empty list leads to a *slider.EmptyError.
func (s *Service) Images(ctx context.Context, req Request) ([]Image, error) {
	limit := s.settings.Settings().Background.Limit
	if limit <= 0 {
		limit = settings.DefaultBackgroundLimit
	}

	items, err := s.fetch(ctx, req, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &slider.EmptyError{Reason: slider.NoResults, Field: slider.Backdrop, Kind: req.Kind}
	}

	var images []Image
	for _, item := range items {
		if item.BackdropPath == "" {
			continue
		}
		images = append(images, Image{
			URL:   tmdb.ImageURL(item.BackdropPath, tmdb.SizeBackdrop),
			Title: item.DisplayTitle(),
		})
	}
	if len(images) == 0 {
		return nil, &slider.EmptyError{Reason: slider.NoImages, Field: slider.Backdrop, Kind: req.Kind}
	}
	s.logger.Debug("Created background set", zap.Stringer("category", req.Category), zap.Stringer("kind", req.Kind), zap.Int("images", len(images)))
	return images, nil
}

// Settings returns the display options for the rotation controller.
func (s *Service) Settings() settings.Background {
	return s.settings.Settings().Background
}

func (s *Service) fetch(ctx context.Context, req Request, limit int) ([]tmdb.Item, error) {
	switch req.Category {
	case Trending:
		return s.catalog.Trending(ctx, req.Kind, limit)
	case TopRated:
		return s.catalog.TopRated(ctx, req.Kind, limit)
	case NowPlaying, OnAir:
		return s.catalog.NowPlaying(ctx, req.Kind, limit)
	}
	return s.catalog.Popular(ctx, req.Kind, limit)
}
