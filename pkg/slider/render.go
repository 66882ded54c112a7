package slider

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

// Catalog is the part of the TMDb client that the renderer needs.
type Catalog interface {
	Trending(ctx context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error)
	Popular(ctx context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error)
	TopRated(ctx context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error)
	NowPlaying(ctx context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error)
	DiscoverByKeywords(ctx context.Context, kind tmdb.Kind, keywords string, limit int) ([]tmdb.Item, error)
}

var _ Catalog = (*tmdb.Client)(nil)

// Result is the render model of one slider invocation.
// If Err is set, Slides is empty and the consumer shows Message(Err) instead of the slider.
type Result struct {
	Config Config
	Slides []Slide
	Err    error
}

// Renderer runs the pipeline resolve, fetch and shape for slider invocations.
// Invocations are independent of each other, a failing one doesn't affect others.
type Renderer struct {
	catalog  Catalog
	settings settings.Provider
	logger   *zap.Logger
}

func NewRenderer(catalog Catalog, provider settings.Provider, logger *zap.Logger) *Renderer {
	return &Renderer{
		catalog:  catalog,
		settings: provider,
		logger:   logger,
	}
}

// Render resolves the configuration for the category and fetches and shapes its items.
func (r *Renderer) Render(ctx context.Context, category Category, o Overrides) Result {
	stored := r.settings.Settings()
	config := Resolve(o, stored, category)
	logger := r.logger.With(zap.Stringer("category", category), zap.Stringer("kind", config.Kind))

	if !config.Enabled {
		logger.Debug("Slider is disabled")
		return Result{Config: config, Err: &DisabledError{Category: category}}
	}

	items, err := r.fetch(ctx, config, stored.SportsKeywords)
	if err != nil {
		logger.Warn("Couldn't fetch slider items", zap.Error(err))
		return Result{Config: config, Err: err}
	}

	slides, err := Shape(items, config.ImageField, config.Limit)
	if err != nil {
		var emptyErr *EmptyError
		if errors.As(err, &emptyErr) && emptyErr.Reason == NoResults {
			emptyErr.Kind = config.Kind
		}
		logger.Info("Nothing to show", zap.Error(err))
		return Result{Config: config, Err: err}
	}
	logger.Debug("Rendered slider", zap.Int("slides", len(slides)))
	return Result{Config: config, Slides: slides}
}

// RenderShortcode renders the slider for a registered shortcode tag.
// The boolean return value signals if the tag is registered.
func (r *Renderer) RenderShortcode(ctx context.Context, tag string, attrs map[string]string) (Result, bool) {
	sc, ok := LookupShortcode(tag)
	if !ok {
		return Result{}, false
	}
	return r.Render(ctx, sc.Category, sc.Apply(ParseAttributes(attrs))), true
}

func (r *Renderer) fetch(ctx context.Context, config Config, sportsKeywords string) ([]tmdb.Item, error) {
	switch config.Category {
	case Popular:
		return r.catalog.Popular(ctx, config.Kind, config.Limit)
	case TopRated:
		return r.catalog.TopRated(ctx, config.Kind, config.Limit)
	case NowPlaying:
		return r.catalog.NowPlaying(ctx, config.Kind, config.Limit)
	case Sports:
		return r.catalog.DiscoverByKeywords(ctx, config.Kind, sportsKeywords, config.Limit)
	}
	return r.catalog.Trending(ctx, config.Kind, config.Limit)
}
