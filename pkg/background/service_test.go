package background

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
	"github.com/Saber4Dev/tmdb-slider/pkg/slider"
	"github.com/Saber4Dev/tmdb-slider/pkg/tmdb"
)

type fakeCatalog struct {
	items  []tmdb.Item
	err    error
	method string
	kind   tmdb.Kind
	limit  int
}

var _ slider.Catalog = (*fakeCatalog)(nil)

func (c *fakeCatalog) respond(method string, kind tmdb.Kind, limit int) ([]tmdb.Item, error) {
	c.method, c.kind, c.limit = method, kind, limit
	return c.items, c.err
}

func (c *fakeCatalog) Trending(_ context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error) {
	return c.respond("trending", kind, limit)
}

func (c *fakeCatalog) Popular(_ context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error) {
	return c.respond("popular", kind, limit)
}

func (c *fakeCatalog) TopRated(_ context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error) {
	return c.respond("topRated", kind, limit)
}

func (c *fakeCatalog) NowPlaying(_ context.Context, kind tmdb.Kind, limit int) ([]tmdb.Item, error) {
	return c.respond("nowPlaying", kind, limit)
}

func (c *fakeCatalog) DiscoverByKeywords(_ context.Context, kind tmdb.Kind, _ string, limit int) ([]tmdb.Item, error) {
	return c.respond("discover", kind, limit)
}

func TestServiceImages(t *testing.T) {
	catalog := &fakeCatalog{items: []tmdb.Item{
		{ID: 1, Title: "First", BackdropPath: "/1.jpg"},
		{ID: 2, Title: "No backdrop"},
		{ID: 3, Name: "Third", BackdropPath: "/3.jpg"},
	}}
	s := NewService(catalog, settings.NewStatic(settings.Default()), zap.NewNop())

	images, err := s.Images(context.Background(), Request{TopRated, tmdb.TV})
	require.NoError(t, err)
	expected := []Image{
		{URL: "https://image.tmdb.org/t/p/w1280/1.jpg", Title: "First"},
		{URL: "https://image.tmdb.org/t/p/w1280/3.jpg", Title: "Third"},
	}
	if diff := cmp.Diff(expected, images); diff != "" {
		t.Errorf("Images mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, "topRated", catalog.method)
	require.Equal(t, tmdb.TV, catalog.kind)
	require.Equal(t, settings.DefaultBackgroundLimit, catalog.limit)
}

func TestServiceDispatch(t *testing.T) {
	tests := []struct {
		req       Request
		expMethod string
	}{
		{Request{Popular, tmdb.Movie}, "popular"},
		{Request{Trending, tmdb.TV}, "trending"},
		{Request{TopRated, tmdb.Movie}, "topRated"},
		{Request{NowPlaying, tmdb.Movie}, "nowPlaying"},
		{Request{OnAir, tmdb.TV}, "nowPlaying"},
	}
	for _, tc := range tests {
		catalog := &fakeCatalog{items: []tmdb.Item{{ID: 1, BackdropPath: "/1.jpg"}}}
		stored := settings.Default()
		stored.Background.Limit = 5
		s := NewService(catalog, settings.NewStatic(stored), zap.NewNop())
		_, err := s.Images(context.Background(), tc.req)
		require.NoError(t, err)
		require.Equal(t, tc.expMethod, catalog.method)
		require.Equal(t, tc.req.Kind, catalog.kind)
		require.Equal(t, 5, catalog.limit)
	}
}

func TestServiceEmpty(t *testing.T) {
	s := NewService(&fakeCatalog{}, settings.NewStatic(settings.Default()), zap.NewNop())
	_, err := s.Images(context.Background(), Request{Popular, tmdb.Movie})
	var emptyErr *slider.EmptyError
	require.True(t, errors.As(err, &emptyErr))
	require.Equal(t, slider.NoResults, emptyErr.Reason)

	s = NewService(&fakeCatalog{items: []tmdb.Item{{ID: 1, PosterPath: "/p.jpg"}}}, settings.NewStatic(settings.Default()), zap.NewNop())
	_, err = s.Images(context.Background(), Request{Popular, tmdb.TV})
	require.True(t, errors.As(err, &emptyErr))
	require.Equal(t, slider.NoImages, emptyErr.Reason)
	require.Equal(t, "No TV shows with backdrops found.", err.Error())
}

func TestServiceError(t *testing.T) {
	s := NewService(&fakeCatalog{err: tmdb.ErrMissingCredential}, settings.NewStatic(settings.Default()), zap.NewNop())
	_, err := s.Images(context.Background(), Request{Popular, tmdb.Movie})
	require.True(t, errors.Is(err, tmdb.ErrMissingCredential))
}

func TestServiceSettings(t *testing.T) {
	stored := settings.Default()
	stored.Background.ChangeInterval = 8
	stored.Background.OverlayColor = "#112233"
	s := NewService(&fakeCatalog{}, settings.NewStatic(stored), zap.NewNop())
	require.Equal(t, stored.Background, s.Settings())
}
